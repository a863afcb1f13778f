// Package delivery renders exactly one live screen per user through a
// retrying chat transport. Screens are edited in place when possible
// and sent fresh otherwise.
package delivery

import (
	"context"
	"log/slog"
	"time"

	"github.com/jwebster45206/timequest/internal/retry"
)

const (
	defaultAttempts = 3
	defaultDelay    = time.Second
)

// MessageTracker remembers the last rendered message per user. The
// session store implements it.
type MessageTracker interface {
	LastMessage(userID string) (MessageRef, bool)
	SetLastMessage(userID string, ref MessageRef)
}

// Gateway delivers screens over a Transport with retries.
type Gateway struct {
	transport Transport
	tracker   MessageTracker
	policy    retry.Policy
	log       *slog.Logger
}

// Option tweaks gateway construction.
type Option func(*Gateway)

// WithRetryDelay overrides the delay between attempts. Tests shorten
// it.
func WithRetryDelay(d time.Duration) Option {
	return func(g *Gateway) { g.policy.Delay = d }
}

// NewGateway creates a gateway with the fixed 3-attempt retry policy.
func NewGateway(transport Transport, tracker MessageTracker, log *slog.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		transport: transport,
		tracker:   tracker,
		policy: retry.Policy{
			MaxAttempts: defaultAttempts,
			Delay:       defaultDelay,
			Retryable:   IsTransient,
		},
		log: log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Render shows text as the user's current screen. If a previous screen
// exists it is edited in place; an unmodified edit counts as success,
// and any other edit failure falls back to a fresh send. Delivery
// failures after retries are logged, not surfaced.
func (g *Gateway) Render(ctx context.Context, userID string, chatID int64, text string, kb *Keyboard) {
	if ref, ok := g.tracker.LastMessage(userID); ok {
		err := retry.Do(ctx, g.policy, func() error {
			err := g.transport.Edit(ctx, ref, text, kb)
			if err == ErrNotModified {
				return nil
			}
			return err
		})
		if err == nil {
			// Same message id keeps serving as the live screen.
			return
		}
		g.log.Debug("Edit failed, sending fresh message", "user_id", userID, "error", err)
	}

	g.send(ctx, userID, chatID, text, kb)
}

// RenderPhoto sends a photo with caption as a fresh message. It is used
// for the welcome screen only and never edits in place.
func (g *Gateway) RenderPhoto(ctx context.Context, userID string, chatID int64, photo []byte, caption string, kb *Keyboard) {
	ref, err := retry.DoValue(ctx, g.policy, func() (MessageRef, error) {
		return g.transport.SendPhoto(ctx, chatID, photo, caption, kb)
	})
	if err != nil {
		g.log.Error("Photo delivery failed after retries", "user_id", userID, "error", err)
		return
	}
	g.tracker.SetLastMessage(userID, ref)
}

func (g *Gateway) send(ctx context.Context, userID string, chatID int64, text string, kb *Keyboard) {
	ref, err := retry.DoValue(ctx, g.policy, func() (MessageRef, error) {
		return g.transport.Send(ctx, chatID, text, kb)
	})
	if err != nil {
		g.log.Error("Delivery failed after retries", "user_id", userID, "error", err)
		return
	}
	g.tracker.SetLastMessage(userID, ref)
}
