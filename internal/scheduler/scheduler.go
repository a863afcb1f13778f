// Package scheduler owns the concurrent timers for in-flight quests.
// One goroutine runs per quest, refreshing the progress screen on a
// fixed tick and applying the completion reward when the duration
// elapses. Timers live in process memory only; a restart loses them.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/timequest/internal/delivery"
	"github.com/jwebster45206/timequest/internal/menu"
	"github.com/jwebster45206/timequest/internal/session"
	"github.com/jwebster45206/timequest/internal/storage"
	"github.com/jwebster45206/timequest/pkg/quest"
)

// Scheduler drives quest timers and completion rewards.
type Scheduler struct {
	repo     storage.ProfileRepository
	gw       *delivery.Gateway
	sessions *session.Store
	log      *slog.Logger
	tick     time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a scheduler ticking at the given interval.
func New(repo storage.ProfileRepository, gw *delivery.Gateway, sessions *session.Store, log *slog.Logger, tick time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		repo:     repo,
		gw:       gw,
		sessions: sessions,
		log:      log,
		tick:     tick,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Stop cancels all timer tasks and waits for them to exit. Pending
// completions are lost, matching the no-durable-schedule model.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// Schedule starts the timer task for a quest. The task is bound to the
// quest id, so a stale timer firing after the quest was completed or
// replaced is a no-op.
func (s *Scheduler) Schedule(userID string, chatID int64, q *quest.Active) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(userID, chatID, q)
	}()
	s.log.Info("Quest scheduled", "user_id", userID, "quest_id", q.ID, "title", q.Title, "duration", q.Duration)
}

func (s *Scheduler) run(userID string, chatID int64, q *quest.Active) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	// Render failures are swallowed by the gateway; the timer keeps
	// running toward completion regardless.
	lastScreen := ""
	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			if q.ProgressAt(now).Done {
				s.Complete(s.ctx, userID, chatID, q.ID)
				return
			}
			if screen := q.Screen(now); screen != lastScreen {
				s.gw.Render(s.ctx, userID, chatID, screen, nil)
				lastScreen = screen
			}
		}
	}
}

// Complete applies the quest completion reward exactly once. It re-reads
// the profile under the user's session lock; when the active quest is
// already gone, or belongs to a different run, nothing happens.
func (s *Scheduler) Complete(ctx context.Context, userID string, chatID int64, questID uuid.UUID) {
	sess := s.sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load profile for quest completion", "user_id", userID, "error", err)
		return
	}
	if p == nil || p.ActiveQuest == nil || p.ActiveQuest.ID != questID {
		s.log.Debug("Stale quest completion ignored", "user_id", userID, "quest_id", questID)
		return
	}

	summary, ok := p.CompleteActiveQuest()
	if !ok {
		return
	}
	if err := s.repo.SaveProfile(ctx, p); err != nil {
		s.log.Error("Failed to persist quest completion", "user_id", userID, "error", err)
		return
	}

	s.log.Info("Quest completed", "user_id", userID, "quest_id", questID,
		"exp", summary.Exp, "level", p.Level, "region", p.Region)
	s.gw.Render(ctx, userID, chatID, menu.QuestSummary(summary), menu.Main(true))
}

// RenderProgress renders the live quest screen on demand, without
// waiting for the next tick. It reports false when no quest is running.
func (s *Scheduler) RenderProgress(ctx context.Context, userID string, chatID int64) bool {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load profile for progress render", "user_id", userID, "error", err)
		return false
	}
	if p == nil || p.ActiveQuest == nil {
		return false
	}
	s.gw.Render(ctx, userID, chatID, p.ActiveQuest.Screen(time.Now()), menu.Main(true))
	return true
}
