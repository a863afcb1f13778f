package delivery

import (
	"context"
	"errors"
)

// MessageRef identifies a delivered message for later in-place edits.
type MessageRef struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int   `json:"message_id"`
}

// Button is one pressable option on a screen. Action is the callback
// payload routed back through the dispatcher.
type Button struct {
	Label  string
	Action string
}

// Keyboard is the transport-agnostic option layout attached to a
// screen. Persistent keyboards stay visible under the input field
// (reply keyboards in Telegram terms) and carry their label as the
// action.
type Keyboard struct {
	Rows       [][]Button
	Persistent bool
}

// Row is a convenience constructor for a keyboard row.
func Row(buttons ...Button) []Button {
	return buttons
}

// ErrNotModified is returned by Edit when the message already has the
// requested content. The gateway treats it as success.
var ErrNotModified = errors.New("message not modified")

// Transport is the chat capability consumed by the gateway. Transient
// failures must be marked with Transient so the retry policy can tell
// them apart from permanent rejections.
type Transport interface {
	Send(ctx context.Context, chatID int64, text string, kb *Keyboard) (MessageRef, error)
	Edit(ctx context.Context, ref MessageRef, text string, kb *Keyboard) error
	SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, kb *Keyboard) (MessageRef, error)
}

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks an error as a retryable transport failure.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err is a retryable transport failure.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
