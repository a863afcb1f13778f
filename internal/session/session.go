// Package session tracks each user's ephemeral dialog state: which
// multi-step input the user is mid-way through, values staged across
// steps, and the reference to the last rendered screen. State lives for
// the process lifetime only.
package session

import (
	"sync"

	"github.com/jwebster45206/timequest/internal/delivery"
)

// Mode is the pending-input state of a user's dialog. Modes are
// mutually exclusive and transition linearly within a dialog.
type Mode int

const (
	ModeNone Mode = iota
	ModeAwaitingName
	ModeAwaitingClass
	ModeAwaitingQuestText
	ModeAwaitingDifficulty
	ModeResting
)

// Purpose distinguishes the create and edit variants of the name
// dialog.
type Purpose int

const (
	PurposeCreate Purpose = iota
	PurposeEdit
)

// RestTokens is how many matching tokens the rest mini-game requires.
const RestTokens = 5

// Session is one user's dialog state. All dialog operations for a user
// run under Lock, which serializes user input handling against quest
// completion for the same user.
type Session struct {
	mu sync.Mutex

	UserID string

	mode            Mode
	purpose         Purpose
	stagedName      string
	stagedQuestText string
	restCount       int

	msgMu   sync.Mutex
	lastMsg *delivery.MessageRef
}

// Lock serializes operations for this user.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-user lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Mode returns the current pending-input mode.
func (s *Session) Mode() Mode { return s.mode }

// NamePurpose reports whether the running name dialog creates or edits
// a hero. Only meaningful in the name and class modes.
func (s *Session) NamePurpose() Purpose { return s.purpose }

// Reset clears the dialog state back to ModeNone.
func (s *Session) Reset() {
	s.mode = ModeNone
	s.stagedName = ""
	s.stagedQuestText = ""
	s.restCount = 0
}

// BeginName starts the hero name dialog for create or edit.
func (s *Session) BeginName(p Purpose) {
	s.Reset()
	s.mode = ModeAwaitingName
	s.purpose = p
}

// SubmitName stages the entered name and advances to class selection.
// It reports false outside the name dialog.
func (s *Session) SubmitName(name string) bool {
	if s.mode != ModeAwaitingName {
		return false
	}
	s.stagedName = name
	s.mode = ModeAwaitingClass
	return true
}

// TakeName consumes the staged name once a class is selected, clearing
// the dialog. It reports false outside class selection.
func (s *Session) TakeName() (name string, p Purpose, ok bool) {
	if s.mode != ModeAwaitingClass {
		return "", 0, false
	}
	name, p = s.stagedName, s.purpose
	s.Reset()
	return name, p, true
}

// BeginQuestIntake starts the quest text dialog.
func (s *Session) BeginQuestIntake() {
	s.Reset()
	s.mode = ModeAwaitingQuestText
}

// SubmitQuestText stages the task description and advances to
// difficulty selection. It reports false outside the quest dialog.
func (s *Session) SubmitQuestText(text string) bool {
	if s.mode != ModeAwaitingQuestText {
		return false
	}
	s.stagedQuestText = text
	s.mode = ModeAwaitingDifficulty
	return true
}

// TakeQuestText consumes the staged task description once a difficulty
// is selected, clearing the dialog. It reports false outside difficulty
// selection.
func (s *Session) TakeQuestText() (string, bool) {
	if s.mode != ModeAwaitingDifficulty {
		return "", false
	}
	text := s.stagedQuestText
	s.Reset()
	return text, true
}

// BeginRest starts the rest mini-game at zero progress.
func (s *Session) BeginRest() {
	s.Reset()
	s.mode = ModeResting
}

// RestRemaining returns how many matching tokens are still needed.
func (s *Session) RestRemaining() int {
	return RestTokens - s.restCount
}

// AdvanceRest counts one matching rest token. When the fifth token
// lands the dialog clears and done is true. Mismatched tokens must not
// be counted; callers simply do not call AdvanceRest for them.
func (s *Session) AdvanceRest() (remaining int, done bool) {
	if s.mode != ModeResting {
		return 0, false
	}
	s.restCount++
	if s.restCount >= RestTokens {
		s.Reset()
		return 0, true
	}
	return RestTokens - s.restCount, false
}

// LastMessage returns the reference to the user's live screen. It is
// guarded separately from the dialog lock because the gateway reads it
// while a dialog operation is in flight.
func (s *Session) LastMessage() (delivery.MessageRef, bool) {
	s.msgMu.Lock()
	defer s.msgMu.Unlock()
	if s.lastMsg == nil {
		return delivery.MessageRef{}, false
	}
	return *s.lastMsg, true
}

// SetLastMessage records the user's live screen.
func (s *Session) SetLastMessage(ref delivery.MessageRef) {
	s.msgMu.Lock()
	defer s.msgMu.Unlock()
	s.lastMsg = &ref
}
