package delivery

import (
	"context"
	"sync"
)

// MockScreen is one delivery recorded by the mock transport.
type MockScreen struct {
	Ref      MessageRef
	Text     string
	Keyboard *Keyboard
	Edited   bool
	Photo    bool
}

// MockTransport implements Transport for testing. It records every
// delivered screen and can be primed to fail.
type MockTransport struct {
	mu     sync.Mutex
	nextID int

	// FailSends and FailEdits fail that many calls with a transient
	// error before succeeding. EditErr, when set, fails every edit
	// with the given error instead.
	FailSends int
	FailEdits int
	SendErr   error
	EditErr   error

	SendCalls  int
	EditCalls  int
	PhotoCalls int
	Screens    []MockScreen
}

var _ Transport = (*MockTransport)(nil)

func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

func (m *MockTransport) Send(ctx context.Context, chatID int64, text string, kb *Keyboard) (MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendCalls++
	if m.FailSends > 0 {
		m.FailSends--
		return MessageRef{}, Transient(errTimeout)
	}
	if m.SendErr != nil {
		return MessageRef{}, m.SendErr
	}
	m.nextID++
	ref := MessageRef{ChatID: chatID, MessageID: m.nextID}
	m.Screens = append(m.Screens, MockScreen{Ref: ref, Text: text, Keyboard: kb})
	return ref, nil
}

func (m *MockTransport) Edit(ctx context.Context, ref MessageRef, text string, kb *Keyboard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EditCalls++
	if m.FailEdits > 0 {
		m.FailEdits--
		return Transient(errTimeout)
	}
	if m.EditErr != nil {
		return m.EditErr
	}
	m.Screens = append(m.Screens, MockScreen{Ref: ref, Text: text, Keyboard: kb, Edited: true})
	return nil
}

func (m *MockTransport) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, kb *Keyboard) (MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PhotoCalls++
	m.nextID++
	ref := MessageRef{ChatID: chatID, MessageID: m.nextID}
	m.Screens = append(m.Screens, MockScreen{Ref: ref, Text: caption, Keyboard: kb, Photo: true})
	return ref, nil
}

// LastScreen returns the most recently delivered screen.
func (m *MockTransport) LastScreen() (MockScreen, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Screens) == 0 {
		return MockScreen{}, false
	}
	return m.Screens[len(m.Screens)-1], true
}

// ScreenCount returns how many screens were delivered.
func (m *MockTransport) ScreenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Screens)
}

type timeoutError struct{}

func (timeoutError) Error() string { return "transport timed out" }

var errTimeout = timeoutError{}
