package main

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/timequest/internal/delivery"
)

// screenMsg carries a rendered screen from the engine into the UI.
type screenMsg struct {
	ref        delivery.MessageRef
	text       string
	buttons    [][]delivery.Button
	persistent bool
}

// loopback implements delivery.Transport by pushing screens straight
// into the bubbletea program. It mirrors enough transport behavior to
// exercise the gateway: message ids, in-place edits and the
// not-modified result.
type loopback struct {
	mu      sync.Mutex
	nextID  int
	content map[int]string
	program *tea.Program
}

var _ delivery.Transport = (*loopback)(nil)

func newLoopback() *loopback {
	return &loopback{content: make(map[int]string)}
}

// attach wires the running program. Screens rendered before attachment
// are dropped.
func (l *loopback) attach(p *tea.Program) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.program = p
}

func (l *loopback) Send(ctx context.Context, chatID int64, text string, kb *delivery.Keyboard) (delivery.MessageRef, error) {
	l.mu.Lock()
	l.nextID++
	ref := delivery.MessageRef{ChatID: chatID, MessageID: l.nextID}
	l.content[ref.MessageID] = text
	p := l.program
	l.mu.Unlock()

	if p != nil {
		p.Send(toScreenMsg(ref, text, kb))
	}
	return ref, nil
}

func (l *loopback) Edit(ctx context.Context, ref delivery.MessageRef, text string, kb *delivery.Keyboard) error {
	l.mu.Lock()
	prev, ok := l.content[ref.MessageID]
	if ok && prev == text {
		l.mu.Unlock()
		return delivery.ErrNotModified
	}
	l.content[ref.MessageID] = text
	p := l.program
	l.mu.Unlock()

	if p != nil {
		p.Send(toScreenMsg(ref, text, kb))
	}
	return nil
}

func (l *loopback) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, kb *delivery.Keyboard) (delivery.MessageRef, error) {
	return l.Send(ctx, chatID, "[image]\n\n"+caption, kb)
}

func toScreenMsg(ref delivery.MessageRef, text string, kb *delivery.Keyboard) screenMsg {
	msg := screenMsg{ref: ref, text: text}
	if kb != nil {
		msg.buttons = kb.Rows
		msg.persistent = kb.Persistent
	}
	return msg
}
