package delivery

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type mapTracker struct {
	refs map[string]MessageRef
}

func newMapTracker() *mapTracker {
	return &mapTracker{refs: make(map[string]MessageRef)}
}

func (t *mapTracker) LastMessage(userID string) (MessageRef, bool) {
	ref, ok := t.refs[userID]
	return ref, ok
}

func (t *mapTracker) SetLastMessage(userID string, ref MessageRef) {
	t.refs[userID] = ref
}

func testGateway(tr Transport, tracker MessageTracker) *Gateway {
	log := slog.New(slog.NewTextHandler(testWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewGateway(tr, tracker, log, WithRetryDelay(time.Millisecond))
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestRenderSendsWhenNoPriorMessage(t *testing.T) {
	mt := NewMockTransport()
	tracker := newMapTracker()
	g := testGateway(mt, tracker)

	g.Render(context.Background(), "u1", 100, "hello", nil)

	if mt.SendCalls != 1 || mt.EditCalls != 0 {
		t.Fatalf("send/edit calls = %d/%d, want 1/0", mt.SendCalls, mt.EditCalls)
	}
	ref, ok := tracker.LastMessage("u1")
	if !ok {
		t.Fatal("tracker has no message ref")
	}
	if ref.ChatID != 100 {
		t.Errorf("chat id = %d, want 100", ref.ChatID)
	}
}

func TestRenderEditsInPlace(t *testing.T) {
	mt := NewMockTransport()
	tracker := newMapTracker()
	g := testGateway(mt, tracker)

	g.Render(context.Background(), "u1", 100, "first", nil)
	first, _ := tracker.LastMessage("u1")

	g.Render(context.Background(), "u1", 100, "second", nil)

	if mt.EditCalls != 1 {
		t.Fatalf("edit calls = %d, want 1", mt.EditCalls)
	}
	after, _ := tracker.LastMessage("u1")
	if after != first {
		t.Errorf("message ref changed on edit: %+v -> %+v", first, after)
	}
	screen, _ := mt.LastScreen()
	if !screen.Edited || screen.Text != "second" {
		t.Errorf("last screen = %+v", screen)
	}
}

func TestRenderNotModifiedIsSuccess(t *testing.T) {
	mt := NewMockTransport()
	tracker := newMapTracker()
	g := testGateway(mt, tracker)

	g.Render(context.Background(), "u1", 100, "same", nil)
	first, _ := tracker.LastMessage("u1")

	mt.EditErr = ErrNotModified
	g.Render(context.Background(), "u1", 100, "same", nil)

	if mt.SendCalls != 1 {
		t.Errorf("send calls = %d, want 1 (no fallback send)", mt.SendCalls)
	}
	if mt.EditCalls != 1 {
		t.Errorf("edit calls = %d, want 1 (no retries)", mt.EditCalls)
	}
	after, _ := tracker.LastMessage("u1")
	if after != first {
		t.Errorf("message ref changed: %+v -> %+v", first, after)
	}
}

func TestRenderEditFailureFallsBackToSend(t *testing.T) {
	mt := NewMockTransport()
	tracker := newMapTracker()
	g := testGateway(mt, tracker)

	g.Render(context.Background(), "u1", 100, "first", nil)
	first, _ := tracker.LastMessage("u1")

	mt.EditErr = errors.New("message to edit not found")
	g.Render(context.Background(), "u1", 100, "second", nil)

	if mt.SendCalls != 2 {
		t.Fatalf("send calls = %d, want 2", mt.SendCalls)
	}
	after, _ := tracker.LastMessage("u1")
	if after == first {
		t.Error("fallback send did not produce a new message ref")
	}
}

func TestRenderRetriesTransientEdits(t *testing.T) {
	mt := NewMockTransport()
	tracker := newMapTracker()
	g := testGateway(mt, tracker)

	g.Render(context.Background(), "u1", 100, "first", nil)

	mt.FailEdits = 2
	g.Render(context.Background(), "u1", 100, "second", nil)

	if mt.EditCalls != 3 {
		t.Errorf("edit calls = %d, want 3 (two transient failures)", mt.EditCalls)
	}
	if mt.SendCalls != 1 {
		t.Errorf("send calls = %d, want 1 (edit eventually succeeded)", mt.SendCalls)
	}
}

func TestRenderDropsAfterExhaustedRetries(t *testing.T) {
	mt := NewMockTransport()
	tracker := newMapTracker()
	g := testGateway(mt, tracker)

	mt.FailSends = 5
	g.Render(context.Background(), "u1", 100, "hello", nil)

	if mt.SendCalls != 3 {
		t.Errorf("send calls = %d, want 3 (attempts exhausted)", mt.SendCalls)
	}
	if _, ok := tracker.LastMessage("u1"); ok {
		t.Error("failed delivery recorded a message ref")
	}
}

func TestRenderPhotoAlwaysSendsFresh(t *testing.T) {
	mt := NewMockTransport()
	tracker := newMapTracker()
	g := testGateway(mt, tracker)

	g.Render(context.Background(), "u1", 100, "text", nil)
	first, _ := tracker.LastMessage("u1")

	g.RenderPhoto(context.Background(), "u1", 100, []byte{1, 2, 3}, "welcome", nil)

	if mt.PhotoCalls != 1 {
		t.Fatalf("photo calls = %d, want 1", mt.PhotoCalls)
	}
	after, _ := tracker.LastMessage("u1")
	if after == first {
		t.Error("photo did not become the new live screen")
	}
}

func TestIsTransient(t *testing.T) {
	if !IsTransient(Transient(errors.New("timeout"))) {
		t.Error("wrapped error not transient")
	}
	if IsTransient(errors.New("bad request")) {
		t.Error("plain error reported transient")
	}
}
