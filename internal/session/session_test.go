package session

import (
	"testing"

	"github.com/jwebster45206/timequest/internal/delivery"
)

func TestNameDialog(t *testing.T) {
	s := &Session{UserID: "u1"}

	s.BeginName(PurposeCreate)
	if s.Mode() != ModeAwaitingName {
		t.Fatalf("mode = %d, want ModeAwaitingName", s.Mode())
	}

	if !s.SubmitName("Rin") {
		t.Fatal("SubmitName rejected in name mode")
	}
	if s.Mode() != ModeAwaitingClass {
		t.Fatalf("mode = %d, want ModeAwaitingClass", s.Mode())
	}

	name, purpose, ok := s.TakeName()
	if !ok || name != "Rin" || purpose != PurposeCreate {
		t.Fatalf("TakeName = %q, %d, %v", name, purpose, ok)
	}
	if s.Mode() != ModeNone {
		t.Errorf("mode = %d, want ModeNone after take", s.Mode())
	}
}

func TestNameDialogEditPurpose(t *testing.T) {
	s := &Session{UserID: "u1"}
	s.BeginName(PurposeEdit)
	s.SubmitName("Kira")
	if _, purpose, _ := s.TakeName(); purpose != PurposeEdit {
		t.Errorf("purpose = %d, want PurposeEdit", purpose)
	}
}

func TestStaleDialogStepsRejected(t *testing.T) {
	s := &Session{UserID: "u1"}

	if s.SubmitName("Rin") {
		t.Error("SubmitName accepted outside name dialog")
	}
	if _, _, ok := s.TakeName(); ok {
		t.Error("TakeName accepted outside class selection")
	}
	if s.SubmitQuestText("task") {
		t.Error("SubmitQuestText accepted outside quest dialog")
	}
	if _, ok := s.TakeQuestText(); ok {
		t.Error("TakeQuestText accepted outside difficulty selection")
	}
}

func TestQuestIntakeDialog(t *testing.T) {
	s := &Session{UserID: "u1"}

	s.BeginQuestIntake()
	if !s.SubmitQuestText("write the report") {
		t.Fatal("SubmitQuestText rejected in quest mode")
	}
	if s.Mode() != ModeAwaitingDifficulty {
		t.Fatalf("mode = %d, want ModeAwaitingDifficulty", s.Mode())
	}

	text, ok := s.TakeQuestText()
	if !ok || text != "write the report" {
		t.Fatalf("TakeQuestText = %q, %v", text, ok)
	}
	if s.Mode() != ModeNone {
		t.Errorf("mode = %d, want ModeNone after take", s.Mode())
	}
}

func TestDialogsReplaceEachOther(t *testing.T) {
	s := &Session{UserID: "u1"}
	s.BeginQuestIntake()
	s.BeginName(PurposeCreate)

	if s.SubmitQuestText("stale") {
		t.Error("old dialog still accepts input")
	}
	if !s.SubmitName("Rin") {
		t.Error("new dialog rejects input")
	}
}

func TestRestMiniGame(t *testing.T) {
	s := &Session{UserID: "u1"}
	s.BeginRest()

	if got := s.RestRemaining(); got != RestTokens {
		t.Fatalf("remaining = %d, want %d", got, RestTokens)
	}

	// Four matches, then a mismatch the caller does not count, then
	// the fifth match finishes.
	for i := 1; i <= 4; i++ {
		remaining, done := s.AdvanceRest()
		if done {
			t.Fatalf("done after %d tokens", i)
		}
		if remaining != RestTokens-i {
			t.Errorf("remaining = %d after %d tokens", remaining, i)
		}
	}

	if got := s.RestRemaining(); got != 1 {
		t.Errorf("remaining = %d after mismatch, want 1", got)
	}

	remaining, done := s.AdvanceRest()
	if !done || remaining != 0 {
		t.Fatalf("AdvanceRest = %d, %v, want 0, true", remaining, done)
	}
	if s.Mode() != ModeNone {
		t.Errorf("mode = %d, want ModeNone after finishing", s.Mode())
	}
}

func TestAdvanceRestOutsideRestMode(t *testing.T) {
	s := &Session{UserID: "u1"}
	if _, done := s.AdvanceRest(); done {
		t.Error("AdvanceRest reported done outside rest mode")
	}
}

func TestLastMessage(t *testing.T) {
	s := &Session{UserID: "u1"}

	if _, ok := s.LastMessage(); ok {
		t.Fatal("fresh session has a last message")
	}

	ref := delivery.MessageRef{ChatID: 7, MessageID: 3}
	s.SetLastMessage(ref)
	got, ok := s.LastMessage()
	if !ok || got != ref {
		t.Fatalf("LastMessage = %+v, %v", got, ok)
	}
}

func TestStoreGetCreatesOnce(t *testing.T) {
	st := NewStore()

	a := st.Get("u1")
	b := st.Get("u1")
	if a != b {
		t.Error("Get returned different sessions for the same user")
	}
	if a.UserID != "u1" {
		t.Errorf("user id = %q", a.UserID)
	}

	if c := st.Get("u2"); c == a {
		t.Error("distinct users share a session")
	}
}

func TestStorePeek(t *testing.T) {
	st := NewStore()
	if _, ok := st.Peek("u1"); ok {
		t.Fatal("Peek created a session")
	}
	st.Get("u1")
	if _, ok := st.Peek("u1"); !ok {
		t.Fatal("Peek missed an existing session")
	}
}

func TestStoreTracksMessages(t *testing.T) {
	st := NewStore()

	if _, ok := st.LastMessage("u1"); ok {
		t.Fatal("unknown user has a last message")
	}

	ref := delivery.MessageRef{ChatID: 9, MessageID: 1}
	st.SetLastMessage("u1", ref)
	got, ok := st.LastMessage("u1")
	if !ok || got != ref {
		t.Fatalf("LastMessage = %+v, %v", got, ok)
	}
}
