package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/timequest/internal/delivery"
	"github.com/jwebster45206/timequest/internal/session"
	"github.com/jwebster45206/timequest/internal/storage"
	"github.com/jwebster45206/timequest/pkg/hero"
	"github.com/jwebster45206/timequest/pkg/quest"
)

type fixture struct {
	repo      *storage.MemoryRepository
	transport *delivery.MockTransport
	sessions  *session.Store
	sched     *Scheduler
}

func setup(t *testing.T, tick time.Duration) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	f := &fixture{
		repo:      storage.NewMemoryRepository(),
		transport: delivery.NewMockTransport(),
		sessions:  session.NewStore(),
	}
	gw := delivery.NewGateway(f.transport, f.sessions, log, delivery.WithRetryDelay(time.Millisecond))
	f.sched = New(f.repo, gw, f.sessions, log, tick)
	t.Cleanup(f.sched.Stop)
	return f
}

// activeQuest builds an in-flight quest with an arbitrary duration,
// bypassing the fixed tiers so tests can use short timers.
func activeQuest(title string, d time.Duration, exp int) *quest.Active {
	return &quest.Active{
		ID:        uuid.New(),
		Title:     title,
		Duration:  d,
		ExpReward: exp,
		StartedAt: time.Now(),
	}
}

func saveHeroWithQuest(t *testing.T, repo *storage.MemoryRepository, q *quest.Active) *hero.Profile {
	t.Helper()
	p := hero.New("u1", "Rin", hero.ClassKnight)
	p.ActiveQuest = q
	if err := repo.SaveProfile(context.Background(), p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	return p
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestScheduleCompletesQuest(t *testing.T) {
	f := setup(t, 10*time.Millisecond)
	q := activeQuest("write the report", 30*time.Millisecond, 10)
	saveHeroWithQuest(t, f.repo, q)

	f.sched.Schedule("u1", 100, q)

	waitFor(t, func() bool {
		p, _ := f.repo.GetProfile(context.Background(), "u1")
		return p.ActiveQuest == nil
	})

	p, _ := f.repo.GetProfile(context.Background(), "u1")
	if p.Exp != 10 || p.Coins != hero.CoinsPerQuest || p.QuestsCompleted != 1 {
		t.Errorf("profile exp/coins/quests = %d/%d/%d", p.Exp, p.Coins, p.QuestsCompleted)
	}
	if len(p.Inventory) != 1 || p.Inventory[0] != hero.QuestRewardItem {
		t.Errorf("inventory = %v", p.Inventory)
	}

	waitFor(t, func() bool { return f.transport.ScreenCount() > 0 })
	screen, _ := f.transport.LastScreen()
	if screen.Keyboard == nil {
		t.Error("completion screen has no menu keyboard")
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	f := setup(t, time.Hour)
	q := activeQuest("task", time.Hour, 10)
	saveHeroWithQuest(t, f.repo, q)
	ctx := context.Background()

	f.sched.Complete(ctx, "u1", 100, q.ID)
	f.sched.Complete(ctx, "u1", 100, q.ID)

	p, _ := f.repo.GetProfile(ctx, "u1")
	if p.QuestsCompleted != 1 {
		t.Errorf("quests completed = %d, want 1", p.QuestsCompleted)
	}
	if p.Exp != 10 || p.Coins != hero.CoinsPerQuest {
		t.Errorf("reward applied %d times: exp=%d coins=%d", p.QuestsCompleted, p.Exp, p.Coins)
	}
}

func TestCompleteIgnoresStaleQuestID(t *testing.T) {
	f := setup(t, time.Hour)
	q := activeQuest("task", time.Hour, 10)
	saveHeroWithQuest(t, f.repo, q)
	ctx := context.Background()

	f.sched.Complete(ctx, "u1", 100, uuid.New())

	p, _ := f.repo.GetProfile(ctx, "u1")
	if p.ActiveQuest == nil || p.QuestsCompleted != 0 {
		t.Errorf("stale completion mutated the profile: %+v", p)
	}
}

func TestCompleteUnknownUser(t *testing.T) {
	f := setup(t, time.Hour)
	// Must not panic or render anything.
	f.sched.Complete(context.Background(), "ghost", 100, uuid.New())
	if f.transport.ScreenCount() != 0 {
		t.Error("completion for unknown user rendered a screen")
	}
}

func TestRunSkipsUnchangedScreens(t *testing.T) {
	f := setup(t, 5*time.Millisecond)
	// An hour-long quest barely moves across a few ticks, so the
	// rendered screen text never changes.
	q := activeQuest("long task", time.Hour, 50)
	saveHeroWithQuest(t, f.repo, q)

	f.sched.Schedule("u1", 100, q)
	waitFor(t, func() bool { return f.transport.ScreenCount() >= 1 })
	time.Sleep(50 * time.Millisecond)

	if n := f.transport.ScreenCount(); n != 1 {
		t.Errorf("screens delivered = %d, want 1 while text is unchanged", n)
	}
}

func TestRenderProgress(t *testing.T) {
	f := setup(t, time.Hour)
	ctx := context.Background()

	if f.sched.RenderProgress(ctx, "u1", 100) {
		t.Error("RenderProgress reported a quest for an unknown user")
	}

	q := activeQuest("task", time.Hour, 10)
	saveHeroWithQuest(t, f.repo, q)

	if !f.sched.RenderProgress(ctx, "u1", 100) {
		t.Fatal("RenderProgress missed the running quest")
	}
	screen, ok := f.transport.LastScreen()
	if !ok || screen.Keyboard == nil {
		t.Errorf("progress screen = %+v", screen)
	}
}

func TestStopEndsTimers(t *testing.T) {
	f := setup(t, 5*time.Millisecond)
	q := activeQuest("task", time.Hour, 10)
	saveHeroWithQuest(t, f.repo, q)

	f.sched.Schedule("u1", 100, q)
	waitFor(t, func() bool { return f.transport.ScreenCount() >= 1 })

	f.sched.Stop()
	n := f.transport.ScreenCount()
	time.Sleep(30 * time.Millisecond)
	if f.transport.ScreenCount() != n {
		t.Error("timer kept rendering after Stop")
	}

	p, _ := f.repo.GetProfile(context.Background(), "u1")
	if p.ActiveQuest == nil {
		t.Error("Stop completed a pending quest")
	}
}
