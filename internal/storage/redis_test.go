package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/jwebster45206/timequest/pkg/hero"
	"github.com/jwebster45206/timequest/pkg/quest"
)

func setupTestRedis(t *testing.T) *RedisRepository {
	t.Helper()
	mr := miniredis.RunT(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	repo, err := NewRedisRepository("redis://"+mr.Addr(), logger)
	if err != nil {
		t.Fatalf("Failed to create Redis repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Failed to close Redis repository: %v", err)
		}
	})
	return repo
}

func TestRedisRepository_Ping(t *testing.T) {
	repo := setupTestRedis(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestRedisRepository_SaveAndGetProfile(t *testing.T) {
	repo := setupTestRedis(t)
	ctx := context.Background()

	p := hero.New("12345", "Rin", hero.ClassKnight)
	p.Coins = 30
	q, err := quest.NewActive("write the report", quest.DifficultyEasy, time.Now().UTC())
	if err != nil {
		t.Fatalf("NewActive: %v", err)
	}
	p.ActiveQuest = q

	if err := repo.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if p.UpdatedAt.IsZero() {
		t.Error("SaveProfile did not stamp UpdatedAt")
	}

	got, err := repo.GetProfile(ctx, "12345")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetProfile returned nil for saved profile")
	}
	if got.Name != "Rin" || got.Class != hero.ClassKnight || got.Coins != 30 {
		t.Errorf("profile = %+v", got)
	}
	if got.ActiveQuest == nil {
		t.Fatal("active quest not persisted")
	}
	if got.ActiveQuest.ID != q.ID || got.ActiveQuest.Title != q.Title {
		t.Errorf("active quest = %+v, want %+v", got.ActiveQuest, q)
	}
}

func TestRedisRepository_GetProfileMissing(t *testing.T) {
	repo := setupTestRedis(t)

	got, err := repo.GetProfile(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing profile, got %+v", got)
	}
}

func TestRedisRepository_Overwrite(t *testing.T) {
	repo := setupTestRedis(t)
	ctx := context.Background()

	p := hero.New("1", "Rin", hero.ClassMage)
	if err := repo.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	p.Coins = 100
	p.Level = 3
	if err := repo.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	got, err := repo.GetProfile(ctx, "1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.Coins != 100 || got.Level != 3 {
		t.Errorf("profile = %+v, want coins 100 level 3", got)
	}
}

func TestNewRedisRepositoryBadURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := NewRedisRepository("not a url", logger); err == nil {
		t.Error("expected error for malformed redis URL")
	}
}
