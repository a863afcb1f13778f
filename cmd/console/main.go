package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/timequest/internal/delivery"
	"github.com/jwebster45206/timequest/internal/game"
	"github.com/jwebster45206/timequest/internal/scheduler"
	"github.com/jwebster45206/timequest/internal/session"
	"github.com/jwebster45206/timequest/internal/storage"
)

const (
	consoleUserID = "console"
	consoleChatID = int64(1)
)

func main() {
	// The console runs the whole engine in-process against an
	// in-memory repository, with a fast quest tick so progress is
	// watchable.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	repo := storage.NewMemoryRepository()
	sessions := session.NewStore()
	transport := newLoopback()
	gateway := delivery.NewGateway(transport, sessions, log, delivery.WithRetryDelay(50*time.Millisecond))
	sched := scheduler.New(repo, gateway, sessions, log, time.Second)
	engine := game.New(repo, sessions, gateway, sched, game.NewLockedRand(time.Now().UnixNano()), nil, log)

	ui := NewConsoleUI(engine)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	transport.attach(program)

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "console error: %v\n", err)
		os.Exit(1)
	}
	sched.Stop()
}
