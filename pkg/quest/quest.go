package quest

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty selects the duration tier of a quest.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Tier holds the fixed parameters of a difficulty level.
type Tier struct {
	Duration  time.Duration
	ExpReward int
}

// Tiers is the fixed difficulty catalog. Starting a quest costs as much
// energy as the tier has minutes.
var Tiers = map[Difficulty]Tier{
	DifficultyEasy:   {Duration: 15 * time.Minute, ExpReward: 10},
	DifficultyMedium: {Duration: 30 * time.Minute, ExpReward: 25},
	DifficultyHard:   {Duration: 60 * time.Minute, ExpReward: 50},
}

// ParseDifficulty maps user input to a known difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if _, ok := Tiers[d]; !ok {
		return "", fmt.Errorf("unknown difficulty: %q", s)
	}
	return d, nil
}

// Active is a quest in flight. It is created together with the energy
// deduction and destroyed together with the reward application; it is
// never cancelled.
type Active struct {
	ID        uuid.UUID     `json:"id"`
	Title     string        `json:"title"`
	Duration  time.Duration `json:"duration"`
	ExpReward int           `json:"exp_reward"`
	StartedAt time.Time     `json:"started_at"`
}

// NewActive starts a quest of the given difficulty at now.
func NewActive(title string, d Difficulty, now time.Time) (*Active, error) {
	tier, ok := Tiers[d]
	if !ok {
		return nil, fmt.Errorf("unknown difficulty: %q", d)
	}
	return &Active{
		ID:        uuid.New(),
		Title:     title,
		Duration:  tier.Duration,
		ExpReward: tier.ExpReward,
		StartedAt: now,
	}, nil
}

// EnergyCost is the energy deducted when the quest starts: one point
// per minute of duration.
func (a *Active) EnergyCost() int {
	return int(a.Duration / time.Minute)
}

const barCells = 10

// Progress is a snapshot of how far along a quest is.
type Progress struct {
	Percent   int
	Remaining time.Duration
	Done      bool
}

// ProgressAt computes the quest's progress at the given instant.
// Percent is clamped to [0, 100].
func (a *Active) ProgressAt(now time.Time) Progress {
	elapsed := now.Sub(a.StartedAt)
	remaining := a.Duration - elapsed
	if remaining <= 0 {
		return Progress{Percent: 100, Remaining: 0, Done: true}
	}

	percent := int(100 * elapsed / a.Duration)
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return Progress{Percent: percent, Remaining: remaining}
}

// Bar renders the progress as a fixed-width 10-cell bar.
func (p Progress) Bar() string {
	filled := barCells * p.Percent / 100
	return strings.Repeat("█", filled) + strings.Repeat(" ", barCells-filled)
}

// Clock formats the remaining time as MM:SS.
func (p Progress) Clock() string {
	total := int(p.Remaining / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Screen renders the full quest progress screen. The scheduler compares
// successive renders and skips edits when nothing changed.
func (a *Active) Screen(now time.Time) string {
	p := a.ProgressAt(now)
	return fmt.Sprintf("Quest: %s\nTime left: %s\nProgress: [%s] %d%%", a.Title, p.Clock(), p.Bar(), p.Percent)
}
