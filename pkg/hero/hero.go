package hero

import (
	"errors"
	"time"

	"github.com/jwebster45206/timequest/pkg/quest"
)

// Class is the hero archetype chosen at creation.
type Class string

const (
	ClassKnight   Class = "Knight"
	ClassMage     Class = "Mage"
	ClassExplorer Class = "Explorer"
)

// Classes lists the selectable classes in menu order.
var Classes = []Class{ClassKnight, ClassMage, ClassExplorer}

// ParseClass maps user input to a known class.
func ParseClass(s string) (Class, error) {
	for _, c := range Classes {
		if string(c) == s {
			return c, nil
		}
	}
	return "", errors.New("unknown class: " + s)
}

const (
	// MaxEnergy is the upper bound of the energy resource.
	MaxEnergy = 100

	// CoinsPerQuest is the flat coin reward for completing any quest.
	CoinsPerQuest = 10

	// QuestRewardItem is appended to the inventory on every completion.
	QuestRewardItem = "Sword"

	// QuestsPerRegion completions unlock the next region.
	QuestsPerRegion = 5
)

// RegionNames is the fixed three-stage progression, indexed by
// Profile.Region.
var RegionNames = [3]string{"Forest", "Mountains", "Castle"}

var (
	ErrInsufficientEnergy = errors.New("insufficient energy")
	ErrInsufficientCoins  = errors.New("insufficient coins")
)

// Profile is a user's persistent game character. Exactly one exists per
// user id; it is created once and never deleted.
type Profile struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Class           Class         `json:"class"`
	Level           int           `json:"level"`
	Exp             int           `json:"exp"`
	Coins           int           `json:"coins"`
	Energy          int           `json:"energy"`
	Inventory       []string      `json:"inventory"`
	Region          int           `json:"region"`
	QuestsCompleted int           `json:"quests_completed"`
	ActiveQuest     *quest.Active `json:"active_quest,omitempty"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// New creates a fresh level-1 profile with full energy.
func New(id, name string, class Class) *Profile {
	return &Profile{
		ID:        id,
		Name:      name,
		Class:     class,
		Level:     1,
		Energy:    MaxEnergy,
		Inventory: []string{},
	}
}

// AddEnergy restores energy, clamped to MaxEnergy.
func (p *Profile) AddEnergy(n int) {
	p.Energy += n
	if p.Energy > MaxEnergy {
		p.Energy = MaxEnergy
	}
	if p.Energy < 0 {
		p.Energy = 0
	}
}

// SpendEnergy deducts energy or fails without mutation.
func (p *Profile) SpendEnergy(n int) error {
	if p.Energy < n {
		return ErrInsufficientEnergy
	}
	p.Energy -= n
	return nil
}

// SpendCoins deducts coins or fails without mutation.
func (p *Profile) SpendCoins(n int) error {
	if p.Coins < n {
		return ErrInsufficientCoins
	}
	p.Coins -= n
	return nil
}

// ItemCounts folds the append-only inventory into per-item counts,
// preserving first-seen order.
func (p *Profile) ItemCounts() ([]string, map[string]int) {
	counts := make(map[string]int, len(p.Inventory))
	var order []string
	for _, item := range p.Inventory {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}
	return order, counts
}

// RegionName returns the display name of the hero's current region.
func (p *Profile) RegionName() string {
	if p.Region < 0 || p.Region >= len(RegionNames) {
		return RegionNames[0]
	}
	return RegionNames[p.Region]
}

// QuestSummary describes what a quest completion granted.
type QuestSummary struct {
	Exp            int
	Coins          int
	LeveledUp      bool
	NewLevel       int
	RegionUnlocked bool
	RegionName     string
	Item           string
}

// CompleteActiveQuest applies the completion reward and clears the
// active quest. It returns false without mutating when no quest is set,
// which makes duplicate or late completion timers a no-op.
//
// The level check is a single conditional: a completion that crosses
// several thresholds at once still grants one level.
func (p *Profile) CompleteActiveQuest() (*QuestSummary, bool) {
	q := p.ActiveQuest
	if q == nil {
		return nil, false
	}

	s := &QuestSummary{Exp: q.ExpReward, Coins: CoinsPerQuest, Item: QuestRewardItem}

	p.Exp += q.ExpReward
	p.Coins += CoinsPerQuest
	p.QuestsCompleted++
	if p.Exp >= p.Level*10 {
		p.Level++
		s.LeveledUp = true
		s.NewLevel = p.Level
	}
	if p.QuestsCompleted%QuestsPerRegion == 0 && p.Region < len(RegionNames)-1 {
		p.Region++
		s.RegionUnlocked = true
		s.RegionName = p.RegionName()
	}
	p.Inventory = append(p.Inventory, QuestRewardItem)
	p.ActiveQuest = nil
	return s, true
}
