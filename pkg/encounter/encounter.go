// Package encounter resolves random combat against the fixed monster
// table. Resolution is pure with respect to its random source, so
// outcomes are reproducible under test.
package encounter

import (
	"fmt"

	"github.com/jwebster45206/timequest/pkg/hero"
)

// Rand is the random source consumed by Resolve. *rand.Rand satisfies
// it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Reward is what a monster yields on a win. Item drops independently
// with ItemChance.
type Reward struct {
	Coins      int
	Exp        int
	Item       string
	ItemChance float64
}

// Monster is one entry of the fixed bestiary.
type Monster struct {
	Name          string
	EnergyCost    int
	BaseWinChance int
	Reward        Reward
}

// Bestiary is the fixed monster table. Picks are uniform.
var Bestiary = []Monster{
	{Name: "Goblin", EnergyCost: 10, BaseWinChance: 70, Reward: Reward{Coins: 5, Exp: 5}},
	{Name: "Orc", EnergyCost: 20, BaseWinChance: 50, Reward: Reward{Coins: 15, Exp: 10}},
	{Name: "Dragon", EnergyCost: 40, BaseWinChance: 30, Reward: Reward{Coins: 50, Exp: 25, Item: "Dragon Fang", ItemChance: 0.3}},
}

// Outcome is the structured result of a fight, for the caller to render
// and persist.
type Outcome struct {
	Monster string
	Won     bool
	Coins   int
	Exp     int
	Item    string
}

// InsufficientEnergyError reports that the hero cannot afford the
// monster that was rolled. It unwraps to hero.ErrInsufficientEnergy.
type InsufficientEnergyError struct {
	Monster string
	Have    int
	Need    int
}

func (e *InsufficientEnergyError) Error() string {
	return fmt.Sprintf("insufficient energy for %s: %d/%d", e.Monster, e.Have, e.Need)
}

func (e *InsufficientEnergyError) Unwrap() error { return hero.ErrInsufficientEnergy }

// WinChance computes the level-adjusted win probability, capped at 95.
func WinChance(base, level int) int {
	chance := base + 5*(level-1)
	if chance > 95 {
		chance = 95
	}
	return chance
}

// Resolve picks a monster uniformly and fights it. Energy is deducted
// win or lose; on insufficient energy the profile is not touched.
// The caller persists the mutated profile.
func Resolve(p *hero.Profile, rng Rand) (*Outcome, error) {
	m := Bestiary[rng.Intn(len(Bestiary))]

	if err := p.SpendEnergy(m.EnergyCost); err != nil {
		return nil, &InsufficientEnergyError{Monster: m.Name, Have: p.Energy, Need: m.EnergyCost}
	}

	out := &Outcome{Monster: m.Name}
	if rng.Float64()*100 >= float64(WinChance(m.BaseWinChance, p.Level)) {
		return out, nil
	}

	out.Won = true
	out.Coins = m.Reward.Coins
	out.Exp = m.Reward.Exp
	p.Coins += m.Reward.Coins
	p.Exp += m.Reward.Exp
	if m.Reward.Item != "" && rng.Float64() < m.Reward.ItemChance {
		out.Item = m.Reward.Item
		p.Inventory = append(p.Inventory, m.Reward.Item)
	}
	return out, nil
}
