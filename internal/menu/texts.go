package menu

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/timequest/pkg/encounter"
	"github.com/jwebster45206/timequest/pkg/hero"
)

// Shop catalog constants.
const (
	PotionPrice  = 50
	PotionEnergy = 20
	SwordPrice   = 100
	SwordItem    = "Super Sword"
)

// RestKeyword is the token the rest mini-game expects, matched
// case-insensitively after trimming.
const RestKeyword = "done"

// RestEnergy is granted when the rest mini-game completes.
const RestEnergy = 20

const Welcome = "🌟 TimeQuest: your ally against procrastination! 🌟\n\n" +
	"I am a time-management bot with RPG elements, built to turn your tasks into quests. " +
	"Create a hero, run missions, fight monsters, earn experience and coins, " +
	"unlock new regions and become the master of your own time.\n\n" +
	"✨ What next? Pick an action below:"

const Description = "🌟 TimeQuest: the full guide to your adventure! 🌟\n\n" +
	"TimeQuest turns your tasks into quests and lets you fight monsters along the way. Here is how it works:\n\n" +
	"📜 Core mechanics:\n" +
	"- Hero: create your character (knight, mage or explorer).\n" +
	"- Quests: tasks are missions with a timer (15, 30 or 60 minutes).\n" +
	"- Fights: battle monsters, spend energy, collect rewards.\n" +
	"- Progress: earn exp and coins, unlock regions (Forest → Mountains → Castle).\n" +
	"- Energy: quests and fights cost energy (15-60); rest to recover.\n" +
	"- Inventory: collect rewards (a Sword, for instance).\n\n" +
	"🎮 Menu functions:\n" +
	"1. Create hero — enter a name and pick a class (only without a hero).\n" +
	"2. Edit hero — change your hero's name and class.\n" +
	"3. New quest — a task with a timer.\n" +
	"4. Inventory — see your items.\n" +
	"5. Map — your current region.\n" +
	"6. Status — your hero's stats.\n" +
	"7. Rest — type 'done' 5 times for +20 energy.\n" +
	"8. Shop — spend coins on items.\n" +
	"9. Fight — battle monsters for rewards.\n" +
	"10. About — read this!\n\n" +
	"⚙️ Quests cost Easy 15, Medium 30, Hard 60 energy and grant 10/25/50 exp, " +
	"10 coins each, one level per 10 exp.\n\n" +
	"🏅 Goal: reach the Castle and defeat procrastination!"

const (
	NoHero        = "Create a hero first!"
	HeroExists    = "You already have a hero! Use Status or Edit hero."
	QuestExists   = "You already have a quest running!"
	ChooseAction  = "Pick an action:"
	UnknownAction = "Unknown action. Pick a button below."
	NoCoins       = "Not enough coins! Finish some quests."
	EnterName     = "Enter your hero's name:"
	EnterNewName  = "Enter your hero's new name:"
	EnterTask     = "Describe the task (for example, 'Write the report'):"
	ChooseTier    = "Pick the quest difficulty:"
	RestStart     = "Your hero is worn out! Type 'done' 5 times to recover energy."
	PotionBought  = "Energy potion purchased! Energy +20."
	SwordBought   = "Super sword purchased! Check your inventory."
)

// RestProgressFlavors are cycled randomly while the rest mini-game is
// in progress. Each takes the remaining count.
var RestProgressFlavors = []string{
	"%d more herbs and the hero can finally flop down. Keep typing 'done'!",
	"Gather %d more herbs, don't slack like a dragon! 'done' is the word.",
	"Only %d herbs left until epic relaxation, go on with 'done'!",
	"The hero begs for %d more herbs. Type 'done', no dawdling!",
	"The herbs are waiting: %d more times 'done' and you are a master of rest!",
	"Just %d 'done' between you and sweet rest!",
}

// RestMismatchFlavors are shown when the typed token does not match.
var RestMismatchFlavors = []string{
	"Hey, that's not the 'done' spell! Try again.",
	"Heroes don't type like that. Give me a 'done'!",
	"The herbs refused to be gathered. Type 'done' properly!",
	"Your hero is baffled: that's not 'done', try once more!",
	"Wrong button, champion! Type 'done'.",
	"That's no epic incantation. 'done' is what we need.",
}

// RestDone formats the rest completion screen.
func RestDone(energy int) string {
	return fmt.Sprintf("Herbs gathered! Energy: %d", energy)
}

// AlreadyResting formats the already-resting rejection.
func AlreadyResting(remaining int) string {
	return fmt.Sprintf("You are already resting! Type 'done' %d more times.", remaining)
}

// LowEnergy formats an insufficient-energy rejection.
func LowEnergy(have, need int) string {
	return fmt.Sprintf("Not enough energy (%d/%d)! Use Rest or the shop.", have, need)
}

// HeroCreated formats the creation confirmation.
func HeroCreated(name string, class hero.Class) string {
	return fmt.Sprintf("Hero %s (%s) created!", name, class)
}

// HeroEdited formats the edit confirmation.
func HeroEdited(name string, class hero.Class) string {
	return fmt.Sprintf("Hero changed: %s (%s)!", name, class)
}

// Status formats the hero status screen.
func Status(p *hero.Profile) string {
	return fmt.Sprintf("Hero: %s (%s)\nLevel: %d\nExp: %d\nCoins: %d\nEnergy: %d\nRegion: %s",
		p.Name, p.Class, p.Level, p.Exp, p.Coins, p.Energy, p.RegionName())
}

// Map formats the region screen.
func Map(p *hero.Profile) string {
	return fmt.Sprintf("Current region: %s", p.RegionName())
}

// Inventory formats the inventory screen with per-item counts.
func Inventory(p *hero.Profile) string {
	order, counts := p.ItemCounts()
	if len(order) == 0 {
		return "Inventory: empty"
	}
	lines := make([]string, 0, len(order)+1)
	lines = append(lines, "Inventory:")
	for _, item := range order {
		lines = append(lines, fmt.Sprintf("%s — %d pc.", item, counts[item]))
	}
	return strings.Join(lines, "\n")
}

// ShopGreeting formats the shop screen.
func ShopGreeting(p *hero.Profile) string {
	return fmt.Sprintf("Welcome to the shop, %s!\nYour coins: %d\n\nWhat would you like?\n"+
		"- Energy potion (+%d energy) — %d coins\n- Super sword (to inventory) — %d coins",
		p.Name, p.Coins, PotionEnergy, PotionPrice, SwordPrice)
}

// FightResult formats a combat outcome screen.
func FightResult(out *encounter.Outcome) string {
	if !out.Won {
		return fmt.Sprintf("You fought the %s and lost! The energy is spent, try again.", out.Monster)
	}
	s := fmt.Sprintf("You fought the %s and won!\nReward: +%d coins, +%d exp", out.Monster, out.Coins, out.Exp)
	if out.Item != "" {
		s += ", " + out.Item + " added to inventory"
	}
	return s + "."
}

// QuestSummary formats the completion screen lines.
func QuestSummary(s *hero.QuestSummary) string {
	lines := []string{fmt.Sprintf("Victory! +%d exp, +%d coins", s.Exp, s.Coins)}
	if s.LeveledUp {
		lines = append(lines, fmt.Sprintf("Level up! You are now level %d!", s.NewLevel))
	}
	if s.RegionUnlocked {
		lines = append(lines, fmt.Sprintf("New region unlocked: %s!", s.RegionName))
	}
	return strings.Join(lines, "\n")
}
