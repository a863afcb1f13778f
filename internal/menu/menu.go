// Package menu holds the fixed screen layouts: action identifiers,
// keyboards and static texts shared by the orchestrator and the
// scheduler.
package menu

import (
	"fmt"

	"github.com/jwebster45206/timequest/internal/delivery"
	"github.com/jwebster45206/timequest/pkg/hero"
	"github.com/jwebster45206/timequest/pkg/quest"
)

// Action identifiers carried in keyboard callbacks.
const (
	ActionCreateHero  = "create"
	ActionEditHero    = "edit_hero"
	ActionNewQuest    = "quest"
	ActionInventory   = "inventory"
	ActionMap         = "map"
	ActionStatus      = "status"
	ActionRest        = "rest"
	ActionShop        = "shop"
	ActionFight       = "fight"
	ActionDescription = "description"
	ActionBackToMenu  = "back_to_menu"
	ActionBuyPotion   = "buy_potion"
	ActionBuySword    = "buy_super_sword"

	classPrefix      = "class_"
	difficultyPrefix = "difficulty_"
)

// ClassAction builds the callback payload for a class button.
func ClassAction(c hero.Class) string { return classPrefix + string(c) }

// ParseClassAction extracts the class from a class callback, if it is
// one.
func ParseClassAction(action string) (hero.Class, bool) {
	if len(action) <= len(classPrefix) || action[:len(classPrefix)] != classPrefix {
		return "", false
	}
	c, err := hero.ParseClass(action[len(classPrefix):])
	return c, err == nil
}

// DifficultyAction builds the callback payload for a difficulty button.
func DifficultyAction(d quest.Difficulty) string { return difficultyPrefix + string(d) }

// ParseDifficultyAction extracts the difficulty from a difficulty
// callback, if it is one.
func ParseDifficultyAction(action string) (quest.Difficulty, bool) {
	if len(action) <= len(difficultyPrefix) || action[:len(difficultyPrefix)] != difficultyPrefix {
		return "", false
	}
	d, err := quest.ParseDifficulty(action[len(difficultyPrefix):])
	return d, err == nil
}

// ShowMenuLabel is the persistent reply-keyboard button that requests
// the current screen.
const ShowMenuLabel = "Show menu"

// Main builds the main menu. New users get a create-hero entry,
// existing ones an edit-hero entry; everything else is shared.
func Main(hasHero bool) *delivery.Keyboard {
	first := delivery.Button{Label: "Create hero", Action: ActionCreateHero}
	if hasHero {
		first = delivery.Button{Label: "Edit hero", Action: ActionEditHero}
	}
	return &delivery.Keyboard{Rows: [][]delivery.Button{
		{first},
		{{Label: "New quest", Action: ActionNewQuest}, {Label: "Inventory", Action: ActionInventory}},
		{{Label: "Map", Action: ActionMap}, {Label: "Status", Action: ActionStatus}},
		{{Label: "Rest", Action: ActionRest}, {Label: "Shop", Action: ActionShop}},
		{{Label: "Fight", Action: ActionFight}, {Label: "About", Action: ActionDescription}},
	}}
}

// Classes builds the class selection keyboard.
func Classes() *delivery.Keyboard {
	row := make([]delivery.Button, 0, len(hero.Classes))
	for _, c := range hero.Classes {
		row = append(row, delivery.Button{Label: string(c), Action: ClassAction(c)})
	}
	return &delivery.Keyboard{Rows: [][]delivery.Button{row}}
}

// Difficulties builds the difficulty selection keyboard.
func Difficulties() *delivery.Keyboard {
	rows := make([][]delivery.Button, 0, 3)
	for _, d := range []quest.Difficulty{quest.DifficultyEasy, quest.DifficultyMedium, quest.DifficultyHard} {
		minutes := int(quest.Tiers[d].Duration.Minutes())
		rows = append(rows, delivery.Row(delivery.Button{
			Label:  fmt.Sprintf("%s (%d min)", d, minutes),
			Action: DifficultyAction(d),
		}))
	}
	return &delivery.Keyboard{Rows: rows}
}

// Shop builds the shop keyboard.
func Shop() *delivery.Keyboard {
	return &delivery.Keyboard{Rows: [][]delivery.Button{
		{{Label: fmt.Sprintf("Energy potion (%d coins)", PotionPrice), Action: ActionBuyPotion}},
		{{Label: fmt.Sprintf("Super sword (%d coins)", SwordPrice), Action: ActionBuySword}},
		{{Label: "Back", Action: ActionBackToMenu}},
	}}
}

// ShowMenu is the persistent reply keyboard kept under the input field
// while the user is typing free text.
func ShowMenu() *delivery.Keyboard {
	return &delivery.Keyboard{
		Rows:       [][]delivery.Button{{{Label: ShowMenuLabel, Action: ShowMenuLabel}}},
		Persistent: true,
	}
}
