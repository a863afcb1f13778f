// Package game is the orchestration core: it validates dialog
// transitions, mutates hero profiles and decides which screen each
// inbound event produces. Domain errors never leave this package; they
// become rendered screens.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jwebster45206/timequest/internal/delivery"
	"github.com/jwebster45206/timequest/internal/menu"
	"github.com/jwebster45206/timequest/internal/scheduler"
	"github.com/jwebster45206/timequest/internal/session"
	"github.com/jwebster45206/timequest/internal/storage"
	"github.com/jwebster45206/timequest/pkg/encounter"
	"github.com/jwebster45206/timequest/pkg/hero"
	"github.com/jwebster45206/timequest/pkg/quest"
	"github.com/jwebster45206/timequest/pkg/textfilter"
)

// Game wires the session state machine, quest scheduler and delivery
// gateway into the command surface exposed to the dispatcher.
type Game struct {
	repo     storage.ProfileRepository
	sessions *session.Store
	gw       *delivery.Gateway
	sched    *scheduler.Scheduler
	rng      Rand
	filter   *textfilter.Filter
	welcome  []byte
	log      *slog.Logger
}

// New creates the orchestrator. The welcome image may be nil, in which
// case the start screen falls back to plain text.
func New(repo storage.ProfileRepository, sessions *session.Store, gw *delivery.Gateway,
	sched *scheduler.Scheduler, rng Rand, welcome []byte, log *slog.Logger) *Game {
	return &Game{
		repo:     repo,
		sessions: sessions,
		gw:       gw,
		sched:    sched,
		rng:      rng,
		filter:   textfilter.New(),
		welcome:  welcome,
		log:      log,
	}
}

// profile loads the hero for a user, or nil when none exists.
func (g *Game) profile(ctx context.Context, userID string) (*hero.Profile, error) {
	return g.repo.GetProfile(ctx, userID)
}

// requireHero loads the profile and renders the create-hero nudge when
// there is none. The bool reports whether a hero exists.
func (g *Game) requireHero(ctx context.Context, userID string, chatID int64) (*hero.Profile, bool) {
	p, err := g.profile(ctx, userID)
	if err != nil {
		g.log.Error("Failed to load profile", "user_id", userID, "error", err)
		g.gw.Render(ctx, userID, chatID, menu.UnknownAction, menu.Main(false))
		return nil, false
	}
	if p == nil {
		g.gw.Render(ctx, userID, chatID, menu.NoHero, menu.Main(false))
		return nil, false
	}
	return p, true
}

// Start renders the welcome screen with the dynamic main menu.
func (g *Game) Start(ctx context.Context, userID string, chatID int64) {
	p, err := g.profile(ctx, userID)
	if err != nil {
		g.log.Error("Failed to load profile", "user_id", userID, "error", err)
	}
	kb := menu.Main(p != nil)
	if len(g.welcome) > 0 {
		g.gw.RenderPhoto(ctx, userID, chatID, g.welcome, menu.Welcome, kb)
		return
	}
	g.gw.Render(ctx, userID, chatID, menu.Welcome, kb)
}

// ShowDescription renders the full gameplay guide.
func (g *Game) ShowDescription(ctx context.Context, userID string, chatID int64) {
	p, _ := g.profile(ctx, userID)
	g.gw.Render(ctx, userID, chatID, menu.Description, menu.Main(p != nil))
}

// BeginCreate starts the hero creation dialog. Fails when a hero
// already exists.
func (g *Game) BeginCreate(ctx context.Context, userID string, chatID int64) {
	sess := g.sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	p, err := g.profile(ctx, userID)
	if err != nil {
		g.log.Error("Failed to load profile", "user_id", userID, "error", err)
		return
	}
	if p != nil {
		g.gw.Render(ctx, userID, chatID, menu.HeroExists, menu.Main(true))
		return
	}

	sess.BeginName(session.PurposeCreate)
	g.gw.Render(ctx, userID, chatID, menu.EnterName, nil)
}

// BeginEdit starts the hero edit dialog. Fails when no hero exists.
func (g *Game) BeginEdit(ctx context.Context, userID string, chatID int64) {
	sess := g.sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	if _, ok := g.requireHero(ctx, userID, chatID); !ok {
		return
	}

	sess.BeginName(session.PurposeEdit)
	g.gw.Render(ctx, userID, chatID, menu.EnterNewName, nil)
}

// SelectClass finishes the name dialog. Outside class selection the
// callback is stale and ignored.
func (g *Game) SelectClass(ctx context.Context, userID string, chatID int64, class hero.Class) {
	sess := g.sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	name, purpose, ok := sess.TakeName()
	if !ok {
		g.log.Debug("Stale class selection ignored", "user_id", userID)
		return
	}

	p, err := g.profile(ctx, userID)
	if err != nil {
		g.log.Error("Failed to load profile", "user_id", userID, "error", err)
		return
	}

	switch purpose {
	case session.PurposeCreate:
		if p != nil {
			g.gw.Render(ctx, userID, chatID, menu.HeroExists, menu.Main(true))
			return
		}
		p = hero.New(userID, name, class)
		if err := g.repo.SaveProfile(ctx, p); err != nil {
			g.log.Error("Failed to save new hero", "user_id", userID, "error", err)
			return
		}
		g.log.Info("Hero created", "user_id", userID, "name", name, "class", class)
		g.gw.Render(ctx, userID, chatID, menu.HeroCreated(name, class), menu.Main(true))

	case session.PurposeEdit:
		if p == nil {
			g.gw.Render(ctx, userID, chatID, menu.NoHero, menu.Main(false))
			return
		}
		p.Name = name
		p.Class = class
		if err := g.repo.SaveProfile(ctx, p); err != nil {
			g.log.Error("Failed to save edited hero", "user_id", userID, "error", err)
			return
		}
		g.gw.Render(ctx, userID, chatID, menu.HeroEdited(name, class), menu.Main(true))
	}
}

// BeginQuestIntake starts the quest dialog. Fails without a hero or
// with a quest already running.
func (g *Game) BeginQuestIntake(ctx context.Context, userID string, chatID int64) {
	sess := g.sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	p, ok := g.requireHero(ctx, userID, chatID)
	if !ok {
		return
	}
	if p.ActiveQuest != nil {
		g.gw.Render(ctx, userID, chatID, menu.QuestExists, menu.Main(true))
		return
	}

	sess.BeginQuestIntake()
	g.gw.Render(ctx, userID, chatID, menu.EnterTask, menu.ShowMenu())
}

// SelectDifficulty finishes the quest dialog: it deducts energy,
// creates the active quest and hands it to the scheduler.
func (g *Game) SelectDifficulty(ctx context.Context, userID string, chatID int64, d quest.Difficulty) {
	sess := g.sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	text, ok := sess.TakeQuestText()
	if !ok {
		g.log.Debug("Stale difficulty selection ignored", "user_id", userID)
		return
	}

	p, ok := g.requireHero(ctx, userID, chatID)
	if !ok {
		return
	}
	if p.ActiveQuest != nil {
		g.gw.Render(ctx, userID, chatID, menu.QuestExists, menu.Main(true))
		return
	}

	title := "Defeat the dragon: " + g.filter.Clean(text)
	q, err := quest.NewActive(title, d, time.Now())
	if err != nil {
		g.log.Error("Bad difficulty", "user_id", userID, "difficulty", d, "error", err)
		g.gw.Render(ctx, userID, chatID, menu.UnknownAction, menu.Main(true))
		return
	}

	if err := p.SpendEnergy(q.EnergyCost()); err != nil {
		g.gw.Render(ctx, userID, chatID, menu.LowEnergy(p.Energy, q.EnergyCost()), menu.Main(true))
		return
	}
	p.ActiveQuest = q
	if err := g.repo.SaveProfile(ctx, p); err != nil {
		g.log.Error("Failed to persist quest start", "user_id", userID, "error", err)
		return
	}

	g.gw.Render(ctx, userID, chatID, q.Screen(q.StartedAt), nil)
	g.sched.Schedule(userID, chatID, q)
}

// BeginRest starts the rest mini-game. Fails without a hero or while
// already resting.
func (g *Game) BeginRest(ctx context.Context, userID string, chatID int64) {
	sess := g.sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	if _, ok := g.requireHero(ctx, userID, chatID); !ok {
		return
	}
	if sess.Mode() == session.ModeResting {
		g.gw.Render(ctx, userID, chatID, menu.AlreadyResting(sess.RestRemaining()), menu.Main(true))
		return
	}

	sess.BeginRest()
	g.gw.Render(ctx, userID, chatID, menu.RestStart, menu.ShowMenu())
}

// ShowStatus renders the hero stats screen.
func (g *Game) ShowStatus(ctx context.Context, userID string, chatID int64) {
	if p, ok := g.requireHero(ctx, userID, chatID); ok {
		g.gw.Render(ctx, userID, chatID, menu.Status(p), menu.Main(true))
	}
}

// ShowMap renders the current region screen.
func (g *Game) ShowMap(ctx context.Context, userID string, chatID int64) {
	if p, ok := g.requireHero(ctx, userID, chatID); ok {
		g.gw.Render(ctx, userID, chatID, menu.Map(p), menu.Main(true))
	}
}

// ShowInventory renders the inventory with item counts.
func (g *Game) ShowInventory(ctx context.Context, userID string, chatID int64) {
	if p, ok := g.requireHero(ctx, userID, chatID); ok {
		g.gw.Render(ctx, userID, chatID, menu.Inventory(p), menu.Main(true))
	}
}

// OpenShop renders the shop screen.
func (g *Game) OpenShop(ctx context.Context, userID string, chatID int64) {
	if p, ok := g.requireHero(ctx, userID, chatID); ok {
		g.gw.Render(ctx, userID, chatID, menu.ShopGreeting(p), menu.Shop())
	}
}

// BuyPotion sells the energy potion: 50 coins for +20 energy, capped.
func (g *Game) BuyPotion(ctx context.Context, userID string, chatID int64) {
	sess := g.sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	p, ok := g.requireHero(ctx, userID, chatID)
	if !ok {
		return
	}
	if err := p.SpendCoins(menu.PotionPrice); err != nil {
		g.gw.Render(ctx, userID, chatID, menu.NoCoins, menu.Shop())
		return
	}
	p.AddEnergy(menu.PotionEnergy)
	if err := g.repo.SaveProfile(ctx, p); err != nil {
		g.log.Error("Failed to persist potion purchase", "user_id", userID, "error", err)
		return
	}
	g.gw.Render(ctx, userID, chatID, menu.PotionBought, menu.Shop())
}

// BuySword sells the super sword: 100 coins for an inventory item.
func (g *Game) BuySword(ctx context.Context, userID string, chatID int64) {
	sess := g.sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	p, ok := g.requireHero(ctx, userID, chatID)
	if !ok {
		return
	}
	if err := p.SpendCoins(menu.SwordPrice); err != nil {
		g.gw.Render(ctx, userID, chatID, menu.NoCoins, menu.Shop())
		return
	}
	p.Inventory = append(p.Inventory, menu.SwordItem)
	if err := g.repo.SaveProfile(ctx, p); err != nil {
		g.log.Error("Failed to persist sword purchase", "user_id", userID, "error", err)
		return
	}
	g.gw.Render(ctx, userID, chatID, menu.SwordBought, menu.Shop())
}

// Fight resolves one random encounter. Energy is spent win or lose.
func (g *Game) Fight(ctx context.Context, userID string, chatID int64) {
	sess := g.sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	p, ok := g.requireHero(ctx, userID, chatID)
	if !ok {
		return
	}

	out, err := encounter.Resolve(p, g.rng)
	if err != nil {
		var low *encounter.InsufficientEnergyError
		if errors.As(err, &low) {
			g.gw.Render(ctx, userID, chatID, menu.LowEnergy(low.Have, low.Need), menu.Main(true))
			return
		}
		g.log.Error("Encounter failed", "user_id", userID, "error", err)
		return
	}
	if err := g.repo.SaveProfile(ctx, p); err != nil {
		g.log.Error("Failed to persist fight outcome", "user_id", userID, "error", err)
		return
	}

	g.log.Info("Encounter resolved", "user_id", userID, "monster", out.Monster, "won", out.Won)
	g.gw.Render(ctx, userID, chatID, menu.FightResult(out), menu.Main(true))
}

// BackToMenu restores the main menu screen.
func (g *Game) BackToMenu(ctx context.Context, userID string, chatID int64) {
	p, _ := g.profile(ctx, userID)
	g.gw.Render(ctx, userID, chatID, menu.ChooseAction, menu.Main(p != nil))
}

// Unknown reports an unrecognized action generically.
func (g *Game) Unknown(ctx context.Context, userID string, chatID int64) {
	p, _ := g.profile(ctx, userID)
	g.gw.Render(ctx, userID, chatID, menu.UnknownAction, menu.Main(p != nil))
}

// HandleAction routes a named action (menu callback or slash command)
// to its operation. Unrecognized actions are reported generically.
func (g *Game) HandleAction(ctx context.Context, userID string, chatID int64, action string) {
	if class, ok := menu.ParseClassAction(action); ok {
		g.SelectClass(ctx, userID, chatID, class)
		return
	}
	if tier, ok := menu.ParseDifficultyAction(action); ok {
		g.SelectDifficulty(ctx, userID, chatID, tier)
		return
	}

	switch action {
	case menu.ActionCreateHero:
		g.BeginCreate(ctx, userID, chatID)
	case menu.ActionEditHero:
		g.BeginEdit(ctx, userID, chatID)
	case menu.ActionNewQuest:
		g.BeginQuestIntake(ctx, userID, chatID)
	case menu.ActionInventory:
		g.ShowInventory(ctx, userID, chatID)
	case menu.ActionMap:
		g.ShowMap(ctx, userID, chatID)
	case menu.ActionStatus:
		g.ShowStatus(ctx, userID, chatID)
	case menu.ActionRest:
		g.BeginRest(ctx, userID, chatID)
	case menu.ActionShop:
		g.OpenShop(ctx, userID, chatID)
	case menu.ActionFight:
		g.Fight(ctx, userID, chatID)
	case menu.ActionDescription:
		g.ShowDescription(ctx, userID, chatID)
	case menu.ActionBuyPotion:
		g.BuyPotion(ctx, userID, chatID)
	case menu.ActionBuySword:
		g.BuySword(ctx, userID, chatID)
	case menu.ActionBackToMenu:
		g.BackToMenu(ctx, userID, chatID)
	default:
		g.log.Warn("Unknown action", "user_id", userID, "action", action)
		g.Unknown(ctx, userID, chatID)
	}
}

// HandleText routes free-form text by the user's pending-input mode:
// the show-menu keyword, a staged hero name, a staged quest task, or a
// rest token. Text outside any dialog is ignored.
func (g *Game) HandleText(ctx context.Context, userID string, chatID int64, text string) {
	text = strings.TrimSpace(text)

	sess := g.sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	if text == menu.ShowMenuLabel {
		g.showCurrentScreen(ctx, userID, chatID)
		return
	}

	switch sess.Mode() {
	case session.ModeAwaitingName:
		name := g.filter.Clean(text)
		purpose := sess.NamePurpose()
		if !sess.SubmitName(name) {
			return
		}
		if purpose == session.PurposeEdit {
			g.gw.Render(ctx, userID, chatID, "New name: "+name+"\nPick a new class:", menu.Classes())
			return
		}
		g.gw.Render(ctx, userID, chatID, "Name: "+name+"\nPick a class:", menu.Classes())

	case session.ModeAwaitingQuestText:
		if !sess.SubmitQuestText(text) {
			return
		}
		g.gw.Render(ctx, userID, chatID, menu.ChooseTier, menu.Difficulties())

	case session.ModeResting:
		g.handleRestToken(ctx, sess, userID, chatID, text)
	}
}

// handleRestToken counts matching tokens; mismatches never consume a
// count.
func (g *Game) handleRestToken(ctx context.Context, sess *session.Session, userID string, chatID int64, text string) {
	if !strings.EqualFold(text, menu.RestKeyword) {
		flavor := menu.RestMismatchFlavors[g.rng.Intn(len(menu.RestMismatchFlavors))]
		g.gw.Render(ctx, userID, chatID, flavor, menu.ShowMenu())
		return
	}

	remaining, done := sess.AdvanceRest()
	if !done {
		flavor := menu.RestProgressFlavors[g.rng.Intn(len(menu.RestProgressFlavors))]
		g.gw.Render(ctx, userID, chatID, fmt.Sprintf(flavor, remaining), menu.ShowMenu())
		return
	}

	p, err := g.profile(ctx, userID)
	if err != nil || p == nil {
		g.log.Error("Failed to load profile for rest completion", "user_id", userID, "error", err)
		return
	}
	p.AddEnergy(menu.RestEnergy)
	if err := g.repo.SaveProfile(ctx, p); err != nil {
		g.log.Error("Failed to persist rest completion", "user_id", userID, "error", err)
		return
	}
	g.gw.Render(ctx, userID, chatID, menu.RestDone(p.Energy), menu.Main(true))
}

// showCurrentScreen renders the live quest progress when a quest is
// running, otherwise the main menu.
func (g *Game) showCurrentScreen(ctx context.Context, userID string, chatID int64) {
	if g.sched.RenderProgress(ctx, userID, chatID) {
		return
	}
	p, _ := g.profile(ctx, userID)
	g.gw.Render(ctx, userID, chatID, menu.ChooseAction, menu.Main(p != nil))
}
