package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jwebster45206/timequest/internal/game"
	"github.com/jwebster45206/timequest/internal/menu"
)

// Dispatcher polls Telegram updates and routes them to the game.
// Events for different users run concurrently; the per-user session
// lock inside the game serializes same-user operations.
type Dispatcher struct {
	bot  *tgbotapi.BotAPI
	game *game.Game
	log  *slog.Logger
}

// NewDispatcher creates a dispatcher for a connected bot.
func NewDispatcher(bot *tgbotapi.BotAPI, g *game.Game, log *slog.Logger) *Dispatcher {
	return &Dispatcher{bot: bot, game: g, log: log}
}

// Run polls updates until the context ends.
func (d *Dispatcher) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := d.bot.GetUpdatesChan(cfg)

	d.log.Info("Dispatcher started", "bot", d.bot.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			d.bot.StopReceivingUpdates()
			d.log.Info("Dispatcher stopped")
			return
		case update := <-updates:
			go d.dispatch(ctx, update)
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("Panic while handling update", "panic", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		d.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		d.handleMessage(ctx, update.Message)
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		d.handleCommand(ctx, userID, chatID, msg.Command())
		return
	}
	d.log.Debug("Text received", "user_id", userID)
	d.game.HandleText(ctx, userID, chatID, msg.Text)
}

// commandActions maps slash commands to menu actions. /start is routed
// separately because it renders the photo welcome screen.
var commandActions = map[string]string{
	"create":      menu.ActionCreateHero,
	"edit_hero":   menu.ActionEditHero,
	"quest":       menu.ActionNewQuest,
	"inventory":   menu.ActionInventory,
	"map":         menu.ActionMap,
	"status":      menu.ActionStatus,
	"rest":        menu.ActionRest,
	"shop":        menu.ActionShop,
	"fight":       menu.ActionFight,
	"description": menu.ActionDescription,
}

func (d *Dispatcher) handleCommand(ctx context.Context, userID string, chatID int64, command string) {
	d.log.Info("Command received", "user_id", userID, "command", command)
	if command == "start" {
		d.game.Start(ctx, userID, chatID)
		return
	}
	action, ok := commandActions[command]
	if !ok {
		d.game.Unknown(ctx, userID, chatID)
		return
	}
	d.game.HandleAction(ctx, userID, chatID, action)
}

func (d *Dispatcher) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	userID := strconv.FormatInt(query.From.ID, 10)
	chatID := query.Message.Chat.ID
	action := query.Data

	// Acknowledge first so the button stops spinning. Stale callbacks
	// are not worth reporting to the user.
	if _, err := d.bot.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		if isStaleCallback(err) {
			d.log.Debug("Stale callback ignored", "user_id", userID, "action", action)
			return
		}
		d.log.Warn("Failed to answer callback", "user_id", userID, "error", err)
	}

	d.log.Info("Callback received", "user_id", userID, "action", action)
	d.game.HandleAction(ctx, userID, chatID, action)
}

func isStaleCallback(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "query is too old") || strings.Contains(msg, "query id is invalid")
}
