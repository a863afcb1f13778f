// Package telegram binds the engine to the Telegram Bot API: it adapts
// the transport capability consumed by the delivery gateway and routes
// inbound updates to the game's command surface.
package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jwebster45206/timequest/internal/delivery"
)

// Transport implements delivery.Transport on a Telegram bot.
type Transport struct {
	bot *tgbotapi.BotAPI
}

var _ delivery.Transport = (*Transport)(nil)

// NewTransport wraps a connected bot API.
func NewTransport(bot *tgbotapi.BotAPI) *Transport {
	return &Transport{bot: bot}
}

func (t *Transport) Send(ctx context.Context, chatID int64, text string, kb *delivery.Keyboard) (delivery.MessageRef, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup := replyMarkup(kb); markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := t.bot.Send(msg)
	if err != nil {
		return delivery.MessageRef{}, classify(err)
	}
	return delivery.MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

func (t *Transport) Edit(ctx context.Context, ref delivery.MessageRef, text string, kb *delivery.Keyboard) error {
	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	if kb != nil && !kb.Persistent {
		markup := inlineMarkup(kb)
		edit.ReplyMarkup = &markup
	}
	if _, err := t.bot.Send(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return delivery.ErrNotModified
		}
		return classify(err)
	}
	return nil
}

func (t *Transport) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, kb *delivery.Keyboard) (delivery.MessageRef, error) {
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "welcome.png", Bytes: photo})
	msg.Caption = caption
	if markup := replyMarkup(kb); markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := t.bot.Send(msg)
	if err != nil {
		return delivery.MessageRef{}, classify(err)
	}
	return delivery.MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// classify marks everything except Telegram API rejections as
// transient. API errors (bad request and friends) will not improve on
// retry; network timeouts might.
func classify(err error) error {
	if _, ok := err.(*tgbotapi.Error); ok {
		return err
	}
	return delivery.Transient(err)
}

// replyMarkup converts a keyboard for send calls: persistent keyboards
// become reply keyboards pinned under the input field, everything else
// becomes inline buttons.
func replyMarkup(kb *delivery.Keyboard) interface{} {
	if kb == nil {
		return nil
	}
	if kb.Persistent {
		rows := make([][]tgbotapi.KeyboardButton, 0, len(kb.Rows))
		for _, row := range kb.Rows {
			buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, tgbotapi.NewKeyboardButton(b.Label))
			}
			rows = append(rows, buttons)
		}
		markup := tgbotapi.NewReplyKeyboard(rows...)
		markup.ResizeKeyboard = true
		return markup
	}
	return inlineMarkup(kb)
}

func inlineMarkup(kb *delivery.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Action))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
