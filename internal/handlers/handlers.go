// Package handlers wires the anonymous-message flows onto the Telegram
// runtime: commands, the subscribe callback, and the awaiting-message
// conversation step.
package handlers

import (
	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/whisperbot/core/telegram"
	"github.com/m3rciful/whisperbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/whisperbot/core/telegram/helpers"
	"github.com/m3rciful/whisperbot/core/telegram/keyboard"
	"github.com/m3rciful/whisperbot/core/telegram/state"
	"github.com/m3rciful/whisperbot/core/telegram/ui"
	"github.com/m3rciful/whisperbot/internal/service"
)

const subscribeAction = "subscribe"

// Handlers bundles the services the bot surface depends on.
type Handlers struct {
	users    *service.Users
	delivery *service.Delivery
}

var _ ui.FallbackProvider = (*Handlers)(nil)

// New builds the handler set.
func New(users *service.Users, delivery *service.Delivery) *Handlers {
	return &Handlers{users: users, delivery: delivery}
}

// Register binds commands, callbacks, and the conversation step.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Get your personal anonymous-message link",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     h.Stats,
		Description: "Show received messages and your daily limit",
	})
	reg.RegisterCommand("/resetquota", commands.Command{
		Handler:     h.ResetQuota,
		Description: "Reset every user's daily counter",
		AdminOnly:   true,
		Hidden:      true,
	})
	_ = reg.RegisterCallback(subscribeAction, h.Subscribe)
	reg.SetCallbackNotFound(h.UnknownCallback())

	state.RegisterHandler(service.StateAwaitingMessage, h.AnonymousMessage)
}

func subscriptionKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "💳 Buy subscription (demo)", Unique: subscribeAction},
	})
}

// UnknownText hints at the supported commands.
func (h *Handlers) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, msgUnknownText)
	}
}

// UnknownDocument rejects non-text payloads outside a conversation.
func (h *Handlers) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, msgTextOnly)
	}
}

// UnknownCallback acknowledges button presses nothing is registered for.
func (h *Handlers) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
	}
}
