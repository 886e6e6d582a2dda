package handlers

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/whisperbot/core/telegram/helpers"
)

// Stats shows the user's received-message counter, subscription status, and
// current daily limit.
func (h *Handlers) Stats(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "stats")
	sender := c.Sender()
	// /stats may be the very first interaction.
	if err := h.users.Register(ctx, sender.ID, sender.Username); err != nil {
		return tghelpers.SendText(c, msgGenericError)
	}
	return h.sendStats(ctx, c)
}

func (h *Handlers) sendStats(ctx context.Context, c tele.Context) error {
	user, err := tghelpers.CurrentUser(ctx, h.users, c.Sender().ID)
	if err != nil || user == nil {
		return tghelpers.SendText(c, msgGenericError)
	}

	status := statusNotSubscribed
	if user.IsSubscribed {
		status = statusSubscribed
	}
	limit := h.users.Limits().For(user.IsSubscribed)
	text := fmt.Sprintf(statsTemplate, user.MessagesReceived, status, limit)

	if user.IsSubscribed {
		return tghelpers.SendText(c, text)
	}
	return tghelpers.SendText(c, text, &tele.SendOptions{ReplyMarkup: subscriptionKeyboard()})
}
