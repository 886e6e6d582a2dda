package handlers

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/whisperbot/core/telegram/helpers"
)

// Subscribe handles the demo subscription button: it activates the
// subscription and rewrites the stats card in place.
func (h *Handlers) Subscribe(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "subscribe")

	if err := h.users.Subscribe(ctx, c.Sender().ID); err != nil {
		return tghelpers.SendText(c, msgGenericError)
	}
	return c.Edit(fmt.Sprintf(subscribedTemplate, h.users.Limits().Subscribed))
}

// ResetQuota is the hidden admin command behind the scheduled reset: it
// zeroes every user's daily counter on demand.
func (h *Handlers) ResetQuota(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "resetquota")

	affected, err := h.users.ResetAllCounters(ctx)
	if err != nil {
		return tghelpers.SendText(c, msgGenericError)
	}
	return tghelpers.SendText(c, fmt.Sprintf("Daily counters reset for %d users.", affected))
}
