package handlers

import (
	"errors"
	"fmt"
	"html"
	"strings"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/whisperbot/core/telegram/helpers"
	"github.com/m3rciful/whisperbot/internal/domain"
)

// AnonymousMessage consumes the pending send: it forwards the text to the
// recorded recipient and reports the outcome to the sender. Runs as the
// awaiting-message conversation step.
func (h *Handlers) AnonymousMessage(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "anonymous_message")

	text := strings.TrimSpace(c.Text())
	if text == "" {
		// Keep the pending send so the sender can try again with text.
		return tghelpers.SendText(c, msgTextOnly)
	}

	// The forward is synchronous on purpose: a delivery failure has to be
	// distinguishable so the sender gets an honest acknowledgment.
	_, err := h.delivery.Complete(ctx, c.Sender().ID, func(targetID int64) error {
		_, sendErr := c.Bot().Send(tele.ChatID(targetID), forwardPayload(text), tele.ModeHTML)
		return sendErr
	})

	switch {
	case err == nil:
		return tghelpers.SendText(c, msgSendSuccess)
	case errors.Is(err, domain.ErrForwardFailed):
		return tghelpers.SendText(c, msgSendFailure)
	case errors.Is(err, domain.ErrNoPendingSend):
		return tghelpers.SendText(c, msgGenericError)
	default:
		return tghelpers.SendText(c, msgGenericError)
	}
}

// forwardPayload renders the message delivered to the recipient. It carries
// the HTML-escaped text and nothing else: no sender id, name, or username.
func forwardPayload(text string) string {
	return fmt.Sprintf(forwardTemplate, html.EscapeString(text))
}
