package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/whisperbot/core/telegram/format"
	tghelpers "github.com/m3rciful/whisperbot/core/telegram/helpers"
	"github.com/m3rciful/whisperbot/internal/domain"
	"github.com/m3rciful/whisperbot/internal/link"
)

// Start greets a new or returning user. A deep-link payload switches the
// same command into the send-entry flow.
func (h *Handlers) Start(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "start")
	sender := c.Sender()

	if err := h.users.Register(ctx, sender.ID, sender.Username); err != nil {
		return tghelpers.SendText(c, msgGenericError)
	}

	payload := ""
	if m := c.Message(); m != nil {
		payload = strings.TrimSpace(m.Payload)
	}
	if payload != "" {
		return h.beginSend(ctx, c, payload)
	}

	name := sender.FirstName
	if escaped, err := format.EscapeMarkdown(name, format.MarkdownV1, ""); err == nil && escaped != "" {
		name = escaped
	}
	personal := link.Build(c.Bot().Me.Username, sender.ID)
	if err := tghelpers.SendMD(c, fmt.Sprintf(welcomeTemplate, name, personal)); err != nil {
		return err
	}
	return h.sendStats(ctx, c)
}

// beginSend validates the recipient token and parks the sender in the
// awaiting-message step when the attempt is accepted.
func (h *Handlers) beginSend(ctx context.Context, c tele.Context, payload string) error {
	targetID, err := link.Parse(payload)
	if err != nil {
		return tghelpers.SendText(c, msgInvalidLink)
	}

	err = h.delivery.Begin(ctx, c.Sender().ID, targetID)
	return tghelpers.SendText(c, sendEntryReply(err))
}

// sendEntryReply maps the outcome of a send attempt to the sender-facing text.
func sendEntryReply(err error) string {
	switch {
	case err == nil:
		return msgPromptMessage
	case errors.Is(err, domain.ErrSelfSend):
		return msgSelfSend
	case errors.Is(err, domain.ErrUserNotFound):
		return msgTargetNotFound
	case errors.Is(err, domain.ErrQuotaExceeded):
		return msgTargetLimitReached
	default:
		return msgGenericError
	}
}
