package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/m3rciful/whisperbot/internal/domain"
)

func TestForwardPayloadCarriesTextOnly(t *testing.T) {
	const (
		senderID       = int64(123456789)
		senderName     = "Alice"
		senderUsername = "alice_a"
	)

	payload := forwardPayload("hello there")

	want := "💌 You have a new anonymous message:\n\n<i>hello there</i>"
	if payload != want {
		t.Fatalf("payload = %q, want %q", payload, want)
	}
	for _, leak := range []string{strconv.FormatInt(senderID, 10), senderName, senderUsername} {
		if strings.Contains(payload, leak) {
			t.Errorf("payload leaks sender detail %q", leak)
		}
	}
}

func TestForwardPayloadEscapesHTML(t *testing.T) {
	payload := forwardPayload(`<b onclick="x">hi & bye</b>`)

	if !strings.Contains(payload, "&lt;b") || !strings.Contains(payload, "&amp;") {
		t.Errorf("payload not escaped: %q", payload)
	}
	if strings.Contains(payload, "<b") {
		t.Errorf("payload carries raw markup from the sender: %q", payload)
	}
	if !strings.HasSuffix(payload, "</i>") {
		t.Errorf("payload lost its italic wrapper: %q", payload)
	}
}

func TestSendEntryReply(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"accepted", nil, msgPromptMessage},
		{"self send", domain.ErrSelfSend, msgSelfSend},
		{"unknown target", domain.ErrUserNotFound, msgTargetNotFound},
		{"quota exceeded", domain.ErrQuotaExceeded, msgTargetLimitReached},
		{"wrapped quota exceeded", fmt.Errorf("begin: %w", domain.ErrQuotaExceeded), msgTargetLimitReached},
		{"storage failure", errors.New("storage down"), msgGenericError},
	}
	for _, tc := range cases {
		if got := sendEntryReply(tc.err); got != tc.want {
			t.Errorf("%s: sendEntryReply = %q, want %q", tc.name, got, tc.want)
		}
	}
}
