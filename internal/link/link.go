// Package link encodes and decodes the shareable recipient deep link.
// The /start payload format is "msg_<user_id>".
package link

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const payloadPrefix = "msg_"

// ErrMalformed is returned when a /start payload does not decode to a user id.
var ErrMalformed = errors.New("malformed recipient link")

// Payload builds the deep-link payload for the given recipient.
func Payload(userID int64) string {
	return payloadPrefix + strconv.FormatInt(userID, 10)
}

// Build returns the full shareable t.me link for the given bot and recipient.
func Build(botUsername string, userID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", botUsername, Payload(userID))
}

// Parse extracts the recipient user id from a /start payload.
// Anything that is not the exact "msg_<positive integer>" shape is rejected.
func Parse(payload string) (int64, error) {
	raw, ok := strings.CutPrefix(payload, payloadPrefix)
	if !ok || raw == "" {
		return 0, ErrMalformed
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrMalformed
	}
	return id, nil
}
