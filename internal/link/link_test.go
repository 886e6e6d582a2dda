package link

import (
	"errors"
	"testing"
)

func TestBuild(t *testing.T) {
	got := Build("whisper_bot", 12345)
	want := "https://t.me/whisper_bot?start=msg_12345"
	if got != want {
		t.Errorf("Build = %q, want %q", got, want)
	}
}

func TestParseValid(t *testing.T) {
	id, err := Parse("msg_987654321")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if id != 987654321 {
		t.Errorf("Parse = %d, want 987654321", id)
	}
}

func TestParseRoundTrip(t *testing.T) {
	id, err := Parse(Payload(42))
	if err != nil {
		t.Fatalf("Parse(Payload(42)) returned error: %v", err)
	}
	if id != 42 {
		t.Errorf("round trip = %d, want 42", id)
	}
}

func TestParseMalformed(t *testing.T) {
	cases := []string{
		"",
		"msg_",
		"msg_abc",
		"msg_12x",
		"msg_-5",
		"msg_0",
		"123",
		"start_123",
		"MSG_123",
		"msg_ 123",
	}
	for _, payload := range cases {
		if _, err := Parse(payload); !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) = %v, want ErrMalformed", payload, err)
		}
	}
}
