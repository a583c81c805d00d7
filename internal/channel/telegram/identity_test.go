package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestDisplayName(t *testing.T) {
	cases := []struct {
		first, last, want string
	}{
		{"Alice", "Wong", "Alice Wong"},
		{"Alice", "", "Alice"},
		{"", "Wong", "Wong"},
		{"", "", "Tidak ada nama"},
		{"  ", " ", "Tidak ada nama"},
	}
	for _, tc := range cases {
		user := &tgbotapi.User{FirstName: tc.first, LastName: tc.last}
		if got := displayName(user); got != tc.want {
			t.Errorf("displayName(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}
}

func TestContactHandle(t *testing.T) {
	withUsername := &tgbotapi.User{ID: 42, UserName: "alice123"}
	if got := contactHandle(withUsername); got != "@alice123" {
		t.Errorf("contactHandle = %q", got)
	}

	withoutUsername := &tgbotapi.User{ID: 42}
	if got := contactHandle(withoutUsername); got != "ID: 42" {
		t.Errorf("contactHandle = %q", got)
	}
}

func TestToEventMapsCancelCommand(t *testing.T) {
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: 7},
		Chat: &tgbotapi.Chat{ID: 7},
		Text: "/batal",
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: 6},
		},
	}
	ev, ok := toEvent(msg)
	if !ok {
		t.Fatal("expected event")
	}
	if ev.Kind != "cancel" {
		t.Fatalf("kind = %q", ev.Kind)
	}
}

func TestToEventMapsPhotoToImage(t *testing.T) {
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: 7},
		Chat: &tgbotapi.Chat{ID: 7},
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small"},
			{FileID: "large"},
		},
	}
	ev, ok := toEvent(msg)
	if !ok {
		t.Fatal("expected event")
	}
	if ev.Kind != "image" {
		t.Fatalf("kind = %q", ev.Kind)
	}
	if ev.EvidenceRef != "tg-file:large" {
		t.Fatalf("evidence ref = %q", ev.EvidenceRef)
	}
}
