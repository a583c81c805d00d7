package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const noNameFallback = "Tidak ada nama"

// displayName joins the profile's first and last name. Telegram does not
// require either, so an empty profile gets a fixed fallback.
func displayName(user *tgbotapi.User) string {
	name := strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
	if name == "" {
		return noNameFallback
	}
	return name
}

// contactHandle returns how admins can reach the reporter: the @username
// when one is set, otherwise the numeric user id.
func contactHandle(user *tgbotapi.User) string {
	if user.UserName != "" {
		return "@" + user.UserName
	}
	return "ID: " + strconv.FormatInt(user.ID, 10)
}
