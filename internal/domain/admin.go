package domain

import "time"

// AdminAccount authenticates against the admin HTTP API. It is unrelated to
// the Telegram recipients that receive new-ticket alerts.
type AdminAccount struct {
	ID           string
	Username     string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}
