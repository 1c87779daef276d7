package model

import "time"

// SessionData is the payload stored against a bearer session token.
type SessionData struct {
	SteamID   string    `json:"steamid"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
