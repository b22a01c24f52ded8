package models

import "time"

// Session is the per-device authorization record. ID is the device id, so an
// account may hold one session per device. Key is the session's signing key:
// random, generated once at session creation, never rotated. Only Token (and
// its embedded expiry) changes on refresh.
type Session struct {
	ID        string
	AccountID string
	Key       string
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Credentials is the request-scoped tuple a caller presents to prove
// authorization for a protected action. It is never persisted.
type Credentials struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token"`
	DeviceID string `json:"device_id"`
}
