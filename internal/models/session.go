package models

import "time"

// Device is a best-effort label of the client that opened a session. Fields
// fall back to "UNKNOWN" when the user agent cannot be classified.
type Device struct {
	OS         string `json:"os"`
	OSVersion  string `json:"osVersion"`
	Model      string `json:"model"`
	AppVersion string `json:"appVersion"`
}

// Session binds a user, a device and the currently valid refresh token.
// The refresh token is replaced on every refresh; ActiveAt tracks the last
// issuance. The JSON shape is the persisted record format and must stay
// round-trip stable with records already in the store.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	RefreshToken string    `json:"refreshToken"`
	Device       Device    `json:"device"`
	ActiveAt     time.Time `json:"activeAt"`
}
