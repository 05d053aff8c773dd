package model

import "time"

// User represents a registered user of this service's own API.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}

// CampusCredentials are the user's upstream dining-platform credentials,
// stored so the scheduler can log in on the user's behalf.
type CampusCredentials struct {
	UserID   int64
	Username string
	Password string
}
