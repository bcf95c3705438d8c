package domain

import "time"

// AccessToken is a signed bearer credential issued on login.
type AccessToken struct {
	// Value is the compact serialized token.
	Value string

	// ExpiresAt is when the token stops being accepted.
	ExpiresAt time.Time
}

// Principal is the authenticated caller behind a verified token.
type Principal struct {
	Subject string
	Role    string
}
