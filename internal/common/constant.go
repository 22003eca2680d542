// Package common contains constants shared by the client packages.
package common

// Keys of the local metadata table.
const (
	// AccessTokenKey holds the raw bearer token issued by POST /api/token.
	AccessTokenKey = "access_token"
	// UsernameKey holds the name the token was issued to.
	UsernameKey = "username"
	// LoggedInAtKey holds the RFC 3339 time of the last successful login.
	LoggedInAtKey = "logged_in_at"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"
