package models

import "github.com/golang-jwt/jwt/v5"

// ClerkClaims represents the session token claims issued by Clerk.
// See: https://clerk.com/docs/backend-requests/resources/session-tokens
type ClerkClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, exp, nbf, iat)
	AuthorizedParty      string `json:"azp"` // Origin that requested the token
	SessionID            string `json:"sid"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *ClerkClaims) GetUserID() string {
	return c.Subject
}
