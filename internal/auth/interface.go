package auth

import "resumecrafter/internal/domain/models"

// JWTVerifier defines the interface for session token verification.
// The middleware depends only on this, so tests can substitute a stub.
type JWTVerifier interface {
	// VerifyToken validates a token string and returns its claims.
	// Returns domain.ErrUnauthorized for any invalid, expired or
	// wrongly-signed token.
	VerifyToken(tokenString string) (*models.ClerkClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
