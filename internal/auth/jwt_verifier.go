package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"resumecrafter/internal/domain"
	"resumecrafter/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// clockSkew tolerates small differences between Clerk's clock and ours
const clockSkew = 5 * time.Second

// ClerkJWTVerifier implements JWTVerifier using the JWKS published by Clerk.
type ClerkJWTVerifier struct {
	keyFunc           jwt.Keyfunc
	authorizedParties []string
	cancel            context.CancelFunc
	logger            *slog.Logger
}

// NewJWTVerifier creates a verifier that fetches Clerk's public keys from jwksURL.
// Keys are cached and refreshed in the background until Close is called.
// When authorizedParties is non-empty, tokens carrying an azp claim outside
// the list are rejected.
func NewJWTVerifier(jwksURL string, authorizedParties []string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	v := NewJWTVerifierWithKeyfunc(jwks.Keyfunc, authorizedParties, logger)
	v.cancel = cancel
	return v, nil
}

// NewJWTVerifierWithKeyfunc builds a verifier around an existing key lookup.
func NewJWTVerifierWithKeyfunc(keyFunc jwt.Keyfunc, authorizedParties []string, logger *slog.Logger) *ClerkJWTVerifier {
	return &ClerkJWTVerifier{
		keyFunc:           keyFunc,
		authorizedParties: authorizedParties,
		cancel:            func() {},
		logger:            logger,
	}
}

// VerifyToken validates a Clerk session token and extracts its claims.
func (v *ClerkJWTVerifier) VerifyToken(tokenString string) (*models.ClerkClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.ClerkClaims{}, v.keyFunc,
		// Clerk signs session tokens with RS256 only; rejecting others
		// prevents algorithm confusion
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	if !token.Valid {
		v.logger.Debug("token is invalid after parsing")
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.ClerkClaims)
	if !ok {
		v.logger.Error("failed to extract claims from token")
		return nil, domain.ErrUnauthorized
	}

	// Validate user ID exists (sub claim)
	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	if len(v.authorizedParties) > 0 && claims.AuthorizedParty != "" &&
		!slices.Contains(v.authorizedParties, claims.AuthorizedParty) {
		v.logger.Warn("token issued for unauthorized party",
			"azp", claims.AuthorizedParty,
			"user_id", claims.Subject,
		)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close stops the background JWKS refresh.
func (v *ClerkJWTVerifier) Close() error {
	v.cancel()
	v.logger.Info("JWT verifier closed")
	return nil
}
