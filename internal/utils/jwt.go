package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-data-vault/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateSessionToken creates a signed HMAC-SHA256 JWT for the given user.
//
// The token carries the following claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the user ID
//   - ID        (jti): unique token identifier tracked by the session registry
//   - IssuedAt  (iat): issuance instant
//   - ExpiresAt (exp): issuance instant plus duration
//   - role, email:     role snapshot and login of the backing user
//
// The signed string alone is not sufficient for access: the session registry
// must also still hold the jti, which is how logout and forced invalidation
// take effect before natural expiry.
func GenerateSessionToken(issuer string, user models.User, jti string, issuedAt time.Time, duration time.Duration, signKey string) (string, error) {
	if issuer == "" || jti == "" || duration == 0 || signKey == "" {
		return "", errors.New("invalid params for generating session token")
	}

	claims := &models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(duration)),
		},
		Role:  user.Role,
		Email: user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing session token: %w", err)
	}

	return signed, nil
}

// ParseSessionToken verifies the signature and issuer of a raw token string
// and extracts its claims. Expiry is deliberately NOT checked here: the
// session authority evaluates expiry against its injected clock so that
// timing is testable and the registry stays authoritative.
func ParseSessionToken(tokenString, signKey, issuer string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	}, jwt.WithIssuer(issuer), jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.ID == "" || claims.Subject == "" {
		return nil, errors.New("token is missing identity claims")
	}
	if claims.Issuer != issuer {
		return nil, errors.New("token issuer mismatch")
	}

	return claims, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer ..."
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
