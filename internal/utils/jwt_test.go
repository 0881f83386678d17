package utils

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-data-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() models.User {
	return models.User{
		ID:    "0192aaaa-bbbb-cccc-dddd-eeeeffff0001",
		Email: "root@x.com",
		Role:  models.RoleRoot,
	}
}

func TestGenerateSessionToken_RoundTrip(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	signed, err := GenerateSessionToken("go-data-vault", testUser(), "jti-1", issuedAt, 24*time.Hour, "sign-key")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := ParseSessionToken(signed, "sign-key", "go-data-vault")
	require.NoError(t, err)

	assert.Equal(t, "jti-1", claims.ID)
	assert.Equal(t, testUser().ID, claims.Subject)
	assert.Equal(t, models.RoleRoot, claims.Role)
	assert.Equal(t, "root@x.com", claims.Email)
	assert.Equal(t, issuedAt.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestGenerateSessionToken_InvalidParams(t *testing.T) {
	_, err := GenerateSessionToken("", testUser(), "jti-1", time.Now(), time.Hour, "sign-key")
	assert.Error(t, err)

	_, err = GenerateSessionToken("issuer", testUser(), "", time.Now(), time.Hour, "sign-key")
	assert.Error(t, err)

	_, err = GenerateSessionToken("issuer", testUser(), "jti-1", time.Now(), 0, "sign-key")
	assert.Error(t, err)

	_, err = GenerateSessionToken("issuer", testUser(), "jti-1", time.Now(), time.Hour, "")
	assert.Error(t, err)
}

func TestParseSessionToken_WrongKeyRejected(t *testing.T) {
	signed, err := GenerateSessionToken("go-data-vault", testUser(), "jti-1", time.Now(), time.Hour, "sign-key")
	require.NoError(t, err)

	_, err = ParseSessionToken(signed, "other-key", "go-data-vault")
	assert.Error(t, err)
}

func TestParseSessionToken_WrongIssuerRejected(t *testing.T) {
	signed, err := GenerateSessionToken("someone-else", testUser(), "jti-1", time.Now(), time.Hour, "sign-key")
	require.NoError(t, err)

	_, err = ParseSessionToken(signed, "sign-key", "go-data-vault")
	assert.Error(t, err)
}

func TestParseSessionToken_ExpiredStillParses(t *testing.T) {
	// Expiry is evaluated by the session authority against its own clock,
	// so parsing an already-expired token must succeed.
	issuedAt := time.Now().Add(-48 * time.Hour)
	signed, err := GenerateSessionToken("go-data-vault", testUser(), "jti-1", issuedAt, time.Hour, "sign-key")
	require.NoError(t, err)

	claims, err := ParseSessionToken(signed, "sign-key", "go-data-vault")
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Before(time.Now()))
}

func TestParseBearerToken(t *testing.T) {
	token, err := ParseBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ParseBearerToken("abc.def.ghi")
	assert.Error(t, err)

	_, err = ParseBearerToken("Bearer ")
	assert.Error(t, err)
}
