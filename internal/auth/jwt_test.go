package auth

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 1)
	userID := uuid.New()

	token, err := svc.Generate(userID, "renter@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.Equal(t, "renter@example.com", claims.Email)
	require.Equal(t, "user", claims.Role)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", 1).Generate(uuid.New(), "a@b.c", "admin")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", 1).Validate(token)
	require.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	_, err := NewJWTService("secret", 1).Validate("not.a.token")
	require.Error(t, err)
}

func TestDeriveUsername(t *testing.T) {
	u := deriveUsername("Alex.Renter@Example.Com")
	require.True(t, strings.HasPrefix(u, "alex.renter_"), u)

	// No @ falls back to the whole string.
	u = deriveUsername("plainname")
	require.True(t, strings.HasPrefix(u, "plainname_"), u)
}
