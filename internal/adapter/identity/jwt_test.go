package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/event_ticket/internal/adapter/identity"
	"github.com/srgjo27/event_ticket/internal/core/domain"
)

func TestResolve_RoundTrip(t *testing.T) {
	r, err := identity.NewJWTResolver("s3cret", "event-ticket")
	require.NoError(t, err)

	token, err := r.Mint(domain.Identity{ID: "staff-1", Email: "staff@example.com", Roles: []string{domain.RoleStaff}}, time.Hour)
	require.NoError(t, err)

	id, err := r.Resolve(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, "staff-1", id.ID)
	assert.True(t, id.HasRole(domain.RoleStaff))
}

func TestResolve_Rejects(t *testing.T) {
	r, err := identity.NewJWTResolver("s3cret", "event-ticket")
	require.NoError(t, err)
	other, err := identity.NewJWTResolver("other", "event-ticket")
	require.NoError(t, err)

	expired, err := r.Mint(domain.Identity{ID: "staff-1"}, -time.Minute)
	require.NoError(t, err)
	forged, err := other.Mint(domain.Identity{ID: "staff-1"}, time.Hour)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "staff-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":   "",
		"garbage": "not.a.jwt",
		"expired": expired,
		"forged":  forged,
		"none":    none,
	} {
		_, err := r.Resolve(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated, name)
	}
}

func TestNewJWTResolver_RequiresSecret(t *testing.T) {
	_, err := identity.NewJWTResolver("", "")
	assert.Error(t, err)
}
