package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holoholo/models"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)
	assert.True(t, CheckPassword(hash, "admin123"))
	assert.False(t, CheckPassword(hash, "admin124"))
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens([]byte("secret"), time.Hour)
	u := &models.User{ID: 42, Username: "alice", Role: models.RoleAdmin}

	signed, exp, err := tokens.Issue(u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	id, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.UserID)
	assert.Equal(t, "alice", id.Username)
	assert.True(t, id.IsAdmin())
	assert.Equal(t, "42", id.SessionKey())
}

func TestTokenRejected(t *testing.T) {
	tokens := NewTokens([]byte("secret"), time.Hour)
	u := &models.User{ID: 1, Username: "bob", Role: models.RoleCustomer}
	signed, _, err := tokens.Issue(u)
	require.NoError(t, err)

	other := NewTokens([]byte("other"), time.Hour)
	_, err = other.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	tokens.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = tokens.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, IdentityFrom(ctx))

	id := &Identity{UserID: 3, Role: models.RoleCustomer}
	got := IdentityFrom(WithIdentity(ctx, id))
	require.NotNil(t, got)
	assert.False(t, got.IsAdmin())
	var nilID *Identity
	assert.False(t, nilID.IsAdmin())
}
