package devauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/internhub/internal/ports"
)

func TestProvider_BeginAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{
		UserID: "dev-user",
		Email:  "dev@campus.test",
		Name:   "Dev User",
	})
	require.NoError(t, err)

	ctx := context.Background()
	authURL, state, nonce, err := prov.Begin(ctx, ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	assert.Contains(t, authURL, "/auth/callback?code=dev&state="+state)
	assert.Len(t, state, 24)
	assert.Len(t, nonce, 24)

	identity, err := prov.Exchange(ctx, ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	require.NoError(t, err)
	assert.Equal(t, "dev-user", identity.UserID)
	assert.Equal(t, "dev@campus.test", identity.Email)
	assert.Greater(t, time.Until(identity.ExpiresAt), 5*time.Minute)
}

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Config{Email: "dev@campus.test"})
	assert.ErrorContains(t, err, "UserID is required")

	_, err = NewProvider(Config{UserID: "dev"})
	assert.ErrorContains(t, err, "Email is required")
}
