package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"tradehub-api/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionService(t *testing.T, ttl time.Duration) *SessionService {
	t.Helper()
	c := cache.NewMemoryCache()
	t.Cleanup(func() { c.Close() })
	return NewSessionService(c, ttl)
}

func TestSession_IssueAndValidate(t *testing.T) {
	svc := newTestSessionService(t, time.Hour)

	token, err := svc.Issue(context.Background(), "76561198000000001")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "tht_"))

	data, err := svc.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "76561198000000001", data.SteamID)
}

func TestSession_ValidateRejectsGarbage(t *testing.T) {
	svc := newTestSessionService(t, time.Hour)

	_, err := svc.Validate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = svc.Validate(context.Background(), "tht_0000000000000000")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSession_Revoke(t *testing.T) {
	svc := newTestSessionService(t, time.Hour)

	token, err := svc.Issue(context.Background(), "A")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), token))

	_, err = svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
