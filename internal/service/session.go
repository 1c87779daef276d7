package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tradehub-api/internal/cache"
	"tradehub-api/internal/model"
)

const (
	// sessionTokenPrefix marks tokens issued by this service.
	sessionTokenPrefix = "tht_"

	// sessionKeyPrefix namespaces session keys in the cache.
	sessionKeyPrefix = "tradehub:session:"
)

// ErrInvalidSession covers malformed, unknown and expired tokens.
var ErrInvalidSession = errors.New("invalid or expired session")

// SessionService issues and validates opaque bearer session tokens,
// stored in the cache with a TTL.
type SessionService struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewSessionService creates a session service with the given token
// lifetime.
func NewSessionService(c cache.Cache, ttl time.Duration) *SessionService {
	return &SessionService{cache: c, ttl: ttl}
}

// Issue creates a new session token for a steamid.
func (s *SessionService) Issue(ctx context.Context, steamID string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := sessionTokenPrefix + hex.EncodeToString(tokenBytes)

	now := time.Now()
	data := model.SessionData{
		SteamID:   steamID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize session: %w", err)
	}

	if err := s.cache.Set(ctx, sessionKeyPrefix+token, jsonData, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

// Validate resolves a token to its session data.
func (s *SessionService) Validate(ctx context.Context, token string) (*model.SessionData, error) {
	if !strings.HasPrefix(token, sessionTokenPrefix) {
		return nil, ErrInvalidSession
	}

	jsonData, err := s.cache.Get(ctx, sessionKeyPrefix+token)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var data model.SessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	if time.Now().After(data.ExpiresAt) {
		_ = s.cache.Delete(ctx, sessionKeyPrefix+token)
		return nil, ErrInvalidSession
	}

	return &data, nil
}

// Revoke invalidates a token.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+token)
}
