package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tradehub-api/internal/cache"
	"tradehub-api/internal/handler"
	"tradehub-api/internal/middleware"
	"tradehub-api/internal/model"
	"tradehub-api/internal/router"
	"tradehub-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory repository.Store for handler tests.
type fakeStore struct {
	users  []model.User
	offers []model.Offer
}

func (s *fakeStore) FindUser(ctx context.Context, steamID string) (*model.User, error) {
	for i := range s.users {
		if s.users[i].SteamID == steamID {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) FindAllUsers(ctx context.Context) ([]model.User, error) {
	return s.users, nil
}

func (s *fakeStore) InsertUser(ctx context.Context, user model.User) error {
	s.users = append(s.users, user)
	return nil
}

func (s *fakeStore) UpdateIdentity(ctx context.Context, steamID, name, avatar string) error {
	for i := range s.users {
		if s.users[i].SteamID == steamID {
			s.users[i].Name = name
			s.users[i].Avatar = avatar
			return nil
		}
	}
	return errors.New("no such user")
}

func (s *fakeStore) FindOffersBySeller(ctx context.Context, steamID string) ([]model.Offer, error) {
	var out []model.Offer
	for _, o := range s.offers {
		if o.OwnerID == steamID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeStore) FindOffersByBuyer(ctx context.Context, steamID string) ([]model.Offer, error) {
	var out []model.Offer
	for _, o := range s.offers {
		if o.BuyerID == steamID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertOffer(ctx context.Context, offer model.Offer) error {
	s.offers = append(s.offers, offer)
	return nil
}

func (s *fakeStore) Ping(ctx context.Context) error { return nil }
func (s *fakeStore) Close() error                   { return nil }

// fakeProvider serves a fixed snapshot or an error.
type fakeProvider struct {
	items []model.InventoryItem
	err   error
}

func (p *fakeProvider) GetSnapshot(ctx context.Context) ([]model.InventoryItem, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.items, nil
}

type testEnv struct {
	router   http.Handler
	store    *fakeStore
	provider *fakeProvider
	sessions *service.SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := &fakeStore{
		users: []model.User{
			{SteamID: "A", Name: "Alice", Avatar: "alice.jpg", Credit: 100},
			{SteamID: "B", Name: "Bob", Avatar: "bob.jpg", Credit: 50},
		},
		offers: []model.Offer{
			{ID: "o1", OwnerID: "A", BuyerID: "B", Items: []string{"x1", "x2"}, Price: 10, Date: "2024-01-01", Status: 1},
		},
	}
	provider := &fakeProvider{
		items: []model.InventoryItem{
			{Index: 1, AssetID: "x1", Name: "Demon Eater",
				Descriptions: []model.Description{{Type: "html", Value: "d"}}},
		},
	}

	sessionCache := cache.NewMemoryCache()
	t.Cleanup(func() { sessionCache.Close() })

	sessions := service.NewSessionService(sessionCache, time.Hour)
	accounts := service.NewAccountService(store)
	offers := service.NewOfferService(store, store, provider, time.Second)

	r := router.New(router.Config{
		HealthHandler:  handler.NewHealthHandler(store, sessionCache),
		OfferHandler:   handler.NewOfferHandler(offers),
		AccountHandler: handler.NewAccountHandler(accounts),
		AuthHandler:    handler.NewAuthHandler(accounts, sessions, nil, ""),
		AuthMiddleware: middleware.NewAuthMiddleware(sessions),
	})

	return &testEnv{router: r, store: store, provider: provider, sessions: sessions}
}

func (e *testEnv) get(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) tokenFor(t *testing.T, steamID string) string {
	t.Helper()
	token, err := e.sessions.Issue(context.Background(), steamID)
	require.NoError(t, err)
	return token
}

func TestBought_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/bought", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.get(t, "/bought", "tht_bogus")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBought_ReturnsReconciledOffers(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/bought", env.tokenFor(t, "B"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Offers []model.OfferView `json:"offers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Offers, 1)

	row := body.Offers[0]
	assert.Equal(t, "o1", row.ID)
	assert.False(t, row.IsMine)
	assert.True(t, row.IsBuyer)
	require.NotNil(t, row.Owner)
	assert.Equal(t, "Alice", row.Owner.Name)
	require.Len(t, row.Items, 1)
	assert.Equal(t, "x1", row.Items[0].AssetID)
}

func TestOwned_ReturnsSellerSide(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/owned", env.tokenFor(t, "A"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Offers []model.OfferView `json:"offers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Offers, 1)
	assert.True(t, body.Offers[0].IsMine)
	assert.False(t, body.Offers[0].IsBuyer)
}

func TestBought_ProviderDownIs503(t *testing.T) {
	env := newTestEnv(t)
	env.provider.err = errors.New("bot session lost")

	rec := env.get(t, "/bought", env.tokenFor(t, "B"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUser_ReturnsProfileShape(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/user", env.tokenFor(t, "A"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Alice", body["name"])
	assert.Equal(t, "alice.jpg", body["avatar"])
	assert.Equal(t, float64(100), body["credit"])
	// The profile view never exposes the trade URL or steamid.
	assert.NotContains(t, body, "trade_url")
	assert.NotContains(t, body, "steamid")
}

func TestCreateSession_UpsertsAndIssuesToken(t *testing.T) {
	env := newTestEnv(t)

	payload := []byte(`{"steamid":"C","name":"Carol","avatar":"carol.jpg"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/session", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body handler.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)

	// The new identity is usable immediately.
	profileRec := env.get(t, "/user", body.Token)
	require.Equal(t, http.StatusOK, profileRec.Code)

	var profile model.Profile
	require.NoError(t, json.Unmarshal(profileRec.Body.Bytes(), &profile))
	assert.Equal(t, "Carol", profile.Name)
	assert.Equal(t, int64(0), profile.Credit)
}

func TestVerify_ReportsTokenState(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, "A")

	check := func(token string) bool {
		payload, _ := json.Marshal(map[string]string{"token": token})
		req := httptest.NewRequest(http.MethodPost, "/auth/verify", bytes.NewReader(payload))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]bool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body["success"]
	}

	assert.True(t, check(token))
	assert.False(t, check("tht_expired"))
}

func TestStatus_IsPublic(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
