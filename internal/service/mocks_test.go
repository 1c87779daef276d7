package service

import (
	"context"
	"errors"
	"fmt"

	"tradehub-api/internal/model"
)

// mockOfferRepo serves a fixed ledger, preserving insertion order.
type mockOfferRepo struct {
	offers []model.Offer
	err    error
}

func (m *mockOfferRepo) FindOffersBySeller(ctx context.Context, steamID string) ([]model.Offer, error) {
	return m.filter(func(o model.Offer) bool { return o.OwnerID == steamID })
}

func (m *mockOfferRepo) FindOffersByBuyer(ctx context.Context, steamID string) ([]model.Offer, error) {
	return m.filter(func(o model.Offer) bool { return o.BuyerID == steamID })
}

func (m *mockOfferRepo) filter(keep func(model.Offer) bool) ([]model.Offer, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Offer
	for _, o := range m.offers {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOfferRepo) InsertOffer(ctx context.Context, offer model.Offer) error {
	m.offers = append(m.offers, offer)
	return nil
}

// mockUserRepo serves a fixed directory and counts writes.
type mockUserRepo struct {
	users   []model.User
	inserts int
	updates int
	err     error
}

func (m *mockUserRepo) FindUser(ctx context.Context, steamID string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.users {
		if m.users[i].SteamID == steamID {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindAllUsers(ctx context.Context) ([]model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users, nil
}

func (m *mockUserRepo) InsertUser(ctx context.Context, user model.User) error {
	for i := range m.users {
		if m.users[i].SteamID == user.SteamID {
			return fmt.Errorf("duplicate steamid %s", user.SteamID)
		}
	}
	m.users = append(m.users, user)
	m.inserts++
	return nil
}

func (m *mockUserRepo) UpdateIdentity(ctx context.Context, steamID, name, avatar string) error {
	for i := range m.users {
		if m.users[i].SteamID == steamID {
			m.users[i].Name = name
			m.users[i].Avatar = avatar
			m.updates++
			return nil
		}
	}
	return errors.New("no such user")
}

// mockProvider returns a fixed snapshot or fails.
type mockProvider struct {
	items []model.InventoryItem
	err   error
	calls int
}

func (m *mockProvider) GetSnapshot(ctx context.Context) ([]model.InventoryItem, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	// Hand out copies so normalization never mutates the fixture.
	items := make([]model.InventoryItem, len(m.items))
	copy(items, m.items)
	return items, nil
}
