package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradehub-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOfferService(offers *mockOfferRepo, users *mockUserRepo, provider *mockProvider) *OfferService {
	return NewOfferService(offers, users, provider, time.Second)
}

func fixtureDirectory() *mockUserRepo {
	return &mockUserRepo{users: []model.User{
		{SteamID: "A", Name: "Alice", Avatar: "alice.jpg", Credit: 100},
		{SteamID: "B", Name: "Bob", Avatar: "bob.jpg", Credit: 50},
	}}
}

func fixtureLedger() *mockOfferRepo {
	return &mockOfferRepo{offers: []model.Offer{
		{ID: "o1", OwnerID: "A", BuyerID: "B", Items: []string{"x1", "x2"}, Price: 10},
	}}
}

func fixtureSnapshot() *mockProvider {
	return &mockProvider{items: []model.InventoryItem{
		{Index: 1, AssetID: "x1", Name: "Demon Eater", Rarity: "Mythical", Color: "8847ff",
			Descriptions: []model.Description{{Type: "html", Value: "Used by Shadow Fiend"}}},
	}}
}

func TestReconcile_BuyerView(t *testing.T) {
	svc := newTestOfferService(fixtureLedger(), fixtureDirectory(), fixtureSnapshot())

	views, err := svc.Reconcile(context.Background(), "B", RoleBuyer)
	require.NoError(t, err)
	require.Len(t, views, 1)

	row := views[0]
	assert.Equal(t, "o1", row.ID)
	assert.False(t, row.IsMine)
	assert.True(t, row.IsBuyer)
	require.NotNil(t, row.Owner)
	assert.Equal(t, "Alice", row.Owner.Name)
	assert.Equal(t, int64(10), row.Price)

	// x2 is stale: filtered out, never fabricated, offer still emitted.
	require.Len(t, row.Items, 1)
	assert.Equal(t, "x1", row.Items[0].AssetID)
}

func TestReconcile_SellerView(t *testing.T) {
	svc := newTestOfferService(fixtureLedger(), fixtureDirectory(), fixtureSnapshot())

	views, err := svc.Reconcile(context.Background(), "A", RoleSeller)
	require.NoError(t, err)
	require.Len(t, views, 1)

	row := views[0]
	assert.True(t, row.IsMine)
	assert.False(t, row.IsBuyer)
	// The seller sees their own identity echoed back as owner.
	require.NotNil(t, row.Owner)
	assert.Equal(t, "Alice", row.Owner.Name)
}

func TestReconcile_RoleFiltering(t *testing.T) {
	ledger := &mockOfferRepo{offers: []model.Offer{
		{ID: "o1", OwnerID: "A", BuyerID: "B", Items: []string{"x1"}},
		{ID: "o2", OwnerID: "B", BuyerID: "A", Items: []string{"x1"}},
		{ID: "o3", OwnerID: "A", BuyerID: "C", Items: []string{"x1"}},
	}}
	svc := newTestOfferService(ledger, fixtureDirectory(), fixtureSnapshot())

	views, err := svc.Reconcile(context.Background(), "A", RoleSeller)
	require.NoError(t, err)
	require.Len(t, views, 2)
	// Ledger insertion order is preserved.
	assert.Equal(t, "o1", views[0].ID)
	assert.Equal(t, "o3", views[1].ID)

	views, err = svc.Reconcile(context.Background(), "A", RoleBuyer)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "o2", views[0].ID)
}

func TestReconcile_SelfTrade_BothFlags(t *testing.T) {
	ledger := &mockOfferRepo{offers: []model.Offer{
		{ID: "o1", OwnerID: "A", BuyerID: "A", Items: []string{"x1"}},
	}}
	svc := newTestOfferService(ledger, fixtureDirectory(), fixtureSnapshot())

	views, err := svc.Reconcile(context.Background(), "A", RoleSeller)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].IsMine)
	assert.True(t, views[0].IsBuyer)
}

func TestReconcile_ProviderFailure_NoPartialRows(t *testing.T) {
	provider := &mockProvider{err: errors.New("steam is down")}
	svc := newTestOfferService(fixtureLedger(), fixtureDirectory(), provider)

	views, err := svc.Reconcile(context.Background(), "B", RoleBuyer)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Nil(t, views)
}

func TestReconcile_DescriptionSentinel(t *testing.T) {
	provider := &mockProvider{items: []model.InventoryItem{
		{Index: 1, AssetID: "x1"},
		{Index: 2, AssetID: "x2", Descriptions: []model.Description{{Type: "html", Value: "real"}}},
	}}
	ledger := &mockOfferRepo{offers: []model.Offer{
		{ID: "o1", OwnerID: "A", BuyerID: "B", Items: []string{"x1", "x2"}},
	}}
	svc := newTestOfferService(ledger, fixtureDirectory(), provider)

	views, err := svc.Reconcile(context.Background(), "B", RoleBuyer)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Items, 2)

	// Empty list replaced with exactly one synthetic entry.
	require.Len(t, views[0].Items[0].Descriptions, 1)
	assert.Equal(t, "html", views[0].Items[0].Descriptions[0].Type)
	assert.Equal(t, "No Descriptions", views[0].Items[0].Descriptions[0].Value)

	// Non-empty list passed through unchanged.
	require.Len(t, views[0].Items[1].Descriptions, 1)
	assert.Equal(t, "real", views[0].Items[1].Descriptions[0].Value)
}

func TestReconcile_UnknownSeller_RowStillEmitted(t *testing.T) {
	ledger := &mockOfferRepo{offers: []model.Offer{
		{ID: "o1", OwnerID: "ghost", BuyerID: "B", Items: []string{"x1"}, Price: 5},
	}}
	svc := newTestOfferService(ledger, fixtureDirectory(), fixtureSnapshot())

	views, err := svc.Reconcile(context.Background(), "B", RoleBuyer)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Owner)
	assert.Equal(t, int64(5), views[0].Price)
}

func TestReconcile_ResolvedItemsAreSubset(t *testing.T) {
	provider := &mockProvider{items: []model.InventoryItem{
		{Index: 1, AssetID: "x1"},
		{Index: 2, AssetID: "x3"},
	}}
	ledger := &mockOfferRepo{offers: []model.Offer{
		{ID: "o1", OwnerID: "A", BuyerID: "B", Items: []string{"x1", "x2"}},
	}}
	svc := newTestOfferService(ledger, fixtureDirectory(), provider)

	views, err := svc.Reconcile(context.Background(), "B", RoleBuyer)
	require.NoError(t, err)
	require.Len(t, views, 1)

	stored := map[string]bool{"x1": true, "x2": true}
	for _, item := range views[0].Items {
		assert.True(t, stored[item.AssetID], "resolved item %s not in stored ids", item.AssetID)
	}
	// x3 is in the snapshot but not in the offer; x2 is stored but stale.
	require.Len(t, views[0].Items, 1)
	assert.Equal(t, "x1", views[0].Items[0].AssetID)
}

func TestReconcile_EmptyLedger(t *testing.T) {
	svc := newTestOfferService(&mockOfferRepo{}, fixtureDirectory(), fixtureSnapshot())

	views, err := svc.Reconcile(context.Background(), "nobody", RoleBuyer)
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestReconcile_FreshSnapshotPerCall(t *testing.T) {
	provider := fixtureSnapshot()
	svc := newTestOfferService(fixtureLedger(), fixtureDirectory(), provider)

	_, err := svc.Reconcile(context.Background(), "B", RoleBuyer)
	require.NoError(t, err)
	_, err = svc.Reconcile(context.Background(), "B", RoleBuyer)
	require.NoError(t, err)

	assert.Equal(t, 2, provider.calls)
}
