package repository

import (
	"context"

	"tradehub-api/internal/model"
)

// UserRepository defines directory data access methods.
type UserRepository interface {
	// FindUser returns the user for a steamid, or nil when absent.
	FindUser(ctx context.Context, steamID string) (*model.User, error)

	// FindAllUsers returns the full directory.
	FindAllUsers(ctx context.Context) ([]model.User, error)

	// InsertUser creates a new directory record.
	InsertUser(ctx context.Context, user model.User) error

	// UpdateIdentity updates only name and avatar for an existing user.
	UpdateIdentity(ctx context.Context, steamID, name, avatar string) error
}

// OfferRepository defines ledger data access methods. Reads preserve
// insertion order.
type OfferRepository interface {
	// FindOffersBySeller returns offers where the given account is the seller.
	FindOffersBySeller(ctx context.Context, steamID string) ([]model.Offer, error)

	// FindOffersByBuyer returns offers where the given account is the buyer.
	FindOffersByBuyer(ctx context.Context, steamID string) ([]model.Offer, error)

	// InsertOffer appends a new ledger record.
	InsertOffer(ctx context.Context, offer model.Offer) error
}

// Store bundles the directory and ledger behind one connection.
type Store interface {
	UserRepository
	OfferRepository

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
