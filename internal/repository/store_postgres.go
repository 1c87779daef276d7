package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"tradehub-api/internal/model"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to PostgreSQL and ensures the schema.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if err := createPostgresTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Println("[PostgresStore] Initialized")
	return &PostgresStore{db: db}, nil
}

func createPostgresTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		steamid TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		avatar TEXT NOT NULL,
		credit BIGINT NOT NULL DEFAULT 0,
		trade_url TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS offers (
		seq BIGSERIAL PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		trade_id TEXT NOT NULL DEFAULT '',
		owner_id TEXT NOT NULL,
		buyer_id TEXT NOT NULL,
		items JSONB NOT NULL,
		price BIGINT NOT NULL,
		date TEXT NOT NULL,
		status INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_offers_owner ON offers(owner_id);
	CREATE INDEX IF NOT EXISTS idx_offers_buyer ON offers(buyer_id);
	`
	_, err := db.Exec(query)
	return err
}

// FindUser returns the user for a steamid, or nil when absent.
func (s *PostgresStore) FindUser(ctx context.Context, steamID string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT steamid, name, avatar, credit, trade_url FROM users WHERE steamid = $1`, steamID)

	var u model.User
	err := row.Scan(&u.SteamID, &u.Name, &u.Avatar, &u.Credit, &u.TradeURL)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

// FindAllUsers returns the full directory in insertion order.
func (s *PostgresStore) FindAllUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT steamid, name, avatar, credit, trade_url FROM users ORDER BY ctid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.SteamID, &u.Name, &u.Avatar, &u.Credit, &u.TradeURL); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// InsertUser creates a new directory record.
func (s *PostgresStore) InsertUser(ctx context.Context, user model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (steamid, name, avatar, credit, trade_url) VALUES ($1, $2, $3, $4, $5)`,
		user.SteamID, user.Name, user.Avatar, user.Credit, user.TradeURL)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateIdentity updates only name and avatar for an existing user.
func (s *PostgresStore) UpdateIdentity(ctx context.Context, steamID, name, avatar string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET name = $1, avatar = $2 WHERE steamid = $3`, name, avatar, steamID)
	if err != nil {
		return fmt.Errorf("failed to update identity: %w", err)
	}
	return nil
}

// FindOffersBySeller returns offers where the account is the seller.
func (s *PostgresStore) FindOffersBySeller(ctx context.Context, steamID string) ([]model.Offer, error) {
	return s.findOffers(ctx,
		`SELECT id, trade_id, owner_id, buyer_id, items, price, date, status
		 FROM offers WHERE owner_id = $1 ORDER BY seq`, steamID)
}

// FindOffersByBuyer returns offers where the account is the buyer.
func (s *PostgresStore) FindOffersByBuyer(ctx context.Context, steamID string) ([]model.Offer, error) {
	return s.findOffers(ctx,
		`SELECT id, trade_id, owner_id, buyer_id, items, price, date, status
		 FROM offers WHERE buyer_id = $1 ORDER BY seq`, steamID)
}

func (s *PostgresStore) findOffers(ctx context.Context, query, steamID string) ([]model.Offer, error) {
	rows, err := s.db.QueryContext(ctx, query, steamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	var offers []model.Offer
	for rows.Next() {
		var o model.Offer
		var itemsJSON []byte
		if err := rows.Scan(&o.ID, &o.TradeID, &o.OwnerID, &o.BuyerID, &itemsJSON, &o.Price, &o.Date, &o.Status); err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("failed to decode offer items: %w", err)
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// InsertOffer appends a new ledger record.
func (s *PostgresStore) InsertOffer(ctx context.Context, offer model.Offer) error {
	itemsJSON, err := json.Marshal(offer.Items)
	if err != nil {
		return fmt.Errorf("failed to encode offer items: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO offers (id, trade_id, owner_id, buyer_id, items, price, date, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		offer.ID, offer.TradeID, offer.OwnerID, offer.BuyerID, itemsJSON,
		offer.Price, offer.Date, offer.Status)
	if err != nil {
		return fmt.Errorf("failed to insert offer: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
