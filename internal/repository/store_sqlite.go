package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"tradehub-api/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteStore implements Store using SQLite. Default backend for
// local development; WAL mode for concurrent reads.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the SQLite database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createSQLiteTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteStore] Initialized with database: %s", dbPath)
	return &SQLiteStore{db: db}, nil
}

func createSQLiteTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		steamid TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		avatar TEXT NOT NULL,
		credit INTEGER NOT NULL DEFAULT 0,
		trade_url TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS offers (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		trade_id TEXT NOT NULL DEFAULT '',
		owner_id TEXT NOT NULL,
		buyer_id TEXT NOT NULL,
		items TEXT NOT NULL,
		price INTEGER NOT NULL,
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
func (s *SQLiteStore) FindUser(ctx context.Context, steamID string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT steamid, name, avatar, credit, trade_url FROM users WHERE steamid = ?`, steamID)

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
func (s *SQLiteStore) FindAllUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT steamid, name, avatar, credit, trade_url FROM users ORDER BY rowid`)
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
func (s *SQLiteStore) InsertUser(ctx context.Context, user model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (steamid, name, avatar, credit, trade_url) VALUES (?, ?, ?, ?, ?)`,
		user.SteamID, user.Name, user.Avatar, user.Credit, user.TradeURL)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateIdentity updates only name and avatar for an existing user.
func (s *SQLiteStore) UpdateIdentity(ctx context.Context, steamID, name, avatar string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET name = ?, avatar = ? WHERE steamid = ?`, name, avatar, steamID)
	if err != nil {
		return fmt.Errorf("failed to update identity: %w", err)
	}
	return nil
}

// FindOffersBySeller returns offers where the account is the seller.
func (s *SQLiteStore) FindOffersBySeller(ctx context.Context, steamID string) ([]model.Offer, error) {
	return s.findOffers(ctx, "owner_id", steamID)
}

// FindOffersByBuyer returns offers where the account is the buyer.
func (s *SQLiteStore) FindOffersByBuyer(ctx context.Context, steamID string) ([]model.Offer, error) {
	return s.findOffers(ctx, "buyer_id", steamID)
}

func (s *SQLiteStore) findOffers(ctx context.Context, column, steamID string) ([]model.Offer, error) {
	query := fmt.Sprintf(
		`SELECT id, trade_id, owner_id, buyer_id, items, price, date, status
		 FROM offers WHERE %s = ? ORDER BY seq`, column)

	rows, err := s.db.QueryContext(ctx, query, steamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	var offers []model.Offer
	for rows.Next() {
		var o model.Offer
		var itemsJSON string
		if err := rows.Scan(&o.ID, &o.TradeID, &o.OwnerID, &o.BuyerID, &itemsJSON, &o.Price, &o.Date, &o.Status); err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
			return nil, fmt.Errorf("failed to decode offer items: %w", err)
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// InsertOffer appends a new ledger record.
func (s *SQLiteStore) InsertOffer(ctx context.Context, offer model.Offer) error {
	itemsJSON, err := json.Marshal(offer.Items)
	if err != nil {
		return fmt.Errorf("failed to encode offer items: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO offers (id, trade_id, owner_id, buyer_id, items, price, date, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		offer.ID, offer.TradeID, offer.OwnerID, offer.BuyerID, string(itemsJSON),
		offer.Price, offer.Date, offer.Status)
	if err != nil {
		return fmt.Errorf("failed to insert offer: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
