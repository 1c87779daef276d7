package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tradehub-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store using MongoDB. Matches the production
// deployment where users and offers live in a document store.
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
	offers *mongo.Collection
}

// NewMongoStore connects to MongoDB and ensures indexes.
func NewMongoStore(uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(database)
	users := db.Collection("users")
	offers := db.Collection("offers")

	// Unique steamid guards against duplicate first-login inserts;
	// the second insert fails instead of creating a second record.
	_, err = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "steamid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("[MongoStore] Warning: failed to create users index: %v", err)
	}

	_, err = offers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("[MongoStore] Warning: failed to create offers index: %v", err)
	}

	log.Printf("[MongoStore] Connected to %s", database)
	return &MongoStore{client: client, users: users, offers: offers}, nil
}

// FindUser returns the user for a steamid, or nil when absent.
func (s *MongoStore) FindUser(ctx context.Context, steamID string) (*model.User, error) {
	var u model.User
	err := s.users.FindOne(ctx, bson.M{"steamid": steamID}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

// FindAllUsers returns the full directory in natural order.
func (s *MongoStore) FindAllUsers(ctx context.Context) ([]model.User, error) {
	cursor, err := s.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// InsertUser creates a new directory record.
func (s *MongoStore) InsertUser(ctx context.Context, user model.User) error {
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateIdentity updates only name and avatar for an existing user.
func (s *MongoStore) UpdateIdentity(ctx context.Context, steamID, name, avatar string) error {
	update := bson.M{"$set": bson.M{"name": name, "avatar": avatar}}
	if _, err := s.users.UpdateOne(ctx, bson.M{"steamid": steamID}, update); err != nil {
		return fmt.Errorf("failed to update identity: %w", err)
	}
	return nil
}

// FindOffersBySeller returns offers where the account is the seller.
func (s *MongoStore) FindOffersBySeller(ctx context.Context, steamID string) ([]model.Offer, error) {
	return s.findOffers(ctx, bson.M{"owner_id": steamID})
}

// FindOffersByBuyer returns offers where the account is the buyer.
func (s *MongoStore) FindOffersByBuyer(ctx context.Context, steamID string) ([]model.Offer, error) {
	return s.findOffers(ctx, bson.M{"buyer_id": steamID})
}

func (s *MongoStore) findOffers(ctx context.Context, filter bson.M) ([]model.Offer, error) {
	cursor, err := s.offers.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer cursor.Close(ctx)

	var offers []model.Offer
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %w", err)
	}
	return offers, nil
}

// InsertOffer appends a new ledger record.
func (s *MongoStore) InsertOffer(ctx context.Context, offer model.Offer) error {
	if _, err := s.offers.InsertOne(ctx, offer); err != nil {
		return fmt.Errorf("failed to insert offer: %w", err)
	}
	return nil
}

// Ping verifies the MongoDB connection.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
