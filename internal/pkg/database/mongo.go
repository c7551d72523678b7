package database

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo bundles the client and the typed collection handles used by the
// repositories. The booking collection carries a partial unique index that
// backs the insert-if-absent reservation primitive.
type Mongo struct {
	Client       *mongo.Client
	Users        *mongo.Collection
	Setups       *mongo.Collection
	Bookings     *mongo.Collection
	PricingRules *mongo.Collection
	Overrides    *mongo.Collection
}

// NewMongo connects to MongoDB and prepares collections and indexes
func NewMongo(mongoURL, dbName string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	m := &Mongo{
		Client:       client,
		Users:        db.Collection("users"),
		Setups:       db.Collection("setups"),
		Bookings:     db.Collection("bookings"),
		PricingRules: db.Collection("pricing_rules"),
		Overrides:    db.Collection("availability_overrides"),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	log.Info().Msg("Connected to MongoDB")
	return m, nil
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	// One confirmed booking per (setup, date, slot). slots is an array of the
	// covered slot starts, so the multikey index makes a multi-slot insert
	// claim every slot atomically. Cancelled bookings fall out of the partial
	// filter, which frees the slots without deleting the document.
	_, err := m.Bookings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "setup_id", Value: 1}, {Key: "date", Value: 1}, {Key: "slots", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": "confirmed"}),
	})
	if err != nil {
		return err
	}

	_, err = m.Bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = m.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = m.Setups.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = m.PricingRules.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "setup_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = m.Overrides.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "setup_id", Value: 1}, {Key: "date_from", Value: 1}, {Key: "date_to", Value: 1}},
	})
	return err
}

// Close disconnects the Mongo client
func (m *Mongo) Close() {
	if m == nil || m.Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.Client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("Error closing MongoDB connection")
	} else {
		log.Info().Msg("MongoDB connection closed")
	}
}
