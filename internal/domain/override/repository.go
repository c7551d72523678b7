package override

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

// Store is the read surface the booking and pricing paths depend on
type Store interface {
	ActiveForDate(ctx context.Context, setupID uuid.UUID, date string) ([]*Override, error)
}

// Repository defines override data access interface
type Repository interface {
	Store
	Create(ctx context.Context, o *Override) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Override, error)
}

type repository struct {
	coll *mongo.Collection
}

// NewRepository creates new override repository
func NewRepository(coll *mongo.Collection) Repository {
	return &repository{coll: coll}
}

type overrideDoc struct {
	ID        string    `bson:"_id"`
	SetupID   string    `bson:"setup_id"`
	Kind      string    `bson:"kind"`
	DateFrom  string    `bson:"date_from"`
	DateTo    string    `bson:"date_to"`
	Price     *float64  `bson:"price,omitempty"`
	Reason    string    `bson:"reason,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func toDoc(o *Override) *overrideDoc {
	return &overrideDoc{
		ID:        o.ID.String(),
		SetupID:   o.SetupID.String(),
		Kind:      string(o.Kind),
		DateFrom:  o.DateFrom,
		DateTo:    o.DateTo,
		Price:     o.Price,
		Reason:    o.Reason,
		CreatedAt: o.CreatedAt,
	}
}

func (d *overrideDoc) toEntity() (*Override, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	setupID, err := uuid.Parse(d.SetupID)
	if err != nil {
		return nil, err
	}
	return &Override{
		ID:        id,
		SetupID:   setupID,
		Kind:      Kind(d.Kind),
		DateFrom:  d.DateFrom,
		DateTo:    d.DateTo,
		Price:     d.Price,
		Reason:    d.Reason,
		CreatedAt: d.CreatedAt,
	}, nil
}

func (r *repository) Create(ctx context.Context, o *Override) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, toDoc(o))
	return err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]*Override, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date_from", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodeAll(ctx, cur)
}

func (r *repository) ActiveForDate(ctx context.Context, setupID uuid.UUID, date string) ([]*Override, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{
		"setup_id":  setupID.String(),
		"date_from": bson.M{"$lte": date},
		"date_to":   bson.M{"$gte": date},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodeAll(ctx, cur)
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]*Override, error) {
	var overrides []*Override
	for cur.Next(ctx) {
		var doc overrideDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		o, err := doc.toEntity()
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, cur.Err()
}
