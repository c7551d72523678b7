package setup

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

// Repository defines setup data access interface
type Repository interface {
	Create(ctx context.Context, s *Setup) error
	GetByID(ctx context.Context, id uuid.UUID) (*Setup, error)
	GetByName(ctx context.Context, name string) (*Setup, error)
	Update(ctx context.Context, s *Setup) error
	List(ctx context.Context, activeOnly bool) ([]*Setup, error)
}

type repository struct {
	coll *mongo.Collection
}

// NewRepository creates new setup repository
func NewRepository(coll *mongo.Collection) Repository {
	return &repository{coll: coll}
}

type setupDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Active    bool      `bson:"active"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toDoc(s *Setup) *setupDoc {
	return &setupDoc{
		ID:        s.ID.String(),
		Name:      s.Name,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (d *setupDoc) toEntity() (*Setup, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	return &Setup{
		ID:        id,
		Name:      d.Name,
		Active:    d.Active,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func (r *repository) Create(ctx context.Context, s *Setup) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, toDoc(s))
	if mongo.IsDuplicateKeyError(err) {
		return ErrNameTaken
	}
	return err
}

// GetByName returns the setup carrying the name, or nil when none does
func (r *repository) GetByName(ctx context.Context, name string) (*Setup, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc setupDoc
	err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toEntity()
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Setup, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc setupDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toEntity()
}

func (r *repository) Update(ctx context.Context, s *Setup) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": s.ID.String()},
		bson.M{"$set": bson.M{
			"name":       s.Name,
			"active":     s.Active,
			"updated_at": s.UpdatedAt,
		}},
	)
	if mongo.IsDuplicateKeyError(err) {
		return ErrNameTaken
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrSetupNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]*Setup, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var setups []*Setup
	for cur.Next(ctx) {
		var doc setupDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		s, err := doc.toEntity()
		if err != nil {
			return nil, err
		}
		setups = append(setups, s)
	}
	return setups, cur.Err()
}
