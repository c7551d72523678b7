package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

// Repository defines pricing rule data access interface. Upsert returns the
// stored rule, which keeps its original id across updates.
type Repository interface {
	Upsert(ctx context.Context, rule *Rule) (*Rule, error)
	GetBySetup(ctx context.Context, setupID uuid.UUID) (*Rule, error)
	List(ctx context.Context) ([]*Rule, error)
}

type repository struct {
	coll *mongo.Collection
}

// NewRepository creates new pricing repository
func NewRepository(coll *mongo.Collection) Repository {
	return &repository{coll: coll}
}

type bandDoc struct {
	Start int     `bson:"start"`
	End   int     `bson:"end"`
	Price float64 `bson:"price"`
}

type ruleDoc struct {
	ID        string    `bson:"_id"`
	SetupID   string    `bson:"setup_id"`
	BasePrice float64   `bson:"base_price"`
	Bands     []bandDoc `bson:"bands,omitempty"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toDoc(r *Rule) *ruleDoc {
	doc := &ruleDoc{
		ID:        r.ID.String(),
		SetupID:   r.SetupID.String(),
		BasePrice: r.BasePrice,
		UpdatedAt: r.UpdatedAt,
	}
	for _, b := range r.Bands {
		doc.Bands = append(doc.Bands, bandDoc{Start: b.Start, End: b.End, Price: b.Price})
	}
	return doc
}

func (d *ruleDoc) toEntity() (*Rule, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	setupID, err := uuid.Parse(d.SetupID)
	if err != nil {
		return nil, err
	}
	rule := &Rule{
		ID:        id,
		SetupID:   setupID,
		BasePrice: d.BasePrice,
		UpdatedAt: d.UpdatedAt,
	}
	for _, b := range d.Bands {
		rule.Bands = append(rule.Bands, Band{Start: b.Start, End: b.End, Price: b.Price})
	}
	return rule, nil
}

// Upsert writes the rule for a setup. _id is immutable in the store, so the
// update only touches the mutable fields and _id is assigned on insert alone;
// replacing the whole document would be rejected once a rule exists.
func (r *repository) Upsert(ctx context.Context, rule *Rule) (*Rule, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := toDoc(rule)
	update := bson.M{
		"$set": bson.M{
			"base_price": doc.BasePrice,
			"bands":      doc.Bands,
			"updated_at": doc.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":      doc.ID,
			"setup_id": doc.SetupID,
		},
	}

	var stored ruleDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"setup_id": doc.SetupID},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&stored)
	if err != nil {
		return nil, err
	}
	return stored.toEntity()
}

func (r *repository) GetBySetup(ctx context.Context, setupID uuid.UUID) (*Rule, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc ruleDoc
	err := r.coll.FindOne(ctx, bson.M{"setup_id": setupID.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toEntity()
}

func (r *repository) List(ctx context.Context) ([]*Rule, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rules []*Rule
	for cur.Next(ctx) {
		var doc ruleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		rule, err := doc.toEntity()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, cur.Err()
}
