package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

// Repository defines booking data access. The store offers per-document
// atomicity only: Insert relies on the partial unique multikey index over
// (setup_id, date, slots) for confirmed bookings, so a multi-slot booking
// claims every covered slot in one atomic write. Both Update methods are
// conditioned on the revision captured at read time.
type Repository interface {
	Insert(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	UpdateInterval(ctx context.Context, id uuid.UUID, revision int64, date string, start, end int, slots []int) (*Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, revision int64, status Status) (*Booking, error)
	ListConfirmedForDay(ctx context.Context, setupID uuid.UUID, date string) ([]*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Booking, error)
	ListByDate(ctx context.Context, date string) ([]*Booking, error)
}

type repository struct {
	coll *mongo.Collection
}

// NewRepository creates new booking repository
func NewRepository(coll *mongo.Collection) Repository {
	return &repository{coll: coll}
}

type bookingDoc struct {
	ID            string    `bson:"_id"`
	SetupID       string    `bson:"setup_id"`
	UserID        string    `bson:"user_id"`
	CustomerName  string    `bson:"customer_name"`
	CustomerEmail string    `bson:"customer_email"`
	Date          string    `bson:"date"`
	Start         int       `bson:"start"`
	End           int       `bson:"end"`
	Slots         []int     `bson:"slots"`
	Players       int       `bson:"players"`
	Price         float64   `bson:"price"`
	Status        string    `bson:"status"`
	Revision      int64     `bson:"revision"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func toDoc(b *Booking) *bookingDoc {
	return &bookingDoc{
		ID:            b.ID.String(),
		SetupID:       b.SetupID.String(),
		UserID:        b.UserID.String(),
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		Date:          b.Date,
		Start:         b.Start,
		End:           b.End,
		Slots:         b.Slots,
		Players:       b.Players,
		Price:         b.Price,
		Status:        string(b.Status),
		Revision:      b.Revision,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (d *bookingDoc) toEntity() (*Booking, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	setupID, err := uuid.Parse(d.SetupID)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, err
	}
	return &Booking{
		ID:            id,
		SetupID:       setupID,
		UserID:        userID,
		CustomerName:  d.CustomerName,
		CustomerEmail: d.CustomerEmail,
		Date:          d.Date,
		Start:         d.Start,
		End:           d.End,
		Slots:         d.Slots,
		Players:       d.Players,
		Price:         d.Price,
		Status:        Status(d.Status),
		Revision:      d.Revision,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}

// Insert writes a new confirmed booking. A duplicate-key rejection from the
// partial unique index is the store telling us a concurrent create won the
// slot first.
func (r *repository) Insert(ctx context.Context, b *Booking) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, toDoc(b))
	if mongo.IsDuplicateKeyError(err) {
		return ErrSlotConflict
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc bookingDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toEntity()
}

// UpdateInterval moves a confirmed booking to a new date/interval, guarded by
// the caller's revision token. An unmatched filter means the token went stale
// (or the booking was cancelled); a duplicate-key rejection means the target
// slot was claimed concurrently.
func (r *repository) UpdateInterval(ctx context.Context, id uuid.UUID, revision int64, date string, start, end int, slots []int) (*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc bookingDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String(), "revision": revision, "status": string(StatusConfirmed)},
		bson.M{
			"$set": bson.M{
				"date":       date,
				"start":      start,
				"end":        end,
				"slots":      slots,
				"updated_at": time.Now().UTC(),
			},
			"$inc": bson.M{"revision": 1},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrStaleBooking
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrSlotConflict
	}
	if err != nil {
		return nil, err
	}
	return doc.toEntity()
}

// UpdateStatus transitions booking status, guarded by the revision token
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, revision int64, status Status) (*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc bookingDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String(), "revision": revision},
		bson.M{
			"$set": bson.M{
				"status":     string(status),
				"updated_at": time.Now().UTC(),
			},
			"$inc": bson.M{"revision": 1},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrStaleBooking
	}
	if err != nil {
		return nil, err
	}
	return doc.toEntity()
}

func (r *repository) ListConfirmedForDay(ctx context.Context, setupID uuid.UUID, date string) ([]*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{
		"setup_id": setupID.String(),
		"date":     date,
		"status":   string(StatusConfirmed),
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodeAll(ctx, cur)
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx,
		bson.M{"user_id": userID.String()},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "start", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodeAll(ctx, cur)
}

func (r *repository) ListByDate(ctx context.Context, date string) ([]*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{}
	if date != "" {
		filter["date"] = date
	}

	cur, err := r.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodeAll(ctx, cur)
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]*Booking, error) {
	var bookings []*Booking
	for cur.Next(ctx) {
		var doc bookingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		b, err := doc.toEntity()
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, cur.Err()
}
