package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

const (
	collectionSlots    = "availability_slots"
	collectionBookings = "bookings"
)

type SlotRepository struct {
	col *mongo.Collection
}

func NewSlotRepository(db *mongo.Database) *SlotRepository {
	return &SlotRepository{col: db.Collection(collectionSlots)}
}

func (r *SlotRepository) Create(ctx context.Context, s *domain.AvailabilitySlot) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert slot: %w", err)
	}
	return nil
}

func (r *SlotRepository) FindByID(ctx context.Context, id string) (*domain.AvailabilitySlot, error) {
	var s domain.AvailabilitySlot
	if err := findOne(ctx, r.col, bson.M{"_id": id}, &s, domain.ErrSlotNotFound); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SlotRepository) List(ctx context.Context, f ports.SlotFilter) ([]*domain.AvailabilitySlot, error) {
	filter := bson.M{}
	if f.StaffID != "" {
		filter["staff_id"] = f.StaffID
	}
	if f.Location != "" {
		filter["location"] = f.Location
	}
	if !f.From.IsZero() {
		filter["start"] = bson.M{"$gte": f.From}
	}
	return findAll[domain.AvailabilitySlot](ctx, r.col, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
}

// Reserve increments booked only while booked < capacity, so concurrent
// bookings can never oversubscribe a slot.
func (r *SlotRepository) Reserve(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": slotID, "$expr": bson.M{"$lt": bson.A{"$booked", "$capacity"}}},
		bson.M{"$inc": bson.M{"booked": 1}},
	)
	if err != nil {
		return fmt.Errorf("reserve slot: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": slotID})
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrSlotNotFound
		}
		return domain.ErrSlotFull
	}
	return nil
}

func (r *SlotRepository) Release(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": slotID, "booked": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"booked": -1}},
	)
	return err
}

func (r *SlotRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{Keys: bson.D{{Key: "staff_id", Value: 1}, {Key: "start", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "start", Value: 1}}},
	)
}

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(collectionBookings)}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id, clientID string) (*domain.Booking, error) {
	filter := bson.M{"_id": id}
	if clientID != "" {
		filter["client_id"] = clientID
	}
	var b domain.Booking
	if err := findOne(ctx, r.col, filter, &b, domain.ErrBookingNotFound); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	return replaceByID(ctx, r.col, b.ID, b, domain.ErrBookingNotFound)
}

func (r *BookingRepository) List(ctx context.Context, f ports.BookingFilter) ([]*domain.Booking, error) {
	filter := bson.M{}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.StaffID != "" {
		filter["staff_id"] = f.StaffID
	}
	return findAll[domain.Booking](ctx, r.col, filter, options.Find().SetSort(bson.D{{Key: "start", Value: -1}}))
}

func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "start", Value: -1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "staff_id", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "slot_id", Value: 1}}},
	)
}
