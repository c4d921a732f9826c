// File: database/repository/booking/bookingMongoQueries.go
package bookingRepo

import (
	"errors"
	"fmt"
	"time"

	"cutesalon/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, err)
	}
	return &booking, nil
}

// GetBySessionRef retrieves the booking attached to a checkout session.
func (r *MongoBookingRepo) GetBySessionRef(sessionRef string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"session_ref": sessionRef}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking for session %s: %w", sessionRef, err)
	}
	return &booking, nil
}

// ListUpcoming returns all live bookings ascending by start. CANCELED and
// REFUNDED bookings are skipped: they no longer occupy their interval, so
// showing them would render a freed slot as unavailable.
func (r *MongoBookingRepo) ListUpcoming() ([]models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"status": bson.M{"$in": liveStatuses}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// CountRecentByEmail counts bookings for the email whose scheduled start is
// after the given instant.
func (r *MongoBookingRepo) CountRecentByEmail(email string, since time.Time) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"email": email,
		"start": bson.M{"$gt": since},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent bookings for %s: %w", email, err)
	}
	return count, nil
}

// UpdateStatusFrom performs a guarded compare-and-set on the status field.
func (r *MongoBookingRepo) UpdateStatusFrom(id, from, to string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update status for booking %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

// SetSessionRef attaches a payment-gateway session reference to the booking.
func (r *MongoBookingRepo) SetSessionRef(id, sessionRef string) error {
	return r.setField(id, "session_ref", sessionRef)
}

// SetCalendarRef attaches an external calendar event reference to the booking.
func (r *MongoBookingRepo) SetCalendarRef(id, calendarRef string) error {
	return r.setField(id, "calendar_ref", calendarRef)
}

func (r *MongoBookingRepo) setField(id, field, value string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("failed to set %s for booking %s: %w", field, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes bookings whose end has already passed.
func (r *MongoBookingRepo) DeleteExpired(now time.Time) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"end": bson.M{"$lt": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired bookings: %w", err)
	}
	return res.DeletedCount, nil
}

// DeleteStalePending removes PENDING bookings created before the cutoff.
func (r *MongoBookingRepo) DeleteStalePending(cutoff time.Time) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"status":     models.StatusPending,
		"created_at": bson.M{"$lt": cutoff},
	}
	res, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale pending bookings: %w", err)
	}
	return res.DeletedCount, nil
}

// DeleteFinishedBefore removes bookings whose end predates the cutoff.
func (r *MongoBookingRepo) DeleteFinishedBefore(cutoff time.Time) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"end": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to purge finished bookings: %w", err)
	}
	return res.DeletedCount, nil
}
