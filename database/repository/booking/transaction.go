package bookingRepo

import (
	"context"
	"fmt"

	"cutesalon/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// liveStatuses are the statuses that occupy a slot. CANCELED and REFUNDED
// bookings no longer block their interval.
var liveStatuses = bson.A{models.StatusPending, models.StatusPaid}

// overlapFilter matches any live booking whose half-open interval intersects
// [start, end). A booking ending exactly when another starts is not a conflict.
func overlapFilter(b *models.Booking) bson.M {
	return bson.M{
		"start":  bson.M{"$lt": b.End},
		"end":    bson.M{"$gt": b.Start},
		"status": bson.M{"$in": liveStatuses},
	}
}

// CreateIfFree checks the proposed interval for conflicts and inserts the
// booking inside a single multi-document transaction, so two concurrent
// requests for overlapping intervals cannot both observe a free slot.
func (r *MongoBookingRepo) CreateIfFree(ctx context.Context, booking *models.Booking) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		count, err := r.coll.CountDocuments(sc, overlapFilter(booking))
		if err != nil {
			return fmt.Errorf("conflict check failed: %w", err)
		}
		if count > 0 {
			return ErrSlotTaken
		}

		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrSlotTaken {
			return ErrSlotTaken
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}

	return nil
}
