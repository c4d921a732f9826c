package models

import "time"

// Booking status values. A booking only ever moves forward:
// PENDING -> PAID, PENDING -> CANCELED, PAID -> REFUNDED.
const (
	StatusPending  = "PENDING"
	StatusPaid     = "PAID"
	StatusCanceled = "CANCELED"
	StatusRefunded = "REFUNDED"
)

// IsTerminalStatus reports whether no further transition is defined for s.
func IsTerminalStatus(s string) bool {
	return s == StatusCanceled || s == StatusRefunded
}

// TreatmentSelection is the immutable snapshot of one selected treatment,
// taken at booking time.
type TreatmentSelection struct {
	Name   string  `bson:"name" json:"name"`
	Price  float64 `bson:"price" json:"price"`
	Parent string  `bson:"parent,omitempty" json:"parent,omitempty"` // parent-category label for child options
}

// Booking represents an appointment record.
type Booking struct {
	ID          string               `bson:"id" json:"id"`                                        // Unique booking identifier (UUID)
	Name        string               `bson:"name" json:"name"`                                    // Customer name
	Email       string               `bson:"email" json:"email"`                                  // Customer email (rate-limit key)
	Phone       string               `bson:"phone" json:"phone"`                                  // Customer phone number
	Start       time.Time            `bson:"start" json:"start"`                                  // Appointment start
	End         time.Time            `bson:"end" json:"end"`                                      // Appointment end; end-start equals summed treatment durations
	Treatments  []TreatmentSelection `bson:"treatments" json:"treatments"`                        // Snapshot of selected treatments
	Total       float64              `bson:"total" json:"total"`                                  // Sum of treatment prices (GBP)
	Status      string               `bson:"status" json:"status"`                                // PENDING, PAID, CANCELED or REFUNDED
	SessionRef  string               `bson:"session_ref,omitempty" json:"sessionRef,omitempty"`   // Payment-gateway checkout session, set once a pay-now flow starts
	CalendarRef string               `bson:"calendar_ref,omitempty" json:"calendarRef,omitempty"` // External calendar event id
	CreatedAt   time.Time            `bson:"created_at" json:"createdAt"`                         // Creation instant, drives stale-hold expiry
}

// BookingRequest is the payload accepted by the create endpoint. Duration is
// always computed server-side from the treatment names, never trusted.
type BookingRequest struct {
	Name       string               `json:"name"`
	Email      string               `json:"email"`
	Phone      string               `json:"phonenumber"`
	Date       string               `json:"date"` // ISO-8601 start instant
	Treatments []TreatmentSelection `json:"treatments"`
	Total      float64              `json:"total"`
}

// BookedInterval is the public availability view of a booking.
type BookedInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CancelResult reports the outcome of a cancel request.
type CancelResult struct {
	Refunded bool `json:"refunded"`
}
