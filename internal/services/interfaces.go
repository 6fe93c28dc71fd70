package services

import (
	"context"

	"museumbot/internal/domain/models"
)

// MuseumCatalog is the read-only slot-definition lookup.
type MuseumCatalog interface {
	FindByName(name string) (models.Museum, error)
	FindByLocation(location string) ([]models.Museum, error)
	ListAll() ([]models.Museum, error)
	DistinctLocations() ([]string, error)
}

// BookingStore is the durable booking repository. InsertCompleted must
// evaluate the capacity condition and the write as one indivisible
// operation.
type BookingStore interface {
	SumCompletedSeats(slot models.Slot) (int, error)
	InsertCompleted(b models.Booking, capacity int) error
	FindByTicket(ticketNumber string) (models.Booking, error)
	DeleteByTicket(ticketNumber string) error
	ListForDay(museum, date string) ([]models.Booking, error)
}

// VerificationGateway issues and checks one-time codes.
type VerificationGateway interface {
	IssueCode(ctx context.Context, phoneNumber string) (requestID string, err error)
	CheckCode(ctx context.Context, phoneNumber, code string) (approved bool, err error)
}

// PaymentChecker reports whether a payment transaction went through.
// The reference implementation is a mock; only the success/failure
// signal matters to the core.
type PaymentChecker interface {
	Verify(ctx context.Context, transactionID string) (success bool, err error)
}

// BookingFeed receives commit/cancel notifications, e.g. for the admin
// live dashboard. Implementations must not block.
type BookingFeed interface {
	BookingCommitted(b models.Booking)
	BookingCancelled(b models.Booking)
}
