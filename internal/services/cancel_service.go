package services

import (
	"fmt"

	"museumbot/internal/domain/models"
	"museumbot/internal/utils"
)

// CancelService looks up a booking by ticket number and deletes it.
// An unknown ticket performs zero mutations.
type CancelService struct {
	Bookings BookingStore
	Feed     BookingFeed
}

// CancelResult carries the deleted booking and the amount to quote in
// the refund notice.
type CancelResult struct {
	Booking      models.Booking
	RefundAmount int64
}

func (s CancelService) Cancel(convID, ticketNumber string) (CancelResult, error) {
	booking, err := s.Bookings.FindByTicket(ticketNumber)
	if err != nil {
		return CancelResult{}, err
	}
	if err := s.Bookings.DeleteByTicket(ticketNumber); err != nil {
		return CancelResult{}, err
	}

	utils.LogEvent(convID, "booking", "cancel",
		fmt.Sprintf("ticket=%s museum=%s refund=%d", booking.TicketNumber, booking.Museum, booking.TotalPrice))

	if s.Feed != nil {
		s.Feed.BookingCancelled(booking)
	}
	return CancelResult{Booking: booking, RefundAmount: booking.TotalPrice}, nil
}
