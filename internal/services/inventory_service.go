package services

import (
	"museumbot/internal/domain/models"
)

// InventoryService computes live availability for a slot. Booked is
// always the recomputed sum over completed bookings, never a counter
// that could drift from the source of truth.
type InventoryService struct {
	Museums  MuseumCatalog
	Bookings BookingStore
}

func (s InventoryService) Availability(slot models.Slot) (models.Availability, error) {
	museum, err := s.Museums.FindByName(slot.Museum)
	if err != nil {
		return models.Availability{}, err
	}
	booked, err := s.Bookings.SumCompletedSeats(slot)
	if err != nil {
		return models.Availability{}, err
	}
	available := museum.MaximumSeats - booked
	if available < 0 {
		available = 0
	}
	return models.Availability{
		Capacity:  museum.MaximumSeats,
		Booked:    booked,
		Available: available,
	}, nil
}
