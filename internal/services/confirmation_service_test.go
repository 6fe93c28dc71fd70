package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"museumbot/internal/domain"
	"museumbot/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory BookingStore whose InsertCompleted applies
// the capacity condition and the write under one lock, mirroring the
// conditional-insert contract of the SQL repository.
type memStore struct {
	mu       sync.Mutex
	bookings []models.Booking
}

func (s *memStore) SumCompletedSeats(slot models.Slot) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumLocked(slot), nil
}

func (s *memStore) sumLocked(slot models.Slot) int {
	sum := 0
	for _, b := range s.bookings {
		if b.Museum == slot.Museum && b.VisitDate == slot.Date && b.Session == slot.Session &&
			b.PaymentStatus == models.PaymentCompleted {
			sum += b.Seats
		}
	}
	return sum
}

func (s *memStore) InsertCompleted(b models.Booking, capacity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot := models.Slot{Museum: b.Museum, Date: b.VisitDate, Session: b.Session}
	booked := s.sumLocked(slot)
	if booked+b.Seats > capacity {
		available := capacity - booked
		if available < 0 {
			available = 0
		}
		return domain.CapacityError{
			Museum: b.Museum, Date: b.VisitDate, Session: b.Session,
			Requested: b.Seats, Available: available,
		}
	}
	b.ID = int64(len(s.bookings) + 1)
	s.bookings = append(s.bookings, b)
	return nil
}

func (s *memStore) FindByTicket(ticket string) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.TicketNumber == ticket {
			return b, nil
		}
	}
	return models.Booking{}, domain.NotFoundError{Resource: "booking"}
}

func (s *memStore) DeleteByTicket(ticket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.bookings {
		if b.TicketNumber == ticket {
			s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
			return nil
		}
	}
	return domain.NotFoundError{Resource: "booking"}
}

func (s *memStore) ListForDay(museum, date string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Booking{}
	for _, b := range s.bookings {
		if b.Museum == museum && b.VisitDate == date {
			out = append(out, b)
		}
	}
	return out, nil
}

type memCatalog struct {
	museums []models.Museum
}

func (c memCatalog) FindByName(name string) (models.Museum, error) {
	for _, m := range c.museums {
		if m.Name == name {
			return m, nil
		}
	}
	return models.Museum{}, domain.NotFoundError{Resource: "museum"}
}

func (c memCatalog) FindByLocation(loc string) ([]models.Museum, error) {
	out := []models.Museum{}
	for _, m := range c.museums {
		if m.Location == loc {
			out = append(out, m)
		}
	}
	return out, nil
}

func (c memCatalog) ListAll() ([]models.Museum, error) { return c.museums, nil }

func (c memCatalog) DistinctLocations() ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for _, m := range c.museums {
		if !seen[m.Location] {
			seen[m.Location] = true
			out = append(out, m.Location)
		}
	}
	return out, nil
}

type fixedPayment struct {
	success bool
	err     error
}

func (p fixedPayment) Verify(ctx context.Context, txn string) (bool, error) {
	return p.success, p.err
}

func fortMuseum() models.Museum {
	return models.Museum{
		Name:         "Fort Museum",
		Location:     "Chennai",
		PricePerSeat: 20,
		UPIID:        "museum@upi",
		MaximumSeats: 10,
	}
}

func commitRequest(seats int) CommitRequest {
	return CommitRequest{
		ConvID:        "1001",
		Museum:        "Fort Museum",
		VisitDate:     "2025-01-06",
		Session:       "12-2",
		Seats:         seats,
		Visitors:      []models.Visitor{{Name: "Asha", Age: 30}},
		MobileNumber:  "9876543210",
		TotalPrice:    int64(seats) * 20,
		TransactionID: "UPI17360000001A2B",
		CodeApproved:  true,
	}
}

func TestCommitWritesCompletedBooking(t *testing.T) {
	store := &memStore{}
	svc := ConfirmationService{
		Museums:  memCatalog{museums: []models.Museum{fortMuseum()}},
		Bookings: store,
		Payments: fixedPayment{success: true},
	}

	booking, err := svc.Commit(context.Background(), commitRequest(2))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, booking.PaymentStatus)
	assert.Len(t, booking.TicketNumber, 16)

	booked, _ := store.SumCompletedSeats(models.Slot{Museum: "Fort Museum", Date: "2025-01-06", Session: "12-2"})
	assert.Equal(t, 2, booked)
}

func TestCommitRequiresCodeApproval(t *testing.T) {
	store := &memStore{}
	svc := ConfirmationService{
		Museums:  memCatalog{museums: []models.Museum{fortMuseum()}},
		Bookings: store,
		Payments: fixedPayment{success: true},
	}

	req := commitRequest(2)
	req.CodeApproved = false
	_, err := svc.Commit(context.Background(), req)
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, store.bookings, "no row may be written without code approval")
}

func TestCommitRejectsDeclinedPayment(t *testing.T) {
	store := &memStore{}
	svc := ConfirmationService{
		Museums:  memCatalog{museums: []models.Museum{fortMuseum()}},
		Bookings: store,
		Payments: fixedPayment{success: false},
	}

	_, err := svc.Commit(context.Background(), commitRequest(2))
	assert.True(t, errors.Is(err, ErrPaymentDeclined))
	assert.Empty(t, store.bookings, "declined payment must write nothing")
}

func TestCommitSurfacesPaymentCheckerFailure(t *testing.T) {
	store := &memStore{}
	svc := ConfirmationService{
		Museums:  memCatalog{museums: []models.Museum{fortMuseum()}},
		Bookings: store,
		Payments: fixedPayment{err: errors.New("gateway timeout")},
	}

	_, err := svc.Commit(context.Background(), commitRequest(2))
	assert.True(t, domain.IsExternal(err))
	assert.Empty(t, store.bookings)
}

func TestCommitRejectsWhenCapacityGone(t *testing.T) {
	store := &memStore{}
	store.bookings = append(store.bookings, models.Booking{
		Museum: "Fort Museum", VisitDate: "2025-01-06", Session: "12-2",
		Seats: 8, PaymentStatus: models.PaymentCompleted, TicketNumber: "EXISTING00000000",
	})
	svc := ConfirmationService{
		Museums:  memCatalog{museums: []models.Museum{fortMuseum()}},
		Bookings: store,
		Payments: fixedPayment{success: true},
	}

	_, err := svc.Commit(context.Background(), commitRequest(3))
	capErr, ok := domain.AsCapacity(err)
	require.True(t, ok, "expected CapacityError, got %v", err)
	assert.Equal(t, 2, capErr.Available)
	assert.Len(t, store.bookings, 1, "rejected commit must not write")
}

// Two conversations pass the entry-time availability check for the
// same slot, then both try to commit. The conditional insert must let
// at most one through.
func TestConcurrentCommitsCannotOvercommitSlot(t *testing.T) {
	store := &memStore{}
	svc := ConfirmationService{
		Museums:  memCatalog{museums: []models.Museum{fortMuseum()}},
		Bookings: store,
		Payments: fixedPayment{success: true},
	}

	inv := InventoryService{Museums: svc.Museums, Bookings: store}
	slot := models.Slot{Museum: "Fort Museum", Date: "2025-01-06", Session: "12-2"}

	// Both pass the entry check: 0 booked, 6 <= 10.
	for range 2 {
		avail, err := inv.Availability(slot)
		require.NoError(t, err)
		require.GreaterOrEqual(t, avail.Available, 6)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Commit(context.Background(), commitRequest(6))
		}()
	}
	wg.Wait()

	committed := 0
	for _, err := range errs {
		if err == nil {
			committed++
		} else {
			assert.True(t, domain.IsCapacity(err), "loser must fail with CapacityError, got %v", err)
		}
	}
	assert.Equal(t, 1, committed, "exactly one of the competing commits may succeed")

	booked, _ := store.SumCompletedSeats(slot)
	assert.LessOrEqual(t, booked, 10, "capacity invariant violated")
}

func TestInventoryAvailabilityClampsToZero(t *testing.T) {
	store := &memStore{}
	store.bookings = append(store.bookings, models.Booking{
		Museum: "Fort Museum", VisitDate: "2025-01-06", Session: "12-2",
		Seats: 12, PaymentStatus: models.PaymentCompleted,
	})
	inv := InventoryService{Museums: memCatalog{museums: []models.Museum{fortMuseum()}}, Bookings: store}

	avail, err := inv.Availability(models.Slot{Museum: "Fort Museum", Date: "2025-01-06", Session: "12-2"})
	require.NoError(t, err)
	assert.Equal(t, 0, avail.Available)
	assert.Equal(t, 12, avail.Booked)
}

func TestCancelUnknownTicketMutatesNothing(t *testing.T) {
	store := &memStore{}
	svc := CancelService{Bookings: store}

	_, err := svc.Cancel("1001", "DOESNOTEXIST")
	assert.True(t, domain.IsNotFound(err))
	assert.Empty(t, store.bookings)
}

func TestCancelDeletesAndReportsRefund(t *testing.T) {
	store := &memStore{}
	store.bookings = append(store.bookings, models.Booking{
		Museum: "Fort Museum", TicketNumber: "AB12CD34EF56AB78", TotalPrice: 40,
		PaymentStatus: models.PaymentCompleted,
	})
	svc := CancelService{Bookings: store}

	res, err := svc.Cancel("1001", "AB12CD34EF56AB78")
	require.NoError(t, err)
	assert.Equal(t, int64(40), res.RefundAmount)
	assert.Empty(t, store.bookings)
}
