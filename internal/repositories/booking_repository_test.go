package repositories

import (
	"testing"

	"museumbot/internal/domain"
	"museumbot/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (BookingRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return BookingRepo{DB: db}, mock, func() { db.Close() }
}

func TestSumCompletedSeats(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(seats\),0\) FROM bookings`).
		WithArgs("Fort Museum", "2025-01-06", "12-2", models.PaymentCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(8))

	booked, err := repo.SumCompletedSeats(models.Slot{Museum: "Fort Museum", Date: "2025-01-06", Session: "12-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booked != 8 {
		t.Fatalf("booked = %d, want 8", booked)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertCompletedSucceedsWithinCapacity(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.InsertCompleted(models.Booking{
		Museum:        "Fort Museum",
		VisitDate:     "2025-01-06",
		Session:       "12-2",
		Seats:         2,
		Visitors:      []models.Visitor{{Name: "Asha", Age: 30}, {Name: "Ravi", Age: 28}},
		MobileNumber:  "9876543210",
		TicketNumber:  "AB12CD34EF56AB78",
		TotalPrice:    40,
		PaymentStatus: models.PaymentCompleted,
	}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertCompletedRejectsWhenSlotFull(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	// Conditional insert matches zero rows, then the live sum is read
	// once more to report the remainder. No other writes happen.
	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(seats\),0\) FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(8))

	err := repo.InsertCompleted(models.Booking{
		Museum:    "Fort Museum",
		VisitDate: "2025-01-06",
		Session:   "12-2",
		Seats:     3,
	}, 10)

	capErr, ok := domain.AsCapacity(err)
	if !ok {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if capErr.Available != 2 {
		t.Fatalf("available = %d, want 2", capErr.Available)
	}
	if capErr.Requested != 3 {
		t.Fatalf("requested = %d, want 3", capErr.Requested)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteByTicketNotFoundMutatesNothing(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectExec(`DELETE FROM bookings WHERE ticket_number=`).
		WithArgs("DOESNOTEXIST").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByTicket("DOESNOTEXIST")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindByTicketScansVisitors(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	cols := []string{"id", "museum", "visit_date", "session", "seats", "visitors",
		"children_under5", "mobile_number", "ticket_number", "total_price",
		"payment_status", "transaction_id"}
	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE ticket_number=`).
		WithArgs("AB12CD34EF56AB78").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			1, "Fort Museum", "2025-01-06", "12-2", 2,
			[]byte(`[{"name":"Asha","age":30},{"name":"Ravi","age":28}]`),
			0, "9876543210", "AB12CD34EF56AB78", 40,
			models.PaymentCompleted, "UPI1736000000ABCD",
		))

	b, err := repo.FindByTicket("AB12CD34EF56AB78")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Visitors) != 2 || b.Visitors[0].Name != "Asha" {
		t.Fatalf("visitors not decoded: %+v", b.Visitors)
	}
	if b.TotalPrice != 40 {
		t.Fatalf("total price = %d, want 40", b.TotalPrice)
	}
}
