package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	intconfig "museumbot/internal/config"
	"museumbot/internal/domain"
	"museumbot/internal/domain/models"
)

// Schema:
//
//	CREATE TABLE bookings (
//	    id              BIGINT AUTO_INCREMENT PRIMARY KEY,
//	    museum          VARCHAR(191) NOT NULL,
//	    visit_date      CHAR(10)     NOT NULL,
//	    session         VARCHAR(16)  NOT NULL,
//	    seats           INT          NOT NULL,
//	    visitors        JSON         NOT NULL,
//	    children_under5 INT          NOT NULL DEFAULT 0,
//	    mobile_number   VARCHAR(16)  NOT NULL,
//	    ticket_number   VARCHAR(32)  NOT NULL,
//	    total_price     BIGINT       NOT NULL,
//	    payment_status  VARCHAR(16)  NOT NULL,
//	    transaction_id  VARCHAR(64)  NOT NULL DEFAULT '',
//	    created_at      TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    KEY slot_idx (museum, visit_date, session)
//	);
//
// ticket_number carries no UNIQUE constraint: uniqueness of generated
// tickets is probabilistic (64 random bits). Adding the constraint is
// the hardening path if collisions ever matter.
const bookingColumns = `id, museum, visit_date, session, seats, visitors,
		children_under5, mobile_number, ticket_number, total_price,
		payment_status, COALESCE(transaction_id,'')`

type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// SumCompletedSeats recomputes the live booked total for a slot. It is
// never cached or maintained as a counter; the table is the source of
// truth.
func (r BookingRepo) SumCompletedSeats(slot models.Slot) (int, error) {
	var booked int
	err := r.db().QueryRow(`
		SELECT COALESCE(SUM(seats),0) FROM bookings
		WHERE museum=? AND visit_date=? AND session=? AND payment_status=?`,
		slot.Museum, slot.Date, slot.Session, models.PaymentCompleted,
	).Scan(&booked)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return booked, nil
}

// InsertCompleted writes a completed booking only if the slot still has
// room. The capacity check and the insert are one statement, so two
// competing conversations cannot both slip past the check: the SELECT
// part takes shared locks on the slot's rows for the duration of the
// insert.
func (r BookingRepo) InsertCompleted(b models.Booking, capacity int) error {
	visitors, err := json.Marshal(b.Visitors)
	if err != nil {
		return domain.InternalError{Err: err}
	}

	res, err := r.db().Exec(`
		INSERT INTO bookings
			(museum, visit_date, session, seats, visitors, children_under5,
			 mobile_number, ticket_number, total_price, payment_status, transaction_id)
		SELECT ?,?,?,?,?,?,?,?,?,?,?
		FROM DUAL
		WHERE (SELECT COALESCE(SUM(seats),0) FROM bookings
		        WHERE museum=? AND visit_date=? AND session=? AND payment_status=?) + ? <= ?`,
		b.Museum, b.VisitDate, b.Session, b.Seats, visitors, b.ChildrenUnder5,
		b.MobileNumber, b.TicketNumber, b.TotalPrice, models.PaymentCompleted, b.TransactionID,
		b.Museum, b.VisitDate, b.Session, models.PaymentCompleted, b.Seats, capacity,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if affected == 0 {
		booked, sumErr := r.SumCompletedSeats(models.Slot{Museum: b.Museum, Date: b.VisitDate, Session: b.Session})
		available := capacity - booked
		if sumErr != nil || available < 0 {
			available = 0
		}
		return domain.CapacityError{
			Museum:    b.Museum,
			Date:      b.VisitDate,
			Session:   b.Session,
			Requested: b.Seats,
			Available: available,
		}
	}
	return nil
}

func (r BookingRepo) FindByTicket(ticketNumber string) (models.Booking, error) {
	ticketNumber = strings.TrimSpace(ticketNumber)
	if ticketNumber == "" {
		return models.Booking{}, domain.ValidationError{Field: "ticket_number", Msg: "empty"}
	}

	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE ticket_number=? LIMIT 1`, ticketNumber)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking"}
		}
		return models.Booking{}, domain.InternalError{Err: err}
	}
	return b, nil
}

// DeleteByTicket removes a booking on cancellation. Returns NotFound
// when no row matched, with zero mutations performed.
func (r BookingRepo) DeleteByTicket(ticketNumber string) error {
	res, err := r.db().Exec(`DELETE FROM bookings WHERE ticket_number=?`, strings.TrimSpace(ticketNumber))
	if err != nil {
		return domain.InternalError{Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if affected == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

// ListForDay returns a museum's bookings for one date, ordered by
// session then insertion order. Used by the admin views.
func (r BookingRepo) ListForDay(museum, date string) ([]models.Booking, error) {
	rows, err := r.db().Query(`
		SELECT `+bookingColumns+` FROM bookings
		WHERE museum=? AND visit_date=?
		ORDER BY session, id`,
		strings.TrimSpace(museum), strings.TrimSpace(date),
	)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return out, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var b models.Booking
	var visitors []byte
	err := row.Scan(
		&b.ID,
		&b.Museum,
		&b.VisitDate,
		&b.Session,
		&b.Seats,
		&visitors,
		&b.ChildrenUnder5,
		&b.MobileNumber,
		&b.TicketNumber,
		&b.TotalPrice,
		&b.PaymentStatus,
		&b.TransactionID,
	)
	if err != nil {
		return b, err
	}
	if len(visitors) > 0 {
		if err := json.Unmarshal(visitors, &b.Visitors); err != nil {
			return b, err
		}
	}
	return b, nil
}
