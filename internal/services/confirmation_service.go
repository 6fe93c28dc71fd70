package services

import (
	"context"
	"errors"
	"fmt"

	"museumbot/internal/domain"
	"museumbot/internal/domain/models"
	"museumbot/internal/utils"
)

// ErrPaymentDeclined marks a payment the checker reports as not gone
// through. The booking is rejected; the conversation may retry.
var ErrPaymentDeclined = errors.New("payment not verified")

// PaymentIssue is everything the conversation needs to present a
// payment request: the UPI deep link, its QR image and the transaction
// id that will later be verified.
type PaymentIssue struct {
	TransactionID string
	UPILink       string
	QRPNG         []byte
	Amount        int64
}

// CommitRequest carries a session's reservation intent into the
// commit step. Nothing here has been persisted yet.
type CommitRequest struct {
	ConvID         string
	Museum         string
	VisitDate      string
	Session        string
	Seats          int
	Visitors       []models.Visitor
	ChildrenUnder5 int
	MobileNumber   string
	TotalPrice     int64
	TransactionID  string
	CodeApproved   bool
}

// ConfirmationService drives a booking from reservation intent to a
// committed record or a rejection. A completed row is written only
// when the entered code was approved, the payment check succeeded and
// the slot still has room — the last check happens inside the store's
// conditional insert, so partial writes cannot occur.
type ConfirmationService struct {
	Museums  MuseumCatalog
	Bookings BookingStore
	Payments PaymentChecker
	Feed     BookingFeed
}

// IssuePayment generates the UPI link, QR image and transaction id for
// a reservation. No state is persisted.
func (s ConfirmationService) IssuePayment(museum models.Museum, amount int64) (PaymentIssue, error) {
	txn := NewTransactionID()
	link := UPILink(museum.UPIID, museum.Name, amount, fmt.Sprintf("Booking for %s", museum.Name))
	png, err := BuildQRPNG(link)
	if err != nil {
		return PaymentIssue{}, domain.InternalError{Msg: "payment QR generation failed", Err: err}
	}
	return PaymentIssue{
		TransactionID: txn,
		UPILink:       link,
		QRPNG:         png,
		Amount:        amount,
	}, nil
}

// Commit finalizes a booking. Order of checks: code approval (already
// performed by the gateway, recorded on the request), then the payment
// check, then the atomic conditional insert. Any failure leaves zero
// rows written.
func (s ConfirmationService) Commit(ctx context.Context, req CommitRequest) (models.Booking, error) {
	if !req.CodeApproved {
		return models.Booking{}, domain.ValidationError{Field: "verification", Msg: "code not approved"}
	}

	success, err := s.Payments.Verify(ctx, req.TransactionID)
	if err != nil {
		return models.Booking{}, domain.ExternalServiceError{Service: "payment", Err: err}
	}
	if !success {
		return models.Booking{}, ErrPaymentDeclined
	}

	museum, err := s.Museums.FindByName(req.Museum)
	if err != nil {
		return models.Booking{}, err
	}

	booking := models.Booking{
		Museum:         req.Museum,
		VisitDate:      req.VisitDate,
		Session:        req.Session,
		Seats:          req.Seats,
		Visitors:       req.Visitors,
		ChildrenUnder5: req.ChildrenUnder5,
		MobileNumber:   req.MobileNumber,
		TicketNumber:   NewTicketNumber(),
		TotalPrice:     req.TotalPrice,
		PaymentStatus:  models.PaymentCompleted,
		TransactionID:  req.TransactionID,
	}

	if err := s.Bookings.InsertCompleted(booking, museum.MaximumSeats); err != nil {
		return models.Booking{}, err
	}

	utils.LogEvent(req.ConvID, "booking", "commit",
		fmt.Sprintf("ticket=%s museum=%s date=%s session=%s seats=%d",
			booking.TicketNumber, booking.Museum, booking.VisitDate, booking.Session, booking.Seats))

	if s.Feed != nil {
		s.Feed.BookingCommitted(booking)
	}
	return booking, nil
}
