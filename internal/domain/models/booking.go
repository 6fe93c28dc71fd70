package models

// Payment status values a booking moves through. A booking row only
// counts against slot capacity once it is completed.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Visitor is one named entrant on a booking.
type Visitor struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// Booking is the durable record of a confirmed visit. Immutable once
// completed, except for deletion on cancellation.
type Booking struct {
	ID             int64     `json:"id"`
	Museum         string    `json:"museum"`
	VisitDate      string    `json:"date"`
	Session        string    `json:"session"`
	Seats          int       `json:"seats"`
	Visitors       []Visitor `json:"visitors"`
	ChildrenUnder5 int       `json:"children_under_5"`
	MobileNumber   string    `json:"mobile_number"`
	TicketNumber   string    `json:"ticket_number"`
	TotalPrice     int64     `json:"total_price"`
	PaymentStatus  string    `json:"payment_status"`
	TransactionID  string    `json:"transaction_id"`
}

// Slot identifies one capacity pool.
type Slot struct {
	Museum  string `json:"museum"`
	Date    string `json:"date"`
	Session string `json:"session"`
}

// Availability is the live view of a slot's capacity.
type Availability struct {
	Capacity  int `json:"capacity"`
	Booked    int `json:"booked"`
	Available int `json:"available"`
}
