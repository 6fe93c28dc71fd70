package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"museumbot/internal/domain/models"
	"museumbot/internal/utils"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// DocsService renders the ticket PDF and QR images for a committed
// booking. Rendering failures never affect the booking itself.
type DocsService struct{}

// BuildQRPNG encodes arbitrary content into a PNG QR image.
func BuildQRPNG(content string) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, 256)
}

// TicketQRPayload is the JSON embedded in the confirmation QR so gate
// staff can scan the booking details.
func TicketQRPayload(b models.Booking) string {
	names := make([]string, 0, len(b.Visitors))
	for _, v := range b.Visitors {
		names = append(names, v.Name)
	}
	payload, _ := json.Marshal(map[string]any{
		"ticketNumber":   b.TicketNumber,
		"museum":         b.Museum,
		"date":           b.VisitDate,
		"session":        b.Session,
		"seats":          b.Seats,
		"totalPrice":     b.TotalPrice,
		"visitors":       names,
		"childrenUnder5": b.ChildrenUnder5,
	})
	return string(payload)
}

// BuildTicketPDF renders the A4 e-ticket and returns its bytes plus a
// download filename.
func (s DocsService) BuildTicketPDF(convID string, b models.Booking) ([]byte, string, error) {
	utils.LogEvent(convID, "docs", "build_ticket", "ticket="+b.TicketNumber)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Museum Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 10, "Indian Museums")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, "Timed Visit E-Ticket")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Ticket Details")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Museum        : %s", b.Museum),
		fmt.Sprintf("Date          : %s", b.VisitDate),
		fmt.Sprintf("Session       : %s", b.Session),
		fmt.Sprintf("Ticket Number : %s", b.TicketNumber),
		fmt.Sprintf("Seats         : %d", b.Seats),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Visitors")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	for i, v := range b.Visitors {
		pdf.Cell(0, 7, fmt.Sprintf("%d. %s (Age: %d)", i+1, v.Name, v.Age))
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.Cell(0, 7, fmt.Sprintf("Children under 5 : %d", b.ChildrenUnder5))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Total Price      : %d INR", b.TotalPrice))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Payment Status   : %s", b.PaymentStatus))
	pdf.Ln(10)

	if png, err := BuildQRPNG(TicketQRPayload(b)); err == nil {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("ticket-qr", 150, 40, 40, 40, false, opts, 0, "")
	}

	pdf.SetY(270)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "This is an electronically generated document. No physical signature is required.", "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("ticket_%s.pdf", b.TicketNumber), nil
}
