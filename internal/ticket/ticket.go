// Package ticket renders booking confirmations as single-page PDF tickets.
package ticket

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/phpdave11/gofpdf"
)

const dateLayout = "02 Jan 2006 15:04 MST"

type Renderer struct {
	location *time.Location
}

// NewRenderer prints booking dates in loc; nil means UTC.
func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{location: loc}
}

// Filename is the download name used for a booking's ticket.
func Filename(pnr string) string {
	return fmt.Sprintf("ticket_%s.pdf", pnr)
}

func (r *Renderer) Render(b domain.BookingSummary) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Flight Ticket "+b.PNR, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, b.Airline, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "E-TICKET", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s  ->  %s", b.DepartureCity, b.ArrivalCity), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	rows := [][2]string{
		{"Passenger", b.PassengerName},
		{"Flight", b.FlightID},
		{"PNR", b.PNR},
		{"Booking ID", b.BookingID},
		{"Final price", "INR " + domain.FormatMinor(b.FinalPrice)},
		{"Booked on", b.BookingDate.In(r.location).Format(dateLayout)},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 8, row[0], "B", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, row[1], "B", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Please carry a valid photo ID. Boarding closes 25 minutes before departure.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render ticket %s: %w", b.PNR, err)
	}
	return buf.Bytes(), Filename(b.PNR), nil
}
