package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "shuttlebook/internal/config"
	"shuttlebook/internal/domain/models"
	"shuttlebook/internal/repositories"
	"shuttlebook/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// TicketService renders the e-ticket PDF for a confirmed booking.
type TicketService struct {
	BookingRepo   repositories.BookingRepo
	PassengerRepo repositories.PassengerRepo
	DepartureRepo repositories.DepartureRepo
	DB            *sql.DB
	RequestID     string
}

func (s TicketService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s TicketService) departures() repositories.DepartureRepo {
	if s.DepartureRepo.DB != nil {
		return s.DepartureRepo
	}
	return repositories.DepartureRepo{DB: s.db()}
}

// GenerateETicket builds the PDF and a download filename.
func (s TicketService) GenerateETicket(ctx context.Context, ref string) ([]byte, string, error) {
	reservations := ReservationService{
		BookingRepo:   s.BookingRepo,
		PassengerRepo: s.PassengerRepo,
		DepartureRepo: s.DepartureRepo,
		DB:            s.db(),
		RequestID:     s.RequestID,
	}
	booking, passengers, err := reservations.GetBooking(ctx, ref)
	if err != nil {
		return nil, "", err
	}
	snap, err := s.departures().GetSnapshot(ctx, s.db(), booking.DepartureID)
	if err != nil {
		return nil, "", err
	}

	utils.LogEvent(s.RequestID, "ticket", "generate_eticket", "ref="+booking.Reference)
	return buildETicketPDF(booking, passengers, snap)
}

func buildETicketPDF(b models.Booking, passengers []models.Passenger, snap models.DepartureSnapshot) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking ref : %s", b.Reference),
		fmt.Sprintf("Status      : %s", b.Status),
		fmt.Sprintf("Route       : %s -> %s", safe(snap.RouteFrom, "-"), safe(snap.RouteTo, "-")),
		fmt.Sprintf("Date/time   : %s %s", safe(snap.TravelDate, "-"), safe(snap.DepartTime, "-")),
		fmt.Sprintf("Seats       : %d", b.PassengerCount),
		fmt.Sprintf("Total       : %s", utils.FormatMoney(b.TotalPrice)),
		fmt.Sprintf("Contact     : %s / %s", safe(b.ContactEmail, "-"), safe(b.ContactPhone, "-")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for i, p := range passengers {
		pdf.Cell(0, 6, fmt.Sprintf("%d) %s %s", i+1, p.FirstName, p.LastName))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this e-ticket at departure. One ticket covers the whole party.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(b.Reference))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
