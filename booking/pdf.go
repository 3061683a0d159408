package booking

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phpdave11/gofpdf"

	"tourcab/catalog"
	"tourcab/config"
	dbt "tourcab/db/db"
)

// WriteSummaryPDF renders a one page summary of booking id to w.
func (s *Service) WriteSummaryPDF(ctx context.Context, id uuid.UUID, w io.Writer) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return writeSummary(b, s.now().In(s.location), w)
}

// SummaryFilename is the download name for a booking summary.
func SummaryFilename(id uuid.UUID) string {
	return fmt.Sprintf("%s_booking_%s.pdf", config.AppName, strings.SplitN(id.String(), "-", 2)[0])
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func writeSummary(b *dbt.Booking, generated time.Time, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Summary", false)
	pdf.SetCreator(config.AppName, false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING SUMMARY")
	pdf.Ln(12)

	date := "-"
	if !b.TripDate.IsZero() {
		date = b.TripDate.Format("Monday, 2 January 2006")
	}
	trip := "Custom trip"
	if b.Kind == dbt.KindPackage {
		trip = "Package: " + b.PackageTitle
	}
	vehicle := "-"
	if b.Vehicle != "" {
		vehicle = catalog.Vehicle(b.Vehicle).Label()
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking      : %s", b.ID),
		fmt.Sprintf("Status       : %s", b.Status),
		fmt.Sprintf("Trip         : %s", trip),
		fmt.Sprintf("Date         : %s", date),
		fmt.Sprintf("Vehicle      : %s", vehicle),
		fmt.Sprintf("Passengers   : %d", b.Passengers),
		fmt.Sprintf("Name         : %s", orDash(b.Name)),
		fmt.Sprintf("Email        : %s", orDash(b.Email)),
		fmt.Sprintf("Phone        : %s", orDash(b.Phone)),
		fmt.Sprintf("Country      : %s", orDash(b.Country)),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, tr(s))
		pdf.Ln(7)
	}

	if len(b.Destinations) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Destinations")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for i, d := range b.Destinations {
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s (%s)", i+1, d.Name, catalog.Category(d.Category).Label())), "", "", false)
		}
	}

	if b.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, tr("Notes: "+b.Notes), "", "", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, "Generated "+generated.Format("2006-01-02 15:04 MST"))

	return pdf.Output(w)
}
