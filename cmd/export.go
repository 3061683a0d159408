package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tourcab/booking"
	dbt "tourcab/db/db"
	"tourcab/db/pg"
)

var exportHeader = []string{"id", "created_at", "status", "kind", "name", "email", "phone", "country", "trip_date", "passengers", "vehicle", "package", "destinations", "notes"}

func exportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "export bookings to a CSV file",
		Long:    `Reads every booking from postgres, newest first, and writes one CSV row per booking. Without --output the CSV goes to stdout.`,
		Example: `tourcab export --output bookings.csv --status pending`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputPath, _ := cmd.Flags().GetString("output")
			statusFlag, _ := cmd.Flags().GetString("status")

			var status dbt.Status
			if statusFlag != "" {
				s, err := dbt.ParseStatus(statusFlag)
				if err != nil {
					return err
				}
				status = s
			}

			gdb, err := pg.InitPostgresGORM(pg.CreateDSN())
			if err != nil {
				return err
			}
			defer pg.CloseGORM(gdb)

			list, err := booking.NewService(pg.NewGORMBookingDBWrapper(gdb)).List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list bookings: %w", err)
			}

			out := cmd.OutOrStdout()
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return err
				}
				defer func() {
					if err := f.Close(); err != nil {
						slog.Error("failed to close output file", "path", outputPath, "err", err)
					}
				}()
				out = f
			}

			n, err := writeBookingsCSV(out, list, status)
			if err != nil {
				return err
			}
			slog.Info("bookings exported", "rows", n, "output", outputPath)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "csv output file path (default stdout)")
	cmd.Flags().String("status", "", "only export bookings with this status")
	return cmd
}

// writeBookingsCSV writes a header and one row per booking. A non-empty
// status keeps only matching bookings. It returns the number of rows written.
func writeBookingsCSV(w io.Writer, bookings []dbt.Booking, status dbt.Status) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, err
	}

	n := 0
	for _, b := range bookings {
		if status != "" && b.Status != status {
			continue
		}
		names := make([]string, len(b.Destinations))
		for i, d := range b.Destinations {
			names[i] = d.Name
		}
		var date string
		if !b.TripDate.IsZero() {
			date = b.TripDate.Format(time.DateOnly)
		}
		row := []string{
			b.ID.String(),
			b.CreatedAt.UTC().Format(time.RFC3339),
			string(b.Status),
			string(b.Kind),
			b.Name,
			b.Email,
			b.Phone,
			b.Country,
			date,
			strconv.Itoa(b.Passengers),
			b.Vehicle,
			b.PackageTitle,
			strings.Join(names, "; "),
			b.Notes,
		}
		if err := cw.Write(row); err != nil {
			return n, fmt.Errorf("row %d: %w", n+2, err)
		}
		n++
	}
	cw.Flush()
	return n, cw.Error()
}
