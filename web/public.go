package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tourcab/booking"
	"tourcab/catalog"
	"tourcab/notify"
	"tourcab/trip"
)

type bookingRequest struct {
	Destinations []string     `json:"destinations"`
	Date         string       `json:"date"`
	Vehicle      string       `json:"vehicle"`
	Passengers   int          `json:"passengers"`
	Contact      trip.Contact `json:"contact"`
	Notes        string       `json:"notes"`
}

type packageBookingRequest struct {
	PackageID  string       `json:"packageId"`
	Date       string       `json:"date"`
	Passengers int          `json:"passengers"`
	Contact    trip.Contact `json:"contact"`
	Notes      string       `json:"notes"`
}

// parseDate accepts YYYY-MM-DD. An empty string is the zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, trip.ValidationError{Field: "date", Code: "invalid_date", Msg: "date must be formatted as YYYY-MM-DD"}
	}
	return d, nil
}

// draftFrom resolves destination names against the catalog and builds a draft.
func draftFrom(c *catalog.Catalog, req bookingRequest) (trip.Draft, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return trip.Draft{}, err
	}
	d := trip.Draft{
		Date:       date,
		Vehicle:    catalog.Vehicle(strings.ToLower(strings.TrimSpace(req.Vehicle))),
		Passengers: req.Passengers,
		Contact:    req.Contact,
		Notes:      req.Notes,
	}
	selection := trip.NewSelectionSet()
	for _, name := range req.Destinations {
		dest, ok := c.Lookup(name)
		if !ok {
			return trip.Draft{}, trip.ValidationError{Field: "destinations", Code: "unknown_destination", Msg: "unknown destination: " + name}
		}
		selection.Add(dest)
	}
	d.Destinations = selection.List()
	return d, nil
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) getCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Matcher.Catalog().Entries())
}

func (h *handler) getSuggestions(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Matcher.Suggest(c.Query("q")))
}

func (h *handler) getVehicles(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.VehicleOptions())
}

func (h *handler) getPackages(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.Packages(c.Query("special") == "true"))
}

func (h *handler) today() time.Time {
	return time.Now().In(h.deps.Config.TimeZone)
}

func (h *handler) createBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	draft, err := draftFrom(h.deps.Matcher.Catalog(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	tr, err := trip.Assemble(draft, h.today())
	if err != nil {
		handleError(c, err)
		return
	}
	b, err := h.deps.Bookings.Create(c.Request.Context(), tr)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *handler) createPackageBooking(c *gin.Context) {
	var req packageBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		handleError(c, err)
		return
	}
	b, err := h.deps.Bookings.BookPackage(c.Request.Context(), booking.PackageRequest{
		PackageID:  req.PackageID,
		Date:       date,
		Passengers: req.Passengers,
		Contact:    req.Contact,
		Notes:      req.Notes,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// sendEmail relays a website form to the owner. Its response shape is
// {"message": ...} for compatibility with the existing site.
func (h *handler) sendEmail(c *gin.Context) {
	var req notify.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 500 is kept for relay failures only
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}
	if err := req.Validate(); err != nil {
		msg := "Missing required fields"
		if errors.Is(err, notify.ErrInvalidEmail) {
			msg = "Invalid email address"
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	if err := h.deps.Notifier.Send(c.Request.Context(), notify.Compose(req)); err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to send email", "type", req.Type, "request_id", requestID(c), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email sent successfully"})
}
