package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourcab/auth"
	"tourcab/booking"
	"tourcab/catalog"
	"tourcab/config"
	dbt "tourcab/db/db"
	"tourcab/db/mem"
	"tourcab/mq/goch"
	"tourcab/notify"
	"tourcab/trip"
)

const (
	ownerEmail    = "owner@example.com"
	adminPassword = "correct horse"
)

type mailbox struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (m *mailbox) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *mailbox) sent() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Message(nil), m.msgs...)
}

type testServer struct {
	router *gin.Engine
	deps   *Deps
	mail   *mailbox
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)

	cfg := config.Config{
		TimeZone:           time.UTC,
		AdminEmails:        []string{ownerEmail},
		JWTSecret:          "test-secret",
		SessionTTL:         time.Hour,
		RateLimit:          "1000-H",
		SuggestionLimit:    6,
		SuggestionDebounce: 10 * time.Millisecond,
	}
	store := mem.NewInMemoryBookingDBWrapper()
	queue := goch.NewGoChanBookingMessageQueue(goch.DefaultBufferSize)
	t.Cleanup(func() { queue.Close() })
	mail := &mailbox{}

	deps := &Deps{
		IsDev:    true,
		Config:   cfg,
		DB:       store,
		Queue:    queue,
		Notifier: mail,
		Bookings: booking.NewService(store,
			booking.WithQueue(queue),
			booking.WithNotifier(mail),
			booking.WithLocation(cfg.TimeZone),
		),
		Matcher:    trip.NewMatcher(catalog.Reference(), trip.WithLimit(cfg.SuggestionLimit)),
		Tokens:     auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL),
		Passwords:  auth.NewPasswordAuthenticator(hash),
		Google:     auth.NewGoogleVerifier(""),
		Authorizer: auth.AllowList(cfg.AdminEmails...),
	}
	r, err := NewRouter(deps)
	require.NoError(t, err)
	return &testServer{router: r, deps: deps, mail: mail}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/admin/login", loginRequest{Email: email, Password: adminPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func futureDate() string {
	return time.Now().UTC().AddDate(0, 1, 0).Format(time.DateOnly)
}

func validBooking() bookingRequest {
	return bookingRequest{
		Destinations: []string{"Mirissa Beach", "Yala National Park"},
		Date:         futureDate(),
		Vehicle:      "van",
		Passengers:   4,
		Contact: trip.Contact{
			Name:    "Nimal Perera",
			Email:   "nimal@example.com",
			Phone:   "+94 77 123 4567",
			Country: "Sri Lanka",
		},
	}
}

func (s *testServer) createBooking(t *testing.T) dbt.Booking {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/bookings", validBooking(), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var b dbt.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return b
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestPublicReadEndpoints(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		path  string
		check func(t *testing.T, body []byte)
	}{
		{
			name: "health",
			path: "/health",
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"status":"ok"}`, string(body))
			},
		},
		{
			name: "catalog keeps entry order",
			path: "/api/catalog",
			check: func(t *testing.T, body []byte) {
				var entries []catalog.Entry
				require.NoError(t, json.Unmarshal(body, &entries))
				require.Len(t, entries, 6)
				assert.Equal(t, catalog.CategoryBeach, entries[0].Keyword)
				assert.Equal(t, catalog.CategoryAdventure, entries[5].Keyword)
			},
		},
		{
			name: "suggestions by keyword",
			path: "/api/suggestions?q=beach",
			check: func(t *testing.T, body []byte) {
				var list []catalog.Destination
				require.NoError(t, json.Unmarshal(body, &list))
				require.NotEmpty(t, list)
				assert.Equal(t, "Unawatuna Beach", list[0].Name)
			},
		},
		{
			name: "blank suggestions",
			path: "/api/suggestions?q=",
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `[]`, string(body))
			},
		},
		{
			name: "vehicles",
			path: "/api/vehicles",
			check: func(t *testing.T, body []byte) {
				var opts []catalog.VehicleOption
				require.NoError(t, json.Unmarshal(body, &opts))
				assert.Len(t, opts, 4)
			},
		},
		{
			name: "special packages only",
			path: "/api/packages?special=true",
			check: func(t *testing.T, body []byte) {
				var pkgs []catalog.TourPackage
				require.NoError(t, json.Unmarshal(body, &pkgs))
				require.NotEmpty(t, pkgs)
				for _, p := range pkgs {
					assert.True(t, p.Special, p.ID)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.path, nil, "")
			require.Equal(t, http.StatusOK, w.Code)
			tt.check(t, w.Body.Bytes())
		})
	}
}

func TestCreateBooking(t *testing.T) {
	s := newTestServer(t)

	b := s.createBooking(t)
	assert.Equal(t, dbt.StatusPending, b.Status)
	assert.Equal(t, dbt.KindCustomTrip, b.Kind)
	assert.Equal(t, "van", b.Vehicle)
	require.Len(t, b.Destinations, 2)
	assert.Equal(t, "Mirissa Beach", b.Destinations[0].Name)

	s.deps.Bookings.Wait()
	sent := s.mail.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Custom Trip Request from Nimal Perera", sent[0].Subject)
}

func TestCreateBooking_Rejected(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		mutate   func(r *bookingRequest)
		wantCode string
	}{
		{name: "missing date", mutate: func(r *bookingRequest) { r.Date = "" }, wantCode: "missing_date"},
		{name: "no destinations", mutate: func(r *bookingRequest) { r.Destinations = nil }, wantCode: "missing_destination"},
		{name: "past date", mutate: func(r *bookingRequest) { r.Date = "2020-01-01" }, wantCode: "date_in_past"},
		{name: "bad date format", mutate: func(r *bookingRequest) { r.Date = "01/02/2030" }, wantCode: "invalid_date"},
		{name: "unknown destination", mutate: func(r *bookingRequest) { r.Destinations = []string{"Atlantis"} }, wantCode: "unknown_destination"},
		{name: "unknown vehicle", mutate: func(r *bookingRequest) { r.Vehicle = "tuk-tuk" }, wantCode: "invalid_vehicle"},
		{name: "missing contact", mutate: func(r *bookingRequest) { r.Contact.Phone = " " }, wantCode: "missing_contact"},
		{name: "bad email", mutate: func(r *bookingRequest) { r.Contact.Email = "nimal" }, wantCode: "invalid_email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBooking()
			tt.mutate(&req)
			w := s.do(t, http.MethodPost, "/api/bookings", req, "")
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			body := decodeError(t, w)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotEmpty(t, body["request_id"])
		})
	}

	list, err := s.deps.Bookings.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreatePackageBooking(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/bookings/package", packageBookingRequest{
		PackageID: "hill-country-escape",
		Contact:   validBooking().Contact,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var b dbt.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Equal(t, dbt.KindPackage, b.Kind)
	assert.Equal(t, 1, b.Passengers)

	w = s.do(t, http.MethodPost, "/api/bookings/package", packageBookingRequest{
		PackageID: "moon-landing",
		Contact:   validBooking().Contact,
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unknown_package", decodeError(t, w)["code"])
}

func TestSendEmail(t *testing.T) {
	valid := map[string]any{
		"type":          "contact",
		"name":          "Nimal",
		"email":         "nimal@example.com",
		"contactNumber": "+94 77 123 4567",
		"country":       "Sri Lanka",
		"message":       "Do you pick up from the airport?",
	}
	with := func(key string, v any) map[string]any {
		m := make(map[string]any, len(valid))
		for k, val := range valid {
			m[k] = val
		}
		if v == nil {
			delete(m, key)
		} else {
			m[key] = v
		}
		return m
	}

	tests := []struct {
		name       string
		body       any
		sendErr    error
		wantStatus int
		wantMsg    string
		wantSent   int
	}{
		{name: "sent", body: valid, wantStatus: http.StatusOK, wantMsg: "Email sent successfully", wantSent: 1},
		{name: "missing country", body: with("country", nil), wantStatus: http.StatusBadRequest, wantMsg: "Missing required fields"},
		{name: "blank name", body: with("name", "   "), wantStatus: http.StatusBadRequest, wantMsg: "Missing required fields"},
		{name: "malformed json is a client error not a relay failure", body: `{"type":`, wantStatus: http.StatusBadRequest, wantMsg: "Missing required fields"},
		{name: "invalid email", body: with("email", "not-an-email"), wantStatus: http.StatusBadRequest, wantMsg: "Invalid email address"},
		{name: "relay failure", body: valid, sendErr: errors.New("smtp down"), wantStatus: http.StatusInternalServerError, wantMsg: "Failed to send email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.mail.err = tt.sendErr

			w := s.do(t, http.MethodPost, "/api/send-email", tt.body, "")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, w)["message"])
			sent := s.mail.sent()
			require.Len(t, sent, tt.wantSent)
			if tt.wantSent > 0 {
				assert.Equal(t, "Contact Form Message from Nimal", sent[0].Subject)
				assert.Equal(t, "nimal@example.com", sent[0].ReplyTo)
			}
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))

	w = s.do(t, http.MethodGet, "/health", nil, "")
	assert.Len(t, w.Header().Get(requestIDHeader), 36)
}

func TestLimiterMiddleware_InvalidRate(t *testing.T) {
	_, err := limiterMiddleware("lots", "")
	assert.Error(t, err)
}

func TestCorsConfig(t *testing.T) {
	conf := CorsConfig([]string{"https://tourcab.lk"})
	assert.Equal(t, []string{"https://tourcab.lk"}, conf.AllowOrigins)
	assert.True(t, conf.AllowCredentials)

	open := CorsConfig(nil)
	require.NotNil(t, open.AllowOriginFunc)
	assert.True(t, open.AllowOriginFunc("http://localhost:5173"))
}

func TestPreflightAllowsPatch(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/admin/bookings/x/status", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "PATCH"))
}
