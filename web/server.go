package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"tourcab/auth"
	"tourcab/booking"
	"tourcab/catalog"
	"tourcab/config"
	dbt "tourcab/db/db"
	"tourcab/db/mem"
	"tourcab/db/pg"
	"tourcab/mq/gcppubsub"
	"tourcab/mq/goch"
	"tourcab/mq/mq"
	"tourcab/mq/rabbit"
	"tourcab/notify"
	"tourcab/trip"
)

const shutdownTimeout = 10 * time.Second

type ServiceConfig struct {
	IsDev     bool
	Port      string
	StoreMode dbt.Mode
	MqMode    mq.Mode
}

// Deps is everything the routes need. Serve builds it from config; tests
// fill it by hand.
type Deps struct {
	IsDev      bool
	Config     config.Config
	DB         dbt.BookingDBWrapper
	Queue      mq.BookingMessageQueue
	Bookings   *booking.Service
	Matcher    *trip.Matcher
	Notifier   notify.Sender
	Tokens     *auth.TokenIssuer
	Passwords  *auth.PasswordAuthenticator
	Google     *auth.GoogleVerifier
	Authorizer auth.Authorizer
}

type handler struct {
	deps     *Deps
	upgrader websocket.Upgrader
	ws       wsTimeouts
}

// NewRouter wires middlewares and routes onto a new gin engine.
func NewRouter(deps *Deps) (*gin.Engine, error) {
	limit, err := limiterMiddleware(deps.Config.RateLimit, deps.Config.RedisURL)
	if err != nil {
		return nil, err
	}
	h := &handler{
		deps:     deps,
		upgrader: newUpgrader(deps.IsDev, deps.Config.CORSOrigins),
		ws:       defaultWSTimeouts,
	}

	r := gin.New()
	setupMiddlewares(r, deps)

	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/catalog", h.getCatalog)
	api.GET("/suggestions", h.getSuggestions)
	api.GET("/vehicles", h.getVehicles)
	api.GET("/packages", h.getPackages)
	api.POST("/bookings", limit, h.createBooking)
	api.POST("/bookings/package", limit, h.createPackageBooking)
	api.POST("/send-email", limit, h.sendEmail)
	api.GET("/planner/ws", h.plannerSocket)

	admin := api.Group("/admin")
	admin.POST("/login", limit, h.login)
	admin.POST("/login/google", limit, h.loginGoogle)
	admin.POST("/logout", h.logout)
	admin.GET("/me", h.me)

	protected := admin.Group("", h.requireAdmin())
	protected.GET("/bookings", h.listBookings)
	protected.GET("/bookings/:id", h.getBooking)
	protected.PATCH("/bookings/:id/status", h.updateStatus)
	protected.DELETE("/bookings/:id", h.deleteBooking)
	protected.GET("/bookings/:id/history", h.bookingHistory)
	protected.GET("/bookings/:id/summary.pdf", h.bookingSummary)
	protected.GET("/feed", h.adminFeed)

	return r, nil
}

func newStore(mode dbt.Mode) (dbt.BookingDBWrapper, func(), error) {
	switch mode {
	case dbt.ModeMemory, "":
		return mem.NewInMemoryBookingDBWrapper(), func() {}, nil
	case dbt.ModePostgres:
		gdb, err := pg.InitPostgresGORM(pg.CreateDSN())
		if err != nil {
			return nil, nil, err
		}
		return pg.NewGORMBookingDBWrapper(gdb), func() { pg.CloseGORM(gdb) }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store mode: %s", mode)
	}
}

func newQueue(ctx context.Context, mode mq.Mode) (mq.BookingMessageQueue, error) {
	switch mode {
	case mq.ModeGoChan, "":
		return goch.NewGoChanBookingMessageQueue(goch.DefaultBufferSize), nil
	case mq.ModeRabbitMQ:
		conn, err := rabbit.NewRabbitConnection(rabbit.CreateAmqpURL())
		if err != nil {
			return nil, err
		}
		return rabbit.NewRabbitBookingMessageQueue(conn)
	case mq.ModeGCPPubSub:
		projectID, err := gcppubsub.GetGCPProjectID()
		if err != nil {
			return nil, err
		}
		return gcppubsub.NewGCPBookingMessageQueue(ctx, projectID)
	default:
		return nil, fmt.Errorf("unknown mq mode: %s", mode)
	}
}

// newNotifier relays mail over SMTP when configured and only logs otherwise.
// Telegram forwarding is added on top and never fails a send.
func newNotifier(cfg config.Config) (notify.Sender, error) {
	var primary notify.Sender = notify.LogSender{}
	if cfg.SMTPEnabled() {
		s, err := notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.MailFrom,
			To:       cfg.MailTo,
		})
		if err != nil {
			return nil, err
		}
		primary = s
	} else {
		slog.Warn("SMTP is not configured, emails will only be logged")
	}

	if !cfg.TelegramEnabled() {
		return primary, nil
	}
	tg, err := notify.NewTelegramSender(cfg.TelegramBotToken, cfg.TelegramChatID)
	if err != nil {
		return nil, err
	}
	return notify.Multi{primary, notify.BestEffort("telegram", tg)}, nil
}

// Serve runs the HTTP server until SIGINT or SIGTERM.
func Serve(ctx context.Context, sc ServiceConfig, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !sc.IsDev {
		gin.SetMode(gin.ReleaseMode)
	}
	if sc.Port != "" {
		cfg.Port = sc.Port
	}

	store, closeStore, err := newStore(sc.StoreMode)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()

	queue, err := newQueue(ctx, sc.MqMode)
	if err != nil {
		return fmt.Errorf("failed to open message queue: %w", err)
	}
	defer func() {
		if err := queue.Close(); err != nil {
			slog.Error("failed to close message queue", "err", err)
		}
	}()

	notifier, err := newNotifier(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up notifications: %w", err)
	}

	deps := &Deps{
		IsDev:    sc.IsDev,
		Config:   cfg,
		DB:       store,
		Queue:    queue,
		Notifier: notifier,
		Bookings: booking.NewService(store,
			booking.WithQueue(queue),
			booking.WithNotifier(notifier),
			booking.WithLocation(cfg.TimeZone),
		),
		Matcher:    trip.NewMatcher(catalog.Reference(), trip.WithLimit(cfg.SuggestionLimit)),
		Tokens:     auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL),
		Passwords:  auth.NewPasswordAuthenticator(cfg.AdminPasswordHash),
		Google:     auth.NewGoogleVerifier(cfg.GoogleClientID),
		Authorizer: auth.AllowList(cfg.AdminEmails...),
	}
	r, err := NewRouter(deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "port", cfg.Port, "store", sc.StoreMode, "mq", sc.MqMode, "dev", sc.IsDev)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	deps.Bookings.Wait()
	return nil
}
