package web

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"tourcab/config"
	dbt "tourcab/db/db"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

func CorsConfig(origins []string) cors.Config {
	corsConf := cors.DefaultConfig()
	if len(origins) == 0 {
		corsConf.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsConf.AllowOrigins = origins
	}
	corsConf.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConf.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Requested-With", requestIDHeader}
	corsConf.ExposeHeaders = []string{requestIDHeader, "Content-Disposition"}
	corsConf.AllowCredentials = true
	corsConf.MaxAge = 1 * 3600 // 1 hour
	return corsConf
}

// limiterMiddleware limits requests per client IP. The counters live in
// redis when redisURL is set so several instances share them.
func limiterMiddleware(formatted, redisURL string) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", formatted, err)
	}

	var store limiter.Store
	if redisURL == "" {
		store = memory.NewStore()
	} else {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		store, err = sredis.NewStoreWithOptions(redis.NewClient(opts), limiter.StoreOptions{
			Prefix: config.AppName + "_limiter",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
		}
	}

	return mgin.NewMiddleware(limiter.New(store, rate)), nil
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// requestLogger writes one structured line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		slog.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestID(c),
			"client_ip", c.ClientIP(),
		)
	}
}

// DataLoaderInjectionMiddleware gives every request its own batching loader.
func DataLoaderInjectionMiddleware(wrapper dbt.BookingDBWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		loader := dbt.NewBookingDataLoader(wrapper)
		c.Request = c.Request.WithContext(dbt.WithDataLoader(c.Request.Context(), loader))
		c.Next()
	}
}

func setupMiddlewares(r *gin.Engine, deps *Deps) {
	r.Use(requestIDMiddleware())
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(cors.New(CorsConfig(deps.Config.CORSOrigins)))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/planner/ws", "/api/admin/feed"})))
	r.Use(secure.New(secure.Config{
		IsDevelopment:        deps.IsDev,
		STSSeconds:           31536000, // 1 year
		STSIncludeSubdomains: true,
		FrameDeny:            true,
		ContentTypeNosniff:   true,
		BrowserXssFilter:     true,
		ReferrerPolicy:       "strict-origin-when-cross-origin",
	}))
	r.Use(DataLoaderInjectionMiddleware(deps.DB))
}
