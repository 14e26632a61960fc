package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	goahttp "goa.design/goa/v3/http"
	"goa.design/goa/v3/http/middleware"
	"golang.org/x/sync/errgroup"

	"xconsultation/internal/config"
	"xconsultation/internal/database"
	"xconsultation/internal/logger"
	"xconsultation/internal/metrics"
	"xconsultation/internal/notify"
	"xconsultation/internal/ratelimit"
	"xconsultation/internal/server"
	"xconsultation/internal/services"
	"xconsultation/internal/store"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.Bool("debug", cfg.App.Debug),
		zap.String("host", cfg.App.Host),
		zap.String("port", cfg.App.Port),
		zap.String("email_provider", cfg.Email.Provider),
	)

	db, err := database.Open(cfg.Database, log.Named("database"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		log.Info("closing database connections")
		if err := database.Close(db); err != nil {
			log.Warn("error closing database", zap.Error(err))
		}
	}()

	gateway, err := notify.New(cfg.Email, log)
	if err != nil {
		return fmt.Errorf("failed to initialize email gateway: %w", err)
	}

	// Create service instances
	recordStore := store.NewGormStore(db)
	mailer := services.NewMailer(gateway, cfg.Email)
	contactSvc := services.NewContactService(recordStore, mailer, log)
	appointmentSvc := services.NewAppointmentService(recordStore, mailer, log)
	healthSvc := services.NewHealthService(db, cfg.App.Name, log)

	endpoints := server.NewEndpoints(contactSvc, appointmentSvc, healthSvc)
	mux := goahttp.NewMuxer()

	errorHandler := func(ctx context.Context, w http.ResponseWriter, err error) {
		log.Error("failed to encode response", zap.Error(err))
	}

	srv := server.New(endpoints, mux, goahttp.RequestDecoder, goahttp.ResponseEncoder, errorHandler, log)
	srv.Use(middleware.RequestID(middleware.UseXRequestIDHeaderOption(true)))
	srv.Use(middleware.PopulateRequestContext())

	limiter, err := ratelimit.New(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limiter: %w", err)
	}
	if limiter != nil {
		defer limiter.Close()
		trusted, err := ratelimit.NewTrustedProxies(cfg.RateLimit.TrustedProxies)
		if err != nil {
			return fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := limiter.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable, submissions are not rate limited until it recovers", zap.Error(err))
		}
		cancel()
		srv.UseSubmissions(server.RateLimit(limiter, trusted, goahttp.ResponseEncoder, log))
		log.Info("rate limiting enabled",
			zap.Int("requests", cfg.RateLimit.Requests),
			zap.Duration("window", cfg.RateLimit.Window),
		)
	}

	srv.Mount(mux)
	for _, m := range srv.Mounts {
		log.Debug("mounted", zap.String("method", m.Method), zap.String("verb", m.Verb), zap.String("pattern", m.Pattern))
	}

	// /metrics goes to Prometheus, everything else to the goa mux
	metricsHandler := promhttp.Handler()
	rootHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			metricsHandler.ServeHTTP(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})

	// Security -> CORS -> Logging -> Prometheus -> Handler
	instrumented := metrics.PrometheusMiddleware(rootHandler,
		server.PathSubmitContact,
		server.PathSubmitQuickAppointment,
		server.PathUpdateDateTime,
		server.PathListAppointments,
		server.PathHealth,
	)
	handler := setupSecurityHeaders(setupCORS(requestLogging(instrumented, log), cfg), cfg)

	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     zap.NewStdLog(log.Named("http")),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("graceful shutdown failed, forcing close", zap.Error(err))
			_ = httpServer.Close()
			return err
		}
		if err := mailer.Wait(shutdownCtx); err != nil {
			log.Warn("pending notifications abandoned", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server shutdown complete")
	return nil
}

// setupSecurityHeaders adds security headers to responses
func setupSecurityHeaders(handler http.Handler, cfg *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// HSTS (only in production with HTTPS)
		if !cfg.App.Debug && r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		handler.ServeHTTP(w, r)
	})
}

// setupCORS only lets the configured front-ends call the API from a browser
func setupCORS(handler http.Handler, cfg *config.Config) http.Handler {
	allowAll := len(cfg.CORS.AllowedOrigins) > 0 && cfg.CORS.AllowedOrigins[0] == "*"
	allowed := make(map[string]bool, len(cfg.CORS.AllowedOrigins))
	for _, o := range cfg.CORS.AllowedOrigins {
		allowed[strings.TrimSuffix(o, "/")] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			handler.ServeHTTP(w, r)
			return
		}

		if !cfg.App.Debug && !allowAll && !allowed[origin] {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.CORS.AllowedMethods, ", "))
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.CORS.AllowedHeaders, ", "))
		w.Header().Set("Access-Control-Expose-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", fmt.Sprintf("%d", cfg.CORS.MaxAge))
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		handler.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// requestLogging logs all incoming requests and their responses
func requestLogging(handler http.Handler, log *zap.Logger) http.Handler {
	log = log.Named("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip health checks and scrapes to reduce noise
		if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
			handler.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler.ServeHTTP(wrapped, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", wrapped.statusCode),
			zap.Duration("duration", time.Since(start)),
		}
		if wrapped.statusCode >= http.StatusInternalServerError {
			log.Warn("request completed", fields...)
			return
		}
		log.Info("request completed", fields...)
	})
}
