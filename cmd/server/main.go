package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/nbang/internal/auth"
	"github.com/mmynk/nbang/internal/metrics"
	"github.com/mmynk/nbang/internal/middleware"
	"github.com/mmynk/nbang/internal/service"
	"github.com/mmynk/nbang/internal/storage/sqlite"
	"github.com/mmynk/nbang/pkg/api/apiconnect"
	"github.com/mmynk/nbang/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		slog.Warn("Ignoring invalid duration", "key", key, "value", value)
		return fallback
	}
	return d
}

func main() {
	logger := logging.Setup()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		slog.Error("Invalid PORT", "error", err)
		os.Exit(1)
	}
	dbPath := getEnv("DB_PATH", "./data/nbang.db")
	jwtTTL := getEnvDuration("JWT_TTL", 24*time.Hour)
	shareTTL := getEnvDuration("SHARE_LINK_TTL", service.DefaultShareLinkTTL)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = randomSecret()
		slog.Warn("JWT_SECRET not set; using a random secret, sessions will not survive a restart")
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	jwtManager := auth.NewJWTManager(jwtSecret, jwtTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	m := metrics.New()

	// Logging and metrics wrap auth, so rejected calls are recorded too.
	common := []connect.Interceptor{
		middleware.LoggingInterceptor(logger),
		middleware.MetricsInterceptor(m),
	}
	withAuth := func(interceptor connect.Interceptor) connect.HandlerOption {
		return connect.WithInterceptors(append(common[:len(common):len(common)], interceptor)...)
	}

	mux := http.NewServeMux()

	mux.Handle(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, store),
		withAuth(middleware.OptionalAuth(jwtManager)),
	))
	mux.Handle(apiconnect.NewGatheringServiceHandler(
		service.NewGatheringService(store),
		withAuth(middleware.RequireAuth(jwtManager)),
	))
	mux.Handle(apiconnect.NewCalculationServiceHandler(
		service.NewCalculationService(store, m, shareTTL),
		withAuth(middleware.RequireAuth(jwtManager, apiconnect.CalculationServiceGetSharedSettlementProcedure)),
	))

	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})

	// Add logging and CORS middleware
	handler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// loggingMiddleware logs every HTTP request at debug level. RPC outcomes are
// logged by the Connect interceptor.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
