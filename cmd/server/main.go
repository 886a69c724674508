// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"optihub/internal/api/httpjson"
	"optihub/internal/config"
	couponrepository "optihub/internal/coupon/repository"
	couponservice "optihub/internal/coupon/service"
	fraudrepository "optihub/internal/fraud/repository"
	fraudservice "optihub/internal/fraud/service"
	fraudhttp "optihub/internal/fraud/transport/http"
	"optihub/internal/logger"
	"optihub/internal/metrics"
	paymentservice "optihub/internal/payment/service"
	paymenthttp "optihub/internal/payment/transport/http"
	"optihub/internal/plan"
	subscriptionrepository "optihub/internal/subscription/repository"
	subscriptionservice "optihub/internal/subscription/service"
	subscriptionhttp "optihub/internal/subscription/transport/http"
	"optihub/pkg/db"
	"optihub/pkg/middleware"
)

var server *http.Server

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer zlog.Sync()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	zlog.Info("connected to PostgreSQL")

	metrics.InitMetrics()

	// --- layer wiring ---
	usageRepo := couponrepository.NewPostgresUsageRepository(database)
	eventRepo := fraudrepository.NewPostgresEventRepository(database)
	subRepo := subscriptionrepository.NewPostgresSubscriptionRepository(database)
	txRepo := subscriptionrepository.NewPostgresTransactionRepository(database)

	couponSvc := couponservice.NewService(usageRepo, zlog)
	fraudSvc := fraudservice.NewService(usageRepo, eventRepo, zlog)
	subSvc := subscriptionservice.NewService(subRepo, txRepo, usageRepo, zlog)

	gateway := paymentservice.NewGatewayHTTPClient(
		cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewayKeySecret, cfg.GatewayTimeout, zlog)
	orderSvc := paymentservice.NewService(gateway, subSvc, usageRepo, cfg.Currency, zlog)

	paymentHandler := paymenthttp.NewHandler(couponSvc, orderSvc, cfg.GatewayKeyID, zlog)
	fraudHandler := fraudhttp.NewHandler(fraudSvc, zlog)
	subHandler := subscriptionhttp.NewHandler(subSvc, zlog)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow, zlog)

	// --- router ---
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://localhost:3000", "http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.NetworkOrigin)
	r.Use(limiter.Middleware)
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.ValidateRequest)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics",
		middleware.BasicAuth(cfg.MetricsUser, cfg.MetricsPass)(promhttp.Handler()))
	r.Get("/api/plans", func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"plans":   plan.All(),
		})
	})

	// Protected routes
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.JWTAuth(cfg.JWTSecret))

		pr.Post("/api/payment/order", paymentHandler.CreateOrder)
		pr.Post("/api/payment/subscription/free", paymentHandler.CreateFreeSubscription)
		pr.Get("/api/security/ip-check", fraudHandler.CheckIpRestriction)
		pr.Get("/api/subscription", subHandler.GetSubscription)
	})

	server = &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	zlog.Info("server running", zap.String("addr", cfg.Addr))

	// Graceful shutdown on OS signals
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		zlog.Info("shutdown signal received, starting graceful shutdown")
		shutdownServer(zlog)
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("server failed", zap.Error(err))
	}
}

func shutdownServer(zlog *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}

	zlog.Info("server stopped")
}
