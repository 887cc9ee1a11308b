package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/aaravmahajanofficial/storefront/docs"
	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/health"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/aaravmahajanofficial/storefront/internal/tracing"
	"github.com/aaravmahajanofficial/storefront/internal/view"
	"github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// @title			Storefront API
// @version		1.0
// @description	Read-only catalog API of the storefront.
// @BasePath		/api/v1
func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := tracing.Init(context.Background(), cfg.Otel)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup, runs the migrations
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	renderer, err := view.New()
	if err != nil {
		slog.Error("❌ Error parsing templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error setting up health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	sessionManager := session.NewManager(cfg.Security)
	sessionStore := session.NewStore(redisCache, sessionManager.TTL())
	sessions := middleware.NewSessions(sessionManager, sessionStore)
	rateLimiter := repository.NewRateLimitRepo(redisClient, cfg.RateConfig)

	// no api key, no confirmation emails
	var emailService sendgrid.EmailService
	if cfg.SendGrid.APIKey != "" {
		emailService = sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	}

	productService := service.NewProductService(repos.Products, redisCache, cfg.Cache.DefaultTTL)
	productHandler := handlers.NewProductHandler(productService, renderer)
	cartService := service.NewCartService(productService)
	cartHandler := handlers.NewCartHandler(cartService, renderer)
	userService := service.NewUserService(repos.Users, rateLimiter, validator.New())
	userHandler := handlers.NewUserHandler(userService, renderer)
	orderService := service.NewOrderService(repos.Transactor, repos.Products, repos.Orders, productService)
	notificationService := service.NewNotificationService(emailService)
	orderHandler := handlers.NewOrderHandler(orderService, userService, notificationService, renderer)

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Shop routes, all of them run with a session
	shopMux := http.NewServeMux()
	shopMux.Handle("GET /", productHandler.Home())
	shopMux.Handle("GET /register", userHandler.RegisterPage())
	shopMux.Handle("POST /register", userHandler.Register())
	shopMux.Handle("GET /login", userHandler.LoginPage())
	shopMux.Handle("POST /login", userHandler.Login())
	shopMux.Handle("GET /logout", middleware.RequireAuth(userHandler.Logout()))
	shopMux.Handle("GET /add_to_cart/{product_id}", middleware.RequireAuth(cartHandler.AddToCart()))
	shopMux.Handle("GET /cart", middleware.RequireAuth(cartHandler.ViewCart()))
	shopMux.Handle("GET /checkout", middleware.RequireAuth(orderHandler.Checkout()))
	shopMux.Handle("GET /orders", middleware.RequireAuth(orderHandler.ListOrders()))
	shopMux.Handle("GET /orders/{id}", middleware.RequireAuth(orderHandler.GetOrder()))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.Handle("/", sessions.Load(shopMux))
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Middleware chaining, the last one wraps the outermost
	var handler http.Handler = routerMux
	handler = middleware.Recover(handlers.PanicPage(renderer))(handler)
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "storefront")

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {

		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}
}
