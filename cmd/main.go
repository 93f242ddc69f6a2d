package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"swiftbites.app/storefront/internal/catalog"
	"swiftbites.app/storefront/internal/checkout"
	"swiftbites.app/storefront/internal/insights"
	"swiftbites.app/storefront/internal/inventory"
	"swiftbites.app/storefront/internal/orders"
	"swiftbites.app/storefront/internal/router"
	"swiftbites.app/storefront/pkg/ai"
	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/logger"
	"swiftbites.app/storefront/pkg/mongo"
	"swiftbites.app/storefront/pkg/notify"
	"swiftbites.app/storefront/pkg/postgres"
	"swiftbites.app/storefront/pkg/redis"
	"swiftbites.app/storefront/pkg/storage"
)

const (
	startupTimeout  = time.Minute
	shutdownTimeout = 15 * time.Second
)

func main() {
	envErr := godotenv.Load()

	cfg, err := global.LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Environment: cfg.Environment,
	})
	if envErr != nil {
		log.Warn("no .env file loaded, using process environment", "error", envErr)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *global.Config, log *slog.Logger) error {
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	pool, err := postgres.Connect(startCtx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := postgres.Migrate(startCtx, pool, log); err != nil {
		return err
	}

	catalogDB, err := mongo.Connect(startCtx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer catalogDB.Disconnect(context.Background())
	if err := catalogDB.EnsureIndexes(startCtx, log); err != nil {
		return err
	}
	log.Info("connected to MongoDB", "database", cfg.MongoDatabase)

	redisClient := redis.NewClient(cfg.RedisAddress, cfg.RedisPassword)
	defer redisClient.Close()
	carts := redis.NewCartStore(redisClient, cfg.CartTTL)
	if err := carts.Ping(startCtx); err != nil {
		log.Warn("redis unreachable, server carts unavailable until it recovers", "address", cfg.RedisAddress, "error", err)
	}

	images, err := storage.New(startCtx, cfg.S3BucketName, cfg.AWSRegion, log)
	if err != nil {
		return err
	}
	sms := notify.NewSMS(notify.SMSConfig{
		APIKey:      cfg.VonageAPIKey,
		APISecret:   cfg.VonageAPISecret,
		From:        cfg.SMSFrom,
		CountryCode: cfg.CountryCode,
	}, log)
	aiClient := ai.NewClient(cfg.AIEndpoint, cfg.AIAPIKey, cfg.AIDeployment, log)

	orderStore := postgres.NewOrderStore(pool)
	orderService := orders.NewService(orderStore, sms, log)

	adminHash, err := adminPasswordHash(cfg)
	if err != nil {
		return err
	}

	handler := router.NewHandler(router.Deps{
		Orders:    orderService,
		Menu:      catalog.NewService(mongo.NewMenuStore(catalogDB), images, log),
		Inventory: inventory.NewService(mongo.NewInventoryStore(catalogDB), aiClient, log),
		Insights:  insights.NewService(orderService, aiClient, log),
		Carts:     carts,
		Health: map[string]router.Pinger{
			"postgres": orderStore,
			"mongodb":  catalogDB,
			"redis":    carts,
		},
		Checkout:     checkout.Config{Currency: cfg.Currency, CountryCode: cfg.CountryCode},
		PaymentKeyID: cfg.RazorpayKeyID,
		Admin:        router.AdminCredentials{User: cfg.AdminUser, PasswordHash: adminHash},
	}, log)

	engine := router.NewEngine(router.EngineConfig{
		Production:  cfg.IsProduction(),
		CORSOrigins: cfg.CORSOrigins,
	}, log)
	handler.InitializeRoutes(engine)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server is running", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down http server", "error", err)
	}
	if err := orderService.Drain(shutdownCtx); err != nil {
		log.Warn("pending notifications abandoned", "error", err)
	}
	return nil
}

// adminPasswordHash prefers a precomputed bcrypt hash. A plain password is
// hashed at startup; with neither set the admin routes stay locked.
func adminPasswordHash(cfg *global.Config) ([]byte, error) {
	if cfg.AdminPasswordHash != "" {
		return []byte(cfg.AdminPasswordHash), nil
	}
	if cfg.AdminPassword == "" {
		return nil, nil
	}
	return bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
}
