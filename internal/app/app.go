package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/email"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/memory"
	mongoadapter "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/mongo"
	natsadapter "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/nats"
	redisadapter "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/redis"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/storage/minio"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/textgen"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/tracer"
	grpcserver "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/port/grpc"
	httpserver "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/port/http"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/repository"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// userStore is satisfied by both user repositories: favorites live on the user.
type userStore interface {
	repository.UserRepository
	repository.FavoriteStore
}

type repositories struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    userStore
	shops    repository.ShopRepository
}

type App struct {
	cfg            *config.Config
	log            logger.Logger
	httpServer     *httpserver.Server
	grpcServer     *grpcserver.Server
	metricsServer  *metrics.Server
	favorites      service.FavoritesManager
	tracerProvider *sdktrace.TracerProvider
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	publisher      *natsadapter.Publisher
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, Storage=%s, HTTP Port: %s, GRPC Port: %s",
		cfg.Env, cfg.Storage, cfg.HTTPServer.Port, cfg.GRPCServer.Port)

	application := &App{cfg: cfg, log: appLogger}
	// Partially built resources are released if a later step fails.
	ok := false
	defer func() {
		if !ok {
			application.closeResources(ctx)
		}
	}()

	application.tracerProvider, err = tracer.Init(cfg.ServiceName, cfg.Tracing.OTLPEndpoint, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	appMetrics := metrics.New("marketplace")

	rate, err := decimal.NewFromString(cfg.Pricing.BuyerProtectionRate)
	if err != nil {
		return nil, fmt.Errorf("invalid buyer protection rate %q: %w", cfg.Pricing.BuyerProtectionRate, err)
	}
	shippingFee, err := decimal.NewFromString(cfg.Pricing.DefaultShippingFee)
	if err != nil {
		return nil, fmt.Errorf("invalid default shipping fee %q: %w", cfg.Pricing.DefaultShippingFee, err)
	}

	repos, err := application.initRepositories(ctx)
	if err != nil {
		return nil, err
	}

	var productCache repository.ProductCache
	if cfg.Redis.Addr != "" {
		appLogger.Info("Initializing Redis client...")
		application.redisClient, err = redisadapter.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
		}
		productCache = redisadapter.NewProductCache(application.redisClient)
		appLogger.Info("Redis product cache initialized")
	}

	var images service.ImageStorage
	if cfg.MinIO.Endpoint != "" {
		storage, err := minio.NewImageStorage(ctx, cfg.MinIO, appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize image storage: %w", err)
		}
		images = storage
		appLogger.Infof("MinIO image storage initialized, bucket %s", cfg.MinIO.Bucket)
	}

	var generator service.TextGenerator
	if cfg.TextGen.APIKey != "" {
		client, err := textgen.NewClient(ctx, cfg.TextGen)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize text generation: %w", err)
		}
		generator = client
		appLogger.Infof("Text generation client initialized for model %s", cfg.TextGen.Model)
	}

	catalog := service.NewCatalogService(repos.products, repos.shops, repos.users, productCache, cfg.ProductCache.TTL, images, appLogger)
	ledger := service.NewOrderLedger(repos.orders, rate, appMetrics, appLogger)
	favorites := service.NewFavoritesManager(repos.users, repos.products, cfg.Favorites.ReconcileTimeout, appMetrics, appLogger)
	descriptions := service.NewDescriptionService(generator, appLogger)
	application.favorites = favorites

	ledger.Subscribe(service.NewProductStatusUpdater(catalog, appLogger))

	if cfg.SMTP.Host != "" {
		sender, err := email.NewSMTPSender(cfg.SMTP, appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SMTP sender: %w", err)
		}
		ledger.Subscribe(service.NewShippingNotifier(repos.users, sender, appLogger))
		appLogger.Infof("Shipping notifications enabled via %s", cfg.SMTP.Host)
	}

	if cfg.NATS.URL != "" {
		conn, err := natsadapter.NewConnection(cfg.NATS, cfg.ServiceName, appLogger)
		if err != nil {
			return nil, err
		}
		application.publisher, err = natsadapter.NewPublisher(conn, appLogger)
		if err != nil {
			conn.Close()
			return nil, err
		}
		ledger.Subscribe(service.NewEventForwarder(application.publisher))
		appLogger.Infof("Order events forwarded to NATS at %s", cfg.NATS.URL)
	}

	handler := httpserver.NewHandler(httpserver.HandlerDeps{
		Catalog:      catalog,
		Orders:       ledger,
		Favorites:    favorites,
		Descriptions: descriptions,
		Tokens:       httpserver.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL),
		ShippingFee:  shippingFee,
		Log:          appLogger,
	})
	application.httpServer = httpserver.NewServer(
		cfg.HTTPServer.Port,
		httpserver.NewRouter(handler, appMetrics, appLogger),
		cfg.HTTPServer.ReadTimeout,
		cfg.HTTPServer.WriteTimeout,
		cfg.HTTPServer.IdleTimeout,
		appLogger,
	)
	application.grpcServer = grpcserver.NewServer(
		appLogger,
		cfg.ServiceName,
		cfg.GRPCServer.Port,
		cfg.GRPCServer.TimeoutGraceful,
		cfg.GRPCServer.MaxConnectionIdle,
	)
	application.metricsServer = metrics.NewServer(cfg.Metrics.Port, appMetrics.Registry, appLogger)
	appLogger.Info("Servers created")

	ok = true
	return application, nil
}

func (a *App) initRepositories(ctx context.Context) (*repositories, error) {
	switch a.cfg.Storage {
	case config.StorageMemory:
		ds := memory.Dataset{}
		if a.cfg.SeedData {
			ds = memory.SeedDataset()
		}
		r := memory.NewRepositories(ds)
		a.log.Info("In-memory repositories initialized")
		return &repositories{orders: r.Orders, products: r.Products, users: r.Users, shops: r.Shops}, nil

	case config.StorageMongo:
		a.log.Info("Initializing MongoDB client...")
		client, err := mongoadapter.NewClient(ctx, a.cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
		}
		a.mongoClient = client
		db := client.Database(a.cfg.MongoDB.Database)

		if err := mongoadapter.EnsureIndexes(ctx, db); err != nil {
			return nil, err
		}
		if a.cfg.SeedData {
			seeded, err := mongoadapter.SeedIfEmpty(ctx, db, memory.SeedDataset())
			if err != nil {
				return nil, err
			}
			if seeded {
				a.log.Infof("Seeded database %s with the sample dataset", a.cfg.MongoDB.Database)
			}
		}
		a.log.Info("MongoDB repositories initialized")
		return &repositories{
			orders:   mongoadapter.NewOrderRepository(db),
			products: mongoadapter.NewProductRepository(db),
			users:    mongoadapter.NewUserRepository(db),
			shops:    mongoadapter.NewShopRepository(db),
		}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", a.cfg.Storage)
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	errCh := make(chan error, 3)
	go func() { errCh <- a.httpServer.Start() }()
	go func() { errCh <- a.grpcServer.Start() }()
	go func() { errCh <- a.metricsServer.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		a.log.Infof("Received shutdown signal: %v. Shutting down application...", sig)
	case err := <-errCh:
		if err != nil {
			a.log.Errorf("Server failed: %v. Shutting down application...", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	}
	if err := a.grpcServer.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		a.log.Errorf("Error during gRPC server graceful shutdown: %v", err)
	}

	a.log.Info("Waiting for in-flight favorite reconciliations...")
	a.favorites.Wait()

	if err := a.metricsServer.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error stopping metrics server: %v", err)
	}

	a.closeResources(shutdownCtx)
	a.log.Info("Application shut down successfully")
	_ = a.log.Sync()
}

func (a *App) closeResources(ctx context.Context) {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed successfully")
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			a.log.Errorf("Error shutting down tracer provider: %v", err)
		}
	}
}
