package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-retail-service/config"
	"github.com/fekuna/omnipos-retail-service/internal/assistant"
	"github.com/fekuna/omnipos-retail-service/internal/store"
	"github.com/fekuna/omnipos-retail-service/internal/store/snapshot"
	"github.com/fekuna/omnipos-retail-service/internal/store/sqlstore"
	"github.com/fekuna/omnipos-retail-service/pkg/broker"
	"github.com/fekuna/omnipos-retail-service/pkg/cache"
	"github.com/fekuna/omnipos-retail-service/pkg/database"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/fekuna/omnipos-retail-service/pkg/metrics"
	"github.com/fekuna/omnipos-retail-service/pkg/middleware"
	"github.com/fekuna/omnipos-retail-service/pkg/rpc"
	"github.com/fekuna/omnipos-retail-service/pkg/search"

	assistantH "github.com/fekuna/omnipos-retail-service/internal/assistant/handler"
	assistantUCPkg "github.com/fekuna/omnipos-retail-service/internal/assistant/usecase"

	custH "github.com/fekuna/omnipos-retail-service/internal/customer/handler"
	custUCPkg "github.com/fekuna/omnipos-retail-service/internal/customer/usecase"

	expH "github.com/fekuna/omnipos-retail-service/internal/expense/handler"
	expUCPkg "github.com/fekuna/omnipos-retail-service/internal/expense/usecase"

	invH "github.com/fekuna/omnipos-retail-service/internal/inventory/handler"
	invUCPkg "github.com/fekuna/omnipos-retail-service/internal/inventory/usecase"

	prodH "github.com/fekuna/omnipos-retail-service/internal/product/handler"
	prodUCPkg "github.com/fekuna/omnipos-retail-service/internal/product/usecase"

	reportH "github.com/fekuna/omnipos-retail-service/internal/report/handler"
	reportUCPkg "github.com/fekuna/omnipos-retail-service/internal/report/usecase"

	saleH "github.com/fekuna/omnipos-retail-service/internal/sale/handler"
	saleListenerPkg "github.com/fekuna/omnipos-retail-service/internal/sale/listener"
	saleUCPkg "github.com/fekuna/omnipos-retail-service/internal/sale/usecase"

	"github.com/fekuna/omnipos-retail-service/internal/server"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const serviceName = "omnipos-retail-service"

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
		ServiceName:       serviceName,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Open the store
	st, ready, err := openStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Could not open store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer st.Close()

	// 4. Redis: stock locks and the product list cache
	var (
		locker       cache.Locker = cache.NewLocalLocker()
		productCache cache.Cache
	)
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		locker, productCache = redisClient, redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		appLogger.Info("Redis not configured, using in-process locks")
	}

	appMetrics := metrics.New(serviceName)

	// 5. Kafka: retail events out, storefront orders in
	var (
		publisher = broker.NewNop()
		consumer  *broker.KafkaConsumer
	)
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(&broker.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.EventsTopic})
		defer producer.Close()
		publisher = producer

		consumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.OrdersTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer consumer.Close()
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("orders_topic", cfg.Kafka.OrdersTopic))
	}
	publisher = broker.Observe(publisher, appMetrics.CountEvent)

	// 6. Elasticsearch (optional)
	var productIndex prodUCPkg.Index
	if len(cfg.Elastic.Addresses) > 0 {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, search falls back to the store", zap.Error(err))
		} else {
			productIndex = esClient
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 7. Initialize UseCases
	prodUC := prodUCPkg.NewProductUseCase(st.Products(), productCache, productIndex, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(st, locker, publisher, appLogger, invUCPkg.WithCatalog(prodUC))
	saleUC := saleUCPkg.NewSaleUseCase(st, locker, publisher, appLogger,
		saleUCPkg.WithCatalog(prodUC),
		saleUCPkg.WithFallbackToFirstProduct(cfg.Sales.FallbackToFirstProduct))
	custUC := custUCPkg.NewCustomerUseCase(st.Customers(), appLogger)
	expUC := expUCPkg.NewExpenseUseCase(st.Expenses(), appLogger)
	reportUC := reportUCPkg.NewReportUseCase(st, invUC, cfg.Sales.LowStockThreshold, appLogger)

	if cfg.AI.APIKey == "" {
		appLogger.Warn("GEMINI_API_KEY not set, console commands will not be understood")
	}
	parser, err := assistant.NewGeminiClient(context.Background(), assistant.GeminiConfig{
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
		Timeout: cfg.AI.Timeout,
	}, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create assistant client", zap.Error(err))
	}
	consoleUC := assistantUCPkg.NewConsoleUseCase(assistantUCPkg.Deps{
		Parser:    parser,
		Products:  prodUC,
		Catalog:   st.Products(),
		Sales:     saleUC,
		Inventory: invUC,
		Expenses:  expUC,

		FallbackToFirstProduct: cfg.Sales.FallbackToFirstProduct,
	}, appLogger)

	// 8. Start the order listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if consumer != nil {
		go saleListenerPkg.NewOrderListener(consumer, saleUC, appLogger).Start(ctx)
	}

	// 9. Start gRPC Server
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.ContextInterceptor(appLogger),
			appMetrics.UnaryInterceptor(),
			middleware.LoggingInterceptor(appLogger),
		),
	)
	services := []*rpc.Service{
		prodH.NewProductHandler(prodUC, appLogger).Service(),
		invH.NewInventoryHandler(invUC, appLogger).Service(),
		saleH.NewSaleHandler(saleUC, appLogger).Service(),
		custH.NewCustomerHandler(custUC, appLogger).Service(),
		expH.NewExpenseHandler(expUC, appLogger).Service(),
		reportH.NewReportHandler(reportUC, appLogger).Service(),
		assistantH.NewConsoleHandler(consoleUC, appLogger).Service(),
	}
	for _, svc := range services {
		svc.Register(grpcServer)
	}
	rpc.RegisterDefaults(grpcServer, services...)

	grpcPort := withColon(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", grpcPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// 10. Start HTTP Server
	httpServer := server.NewHTTPServer(server.Deps{
		Products: prodUC,
		Sales:    saleUC,
		Expenses: expUC,
		Reports:  reportUC,
		Console:  consoleUC,
		Metrics:  appMetrics,
		Ready:    ready,
	}, appLogger)
	httpPort := withColon(cfg.Server.HTTPPort)
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", httpPort))
		if err := httpServer.Start(httpPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

// openStore picks the backend. SQL backends are migrated on start and report
// readiness with a ping; the snapshot store is always ready.
func openStore(cfg *config.Config, log logger.ZapLogger) (store.Store, func(context.Context) error, error) {
	switch cfg.Store.Backend {
	case config.StorePostgres, config.StoreSQLite:
		var (
			db  *sqlx.DB
			err error
		)
		if cfg.Store.Backend == config.StorePostgres {
			db, err = database.NewPostgres(&database.PostgresConfig{
				Host:            cfg.Postgres.Host,
				Port:            cfg.Postgres.Port,
				User:            cfg.Postgres.User,
				Password:        cfg.Postgres.Password,
				DBName:          cfg.Postgres.DBName,
				SSLMode:         cfg.Postgres.SSLMode,
				MaxOpenConns:    cfg.Postgres.MaxOpenConns,
				MaxIdleConns:    cfg.Postgres.MaxIdleConns,
				ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
				ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
			})
		} else {
			db, err = database.NewSQLite(cfg.Store.SQLiteDSN)
		}
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("Connected to SQL database", zap.String("driver", db.DriverName()))
		return sqlstore.New(db), func(ctx context.Context) error { return database.Ping(ctx, db) }, nil
	case "", config.StoreSnapshot:
		s, err := snapshot.New(&snapshot.Config{Path: cfg.Store.SnapshotPath, Key: cfg.Store.SnapshotKey}, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Using snapshot store", zap.String("path", cfg.Store.SnapshotPath), zap.String("key", cfg.Store.SnapshotKey))
		return s, nil, nil
	}
	return nil, nil, errors.New("unknown STORE_BACKEND " + cfg.Store.Backend)
}

func withColon(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
