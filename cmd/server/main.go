package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/simaogato/savingsplan-backend/internal/adapter/cache"
	grpcadapter "github.com/simaogato/savingsplan-backend/internal/adapter/grpc"
	"github.com/simaogato/savingsplan-backend/internal/adapter/httpapi"
	"github.com/simaogato/savingsplan-backend/internal/adapter/repository/memory"
	"github.com/simaogato/savingsplan-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/savingsplan-backend/internal/config"
	"github.com/simaogato/savingsplan-backend/internal/domain"
	"github.com/simaogato/savingsplan-backend/internal/usecase/planner"
	"github.com/simaogato/savingsplan-backend/internal/usecase/seeder"
)

const defaultConfigFile = "config.yaml"

func main() {
	// 1. Load configuration
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = defaultConfigFile
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 2. Resolve the tax table to serve
	table := domain.DefaultTaxTable()
	if cfg.Tables.File != "" {
		table, err = config.LoadTaxTable(cfg.Tables.File)
		if err != nil {
			logger.Fatal("Failed to load tax table", zap.String("file", cfg.Tables.File), zap.Error(err))
		}
	}
	taxYear := cfg.Tables.TaxYear
	if taxYear == 0 {
		taxYear = table.TaxYear
	}

	ctx := context.Background()

	// 3. Initialize repository (Postgres when configured, otherwise in memory)
	var tableRepo domain.TaxTableRepository
	if cfg.UsePostgres() {
		db, err := connectWithRetry(cfg.DSN(), logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			logger.Fatal("Failed to create schema", zap.Error(err))
		}
		tableRepo = postgres.NewTaxTableRepository(db)
	} else {
		logger.Info("No database configured, keeping tax tables in memory")
		tableRepo = memory.NewTaxTableRepository()
	}

	// Seed the configured table
	tableSeeder := seeder.NewTableSeeder(tableRepo, table)
	seeded, err := tableSeeder.Seed(ctx)
	if err != nil {
		logger.Fatal("Failed to seed tax table", zap.Int("tax_year", table.TaxYear), zap.Error(err))
	}
	logger.Info("Tax table ready", zap.Int("tax_year", table.TaxYear), zap.Bool("seeded", seeded))

	// 4. Initialize plan cache (Redis when reachable, otherwise in process)
	var planCache domain.PlanCache = cache.NewMemoryPlanCache(cfg.Cache.MaxEntries)
	if cfg.Redis.Addr != "" {
		ttl := time.Duration(cfg.Redis.TTLSeconds) * time.Second
		redisCache, err := cache.NewRedisPlanCache(ctx, cfg.Redis.Addr, ttl, logger)
		if err != nil {
			logger.Warn("Redis unavailable, using in-process plan cache", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			defer redisCache.Close()
			planCache = redisCache
		}
	}

	// 5. Initialize services (use cases)
	plannerService := planner.NewPlannerService(tableRepo, planCache, taxYear, logger)

	// 6. Start gRPC server
	healthServer := health.NewServer()
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.RecoveryInterceptor(logger),
			grpcadapter.AuthInterceptor(cfg.Server.APIToken, healthpb.Health_Check_FullMethodName),
		),
	)
	grpcadapter.RegisterPlannerServiceServer(grpcServer, grpcadapter.NewServer(plannerService))
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(grpcadapter.ServiceName, healthpb.HealthCheckResponse_SERVING)

	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Fatal("Failed to listen", zap.String("addr", cfg.Server.GRPCAddr), zap.Error(err))
	}

	// 7. Start HTTP server
	limiter := httpapi.NewRateLimiter(
		cfg.RateLimit.Requests,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		httpapi.WithIdleTimeout(time.Duration(cfg.RateLimit.IdleSeconds)*time.Second),
	)
	defer limiter.Stop()

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           httpapi.NewRouter(httpapi.NewPlanHandler(plannerService, logger), limiter, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("gRPC server listening", zap.String("addr", cfg.Server.GRPCAddr))
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		waitForShutdown(gctx, logger, grpcServer, healthServer, httpServer)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// connectWithRetry gives Postgres a few seconds to come up when started alongside the server
func connectWithRetry(dsn string, logger *zap.Logger) (*postgres.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		db, err := postgres.NewDB(dsn)
		if err == nil {
			return db, nil
		}
		lastErr = err
		logger.Warn("Database not ready", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	return nil, lastErr
}

// waitForShutdown blocks until SIGTERM, SIGINT or a server failure, then gracefully stops both servers
func waitForShutdown(ctx context.Context, logger *zap.Logger, grpcServer *grpclib.Server, healthServer *health.Server, httpServer *http.Server) {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	<-sigCtx.Done()
	logger.Info("Shutting down gracefully", zap.Error(context.Cause(sigCtx)))

	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	grpcServer.GracefulStop()
	logger.Info("Servers stopped")
}
