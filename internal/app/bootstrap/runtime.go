package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	cacheadapter "github.com/rbxassets/platform/services/payments/internal/adapters/cache"
	eventadapter "github.com/rbxassets/platform/services/payments/internal/adapters/events"
	httpadapter "github.com/rbxassets/platform/services/payments/internal/adapters/http"
	"github.com/rbxassets/platform/services/payments/internal/adapters/memory"
	"github.com/rbxassets/platform/services/payments/internal/adapters/paypal"
	"github.com/rbxassets/platform/services/payments/internal/adapters/postgres"
	"github.com/rbxassets/platform/services/payments/internal/adapters/security"
	"github.com/rbxassets/platform/services/payments/internal/application"
	"github.com/rbxassets/platform/services/payments/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	service    *application.Service
	httpServer *http.Server
	grpcServer *grpc.Server
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger = logger.With("service", cfg.ServiceName)
	logger.Info("bootstrapping payments service",
		"http_port", cfg.HTTPPort, "grpc_port", cfg.GRPCPort, "storage", cfg.Storage, "paypal_mode", cfg.PayPalMode)

	cleanup := func(context.Context) {}

	var (
		orders   ports.OrderRepository
		payouts  ports.PayoutRepository
		captures ports.CaptureRepository
		products ports.ProductCounterRepository
		outbox   ports.OutboxRepository
	)
	switch cfg.Storage {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("gorm sql db: %w", err)
		}
		if err := postgres.RunMigrations(ctx, db); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		repos := postgres.NewRepositories(db)
		orders, payouts, captures, products, outbox = repos.Orders, repos.Payouts, repos.Captures, repos.Products, repos.Outbox
		cleanup = func(context.Context) { _ = sqlDB.Close() }
	case "memory":
		repos := memory.NewRepositories()
		orders, payouts, captures, products, outbox = repos.Orders, repos.Payouts, repos.Captures, repos.Products, repos.Outbox
	}

	var tokens ports.AccessTokenCache = memory.NewTokenCache()
	if cfg.RedisURL != "" {
		redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			cleanup(ctx)
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			cleanup(ctx)
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		tokens = cacheadapter.NewRedisTokenCache(redisClient)
		storeCleanup := cleanup
		cleanup = func(ctx context.Context) {
			_ = redisClient.Close()
			storeCleanup(ctx)
		}
	}

	gateway := paypal.NewClient(paypal.Config{
		ClientID:     cfg.PayPalClientID,
		ClientSecret: cfg.PayPalClientSecret,
		Mode:         cfg.PayPalMode,
		SiteURL:      cfg.SiteURL,
		BrandName:    cfg.BrandName,
		HTTPTimeout:  cfg.PayPalHTTPTimeout,
	}, tokens)

	var verifier ports.TokenVerifier
	if cfg.JWTPublicKeyPEM != "" {
		verifier, err = security.NewJWTVerifier(cfg.JWTPublicKeyPEM)
		if err != nil {
			cleanup(ctx)
			return nil, fmt.Errorf("init jwt verifier: %w", err)
		}
	} else {
		logger.Warn("no JWT public key configured, bearer subjects are trusted as-is")
	}

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:          cfg.ServiceName,
			DefaultCurrency:      cfg.DefaultCurrency,
			PlatformFeeRate:      cfg.PlatformFeeRate,
			ReconcileGrace:       cfg.ReconcileGrace,
			OutboxFlushBatchSize: cfg.OutboxBatchSize,
		},
		Orders:    orders,
		Payouts:   payouts,
		Captures:  captures,
		Products:  products,
		Outbox:    outbox,
		Gateway:   gateway,
		Publisher: eventadapter.NewLoggingPublisher(logger),
		Logger:    logger,
	})

	handler := httpadapter.NewHandler(svc)
	router := httpadapter.NewRouter(handler, verifier)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		service:    svc,
		httpServer: httpServer,
		grpcServer: grpcServer,
		cleanupFn:  cleanup,
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bound here rather than in NewRuntime so the worker never holds the port.
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", r.cfg.GRPCPort))
	if err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r.cleanupFn(shutdownCtx)
		return fmt.Errorf("listen gRPC: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		r.logger.Info("grpc server started", "addr", lis.Addr().String())
		if err := r.grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}

// RunWorker runs the background loops: the capture reconciler that re-applies
// write-ahead capture records stuck without derived writes, and the outbox
// flusher.
func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(r.cfg.ReconcileInterval)
		defer ticker.Stop()
		r.logger.Info("capture reconciler started", "interval", r.cfg.ReconcileInterval.String())
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				repaired, err := r.service.RepairCaptures(ctx, r.cfg.ReconcileBatchSize)
				if err != nil {
					r.logger.Error("capture reconcile pass failed", "error", err)
				} else if repaired > 0 {
					r.logger.Info("capture reconcile pass", "repaired", repaired)
				}
			}
		}
	})
	g.Go(func() error {
		ticker := time.NewTicker(r.cfg.OutboxPollInterval)
		defer ticker.Stop()
		r.logger.Info("outbox flusher started", "interval", r.cfg.OutboxPollInterval.String())
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := r.service.FlushOutbox(ctx); err != nil {
					r.logger.Error("outbox flush failed", "error", err)
				}
			}
		}
	})

	err := g.Wait()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.cleanupFn(shutdownCtx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
