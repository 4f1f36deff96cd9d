package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	cacheadapter "github.com/Tubbz-alt/prior-auth/internal/adapters/cache"
	eventadapter "github.com/Tubbz-alt/prior-auth/internal/adapters/events"
	httpadapter "github.com/Tubbz-alt/prior-auth/internal/adapters/http"
	"github.com/Tubbz-alt/prior-auth/internal/adapters/notify"
	"github.com/Tubbz-alt/prior-auth/internal/adapters/postgres"
	schedadapter "github.com/Tubbz-alt/prior-auth/internal/adapters/scheduler"
	"github.com/Tubbz-alt/prior-auth/internal/application"
)

// Runtime holds the wired service graph for both the API and worker
// entrypoints. The worker shares the same graph so recovered deferred
// resolutions run through the identical adjudication path.
type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	scheduler  *schedadapter.TimerScheduler
	resolver   *eventadapter.ResolutionWorker
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping prior-auth service", "http_port", cfg.HTTPPort, "grpc_port", cfg.GRPCPort)

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := pool.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	repos := postgres.NewRepositories(pool)
	pendingStore := cacheadapter.NewRedisPendingResolutionStore(redisClient)
	timers := schedadapter.NewTimerScheduler(logger)
	notifier := notify.NewSender(logger, cfg.NotifyTimeout)

	seed := cfg.AdjudicationSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	adjudicator := application.NewAdjudicator(rand.New(rand.NewSource(seed)))

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			BaseURL:         cfg.BaseURL,
			ResolutionDelay: cfg.ResolutionDelay,
		},
		Claims:        repos.Claims,
		Items:         repos.Items,
		Bundles:       repos.Bundles,
		Responses:     repos.Responses,
		Subscriptions: repos.Subscriptions,
		Pending:       pendingStore,
		Scheduler:     timers,
		Notifier:      notifier,
		Adjudicator:   adjudicator,
		Logger:        logger,
	})

	handler := httpadapter.NewHandler(svc, cfg.BaseURL)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		_ = sqlDB.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("listen gRPC: %w", err)
	}

	resolver := eventadapter.NewResolutionWorker(
		logger,
		svc,
		cfg.SweepInterval,
		cfg.SweepBatchSize,
	)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		scheduler:  timers,
		resolver:   resolver,
		cleanupFn: func(ctx context.Context) {
			timers.Close()
			_ = redisClient.Close()
			_ = sqlDB.Close()
		},
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		r.logger.Info("grpc server started", "addr", r.grpcLis.Addr().String())
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
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

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("resolution worker started")
	err := r.resolver.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.cleanupFn(shutdownCtx)
	return nil
}
