package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/wizix/pickem-pool/external/espn"
	"github.com/wizix/pickem-pool/internal/config"
	"github.com/wizix/pickem-pool/internal/domain/game"
	"github.com/wizix/pickem-pool/internal/domain/pick"
	"github.com/wizix/pickem-pool/internal/domain/pool"
	"github.com/wizix/pickem-pool/internal/domain/user"
	"github.com/wizix/pickem-pool/internal/infrastructure/account/gotrue"
	"github.com/wizix/pickem-pool/internal/infrastructure/repository/memory"
	"github.com/wizix/pickem-pool/internal/infrastructure/repository/postgres"
	"github.com/wizix/pickem-pool/internal/interfaces/httpapi"
	"github.com/wizix/pickem-pool/internal/platform/cache"
	"github.com/wizix/pickem-pool/internal/platform/logging"
	"github.com/wizix/pickem-pool/internal/platform/resilience"
	"github.com/wizix/pickem-pool/internal/poller"
	"github.com/wizix/pickem-pool/internal/realtime"
	"github.com/wizix/pickem-pool/internal/usecase"
)

// devFallbackJWTSecret keeps local development working without a Supabase
// project. Config validation refuses an empty secret in prod.
const devFallbackJWTSecret = "insecure-dev-secret"

// App holds every long-lived component of the service.
type App struct {
	Config    config.Config
	Logger    *logging.Logger
	Server    *http.Server
	Hub       *realtime.Hub
	Publisher *realtime.Publisher
	Poller    *poller.Poller

	db  *sqlx.DB
	rdb *redis.Client
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		gameRepo game.Repository
		pickRepo pick.Repository
		poolRepo pool.Repository
		userRepo user.Repository
		db       *sqlx.DB
	)
	if cfg.DBURL != "" {
		conn, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		db = conn
		gameRepo = postgres.NewGameRepository(db)
		pickRepo = postgres.NewPickRepository(db)
		poolRepo = postgres.NewPoolRepository(db)
		userRepo = postgres.NewUserRepository(db)
	} else {
		logger.Warn("DB_URL is empty, using in-memory repositories with seed data")
		profiles := memory.NewUserRepository(memory.SeedProfiles())
		gameRepo = memory.NewGameRepository(nil)
		pickRepo = memory.NewPickRepository()
		poolRepo = memory.NewPoolRepository(memory.SeedPools(), profiles)
		userRepo = profiles
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	provider := espn.NewClient(espn.ClientConfig{
		BaseURL:        cfg.ESPNBaseURL,
		Timeout:        cfg.ESPNTimeout,
		MaxAttempts:    cfg.ESPNMaxAttempts,
		RetryBaseDelay: cfg.ESPNRetryBaseDelay,
		CurrentSeason:  cfg.CurrentSeason,
		Cache:          store,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMax,
		},
	})

	hub := realtime.NewHub(logger)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}
	publisher := realtime.NewPublisher(hub, rdb, cfg.RealtimeChannel, logger)

	scoreboardSvc := usecase.NewScoreboardService(provider, gameRepo, cfg.CurrentSeason, logger)
	pickSvc := usecase.NewPickService(pickRepo, poolRepo, gameRepo)
	poolSvc := usecase.NewPoolService(poolRepo, cfg.CurrentSeason)
	leaderboardSvc := usecase.NewLeaderboardService(poolRepo, pickRepo)
	userSvc := usecase.NewUserService(userRepo)
	resultSvc := usecase.NewResultService(pickRepo, poolRepo, gameRepo, cfg.ResultWorkers, logger)
	syncSvc := usecase.NewSyncService(provider, gameRepo, resultSvc, publisher, cfg.CurrentSeason, logger)

	pol := poller.New(syncSvc.RunCycle, cfg.PollInterval, logger)

	jwtSecret := cfg.SupabaseJWTSecret
	if jwtSecret == "" {
		logger.Warn("SUPABASE_JWT_SECRET is empty, using the insecure dev fallback")
		jwtSecret = devFallbackJWTSecret
	}
	verifier, err := gotrue.NewVerifier(jwtSecret, cfg.SupabaseJWTAudience)
	if err != nil {
		return nil, fmt.Errorf("build token verifier: %w", err)
	}

	handler := httpapi.NewHandler(
		scoreboardSvc,
		pickSvc,
		poolSvc,
		leaderboardSvc,
		userSvc,
		resultSvc,
		syncSvc,
		pol,
		hub,
		logger,
	)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		Server:    server,
		Hub:       hub,
		Publisher: publisher,
		Poller:    pol,
		db:        db,
		rdb:       rdb,
	}, nil
}

// Start launches the background components: the hub loop, the Redis fan-in
// when configured, and the score poller.
func (a *App) Start(ctx context.Context) {
	go a.Hub.Run()

	if a.rdb != nil {
		go func() {
			if err := a.Publisher.RunFanIn(ctx); err != nil && ctx.Err() == nil {
				a.Logger.Error("realtime fan-in stopped", "error", err)
			}
		}()
	}

	if a.Config.PollEnabled {
		a.Poller.Start(ctx)
	} else {
		a.Logger.Info("score poller disabled", "reason", "POLL_ENABLED=false")
	}
}

// Shutdown stops background work and releases connections. The HTTP server
// is shut down by the caller so in-flight requests drain first.
func (a *App) Shutdown(ctx context.Context) error {
	a.Poller.Stop()
	a.Hub.Close()

	var firstErr error
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close redis client: %w", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close database: %w", err)
		}
	}

	return firstErr
}
