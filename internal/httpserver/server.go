package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vidora/adserve/internal/ads"
	"github.com/vidora/adserve/internal/config"
	"github.com/vidora/adserve/internal/database"
	"github.com/vidora/adserve/internal/metrics"
	"github.com/vidora/adserve/internal/middleware"
	"github.com/vidora/adserve/internal/storage"
	"go.uber.org/zap"
)

// Dependencies holds all external dependencies for the server.
type Dependencies struct {
	DB         *database.PostgresDB
	Redis      *database.RedisDB
	ClickHouse *database.ClickHouseDB
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Server wraps HTTP handlers and the ad-serving services.
type Server struct {
	adService        *ads.AdService
	ingestService    *ads.IngestService
	statsService     *ads.StatsService
	performerService *ads.PerformerService
	developerService *ads.DeveloperService
	logger           *zap.Logger
	config           *config.Config
	metrics          *metrics.Metrics
	health           []healthChecker
}

type healthChecker interface {
	Health(ctx context.Context) error
}

// NewServer constructs a new http.Handler with all routes registered.
// Every backing store degrades to an in-process implementation when its
// dependency is absent, so the server always comes up.
func NewServer(deps *Dependencies) http.Handler {
	var (
		adRepo        storage.AdRepo
		performerRepo storage.PerformerRepo
		developerRepo storage.DeveloperRepo
		counterStore  storage.CounterStore
		eventLog      storage.EventLog
	)

	if deps.DB != nil {
		adRepo = storage.NewPostgresAdRepo(deps.DB.Pool)
		performerRepo = storage.NewPostgresPerformerRepo(deps.DB.Pool)
		developerRepo = storage.NewPostgresDeveloperRepo(deps.DB.Pool)
		counterStore = storage.NewPostgresCounterStore(deps.DB.Pool)
	} else {
		adRepo = storage.NewInMemoryAdRepo()
		performerRepo = storage.NewInMemoryPerformerRepo()
		developerRepo = storage.NewInMemoryDeveloperRepo()
		counterStore = storage.NewInMemoryCounterStore()
	}

	// Raw events prefer the warehouse, then the primary database.
	switch {
	case deps.ClickHouse != nil:
		eventLog = storage.NewClickHouseEventLog(deps.ClickHouse.Conn)
	case deps.DB != nil:
		eventLog = storage.NewPostgresEventLog(deps.DB.Pool)
	default:
		eventLog = storage.NewInMemoryEventLog()
	}

	var seenStore storage.SeenAdsStore
	if deps.Redis != nil {
		seenStore = storage.NewRedisSeenAdsStore(deps.Redis.Client, deps.Config.Serving.SeenTTL)
	} else {
		seenStore = storage.NewInMemorySeenAdsStore()
	}

	adSvc := ads.NewAdService(adRepo, performerRepo, eventLog, counterStore, seenStore, deps.Logger, deps.Metrics)
	ingestSvc := ads.NewIngestService(adRepo, eventLog, counterStore, deps.Logger)
	statsSvc := ads.NewStatsService(adRepo, performerRepo, counterStore)
	performerSvc := ads.NewPerformerService(performerRepo)
	developerSvc := ads.NewDeveloperService(developerRepo)

	s := &Server{
		adService:        adSvc,
		ingestService:    ingestSvc,
		statsService:     statsSvc,
		performerService: performerSvc,
		developerService: developerSvc,
		logger:           deps.Logger,
		config:           deps.Config,
		metrics:          deps.Metrics,
	}
	if deps.DB != nil {
		s.health = append(s.health, deps.DB)
	}
	if deps.Redis != nil {
		s.health = append(s.health, deps.Redis)
	}
	if deps.ClickHouse != nil {
		s.health = append(s.health, deps.ClickHouse)
	}

	r := chi.NewRouter()
	r.Use(middleware.NewRecoveryMiddleware(deps.Logger).Handler)
	r.Use(middleware.NewLoggingMiddleware(deps.Logger).Handler)
	r.Use(middleware.NewRateLimitMiddleware(deps.Config.RateLimit, deps.Logger, deps.Metrics).Handler)

	r.Get("/health", s.handleHealth)
	if deps.Config.Metrics.Enabled {
		r.Handle(deps.Config.Metrics.Path, metrics.Handler())
	}

	r.Route("/performers", func(r chi.Router) {
		r.Post("/", s.handleCreatePerformer)
		r.Get("/", s.handleListPerformers)
		r.Post("/check-email", s.handleCheckPerformerEmail)
		r.Get("/{performerID}/stats", s.handlePerformerStats)
	})

	r.Route("/developers", func(r chi.Router) {
		r.Post("/", s.handleCreateDeveloper)
		r.Post("/login", s.handleDeveloperLogin)
	})

	r.Route("/ads", func(r chi.Router) {
		r.Post("/", s.handleCreateAd)
		r.Get("/", s.handleListAds)
		r.Get("/random", s.handleRandomAd)
		r.Get("/{adID}", s.handleGetAd)
		r.Put("/{adID}", s.handleUpdateAd)
		r.Delete("/{adID}", s.handleDeleteAd)
		r.Get("/{adID}/stats", s.handleAdStats)
	})

	r.Post("/ad_event", s.handleAdEvent)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	for _, h := range s.health {
		if err := h.Health(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
