// Package scoring provides the lead scoring bounded context module.
// This file wires the engine's components and registers its HTTP routes.
package scoring

import (
	"context"

	"leadscore_backend/internal/agents"
	"leadscore_backend/internal/events"
	apphttp "leadscore_backend/internal/http"
	"leadscore_backend/internal/interactions"
	"leadscore_backend/internal/leads"
	"leadscore_backend/internal/scoring/benchmark"
	"leadscore_backend/internal/scoring/cache"
	"leadscore_backend/internal/scoring/handler"
	"leadscore_backend/internal/scoring/history"
	"leadscore_backend/internal/scoring/prediction"
	"leadscore_backend/internal/scoring/repository"
	"leadscore_backend/internal/scoring/service"
	"leadscore_backend/internal/scoring/stage"
	"leadscore_backend/platform/config"
	"leadscore_backend/platform/logger"
	"leadscore_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Jitter parameters used when PREDICTION_JITTER is enabled. The seed is
// fixed so restarts reproduce the same sequence.
const (
	jitterSeed  = 1
	jitterScale = 0.02
)

// Module is the scoring bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the scoring module with all its
// dependencies: providers over the lead management tables, the durable
// repository, the stage machine, the prediction model and the Redis cache.
func NewModule(
	ctx context.Context,
	pool *pgxpool.Pool,
	redisClient *redis.Client,
	eventBus events.Bus,
	val *validator.Validator,
	cfg *config.Config,
	log *logger.Logger,
	rescorer handler.RescoreEnqueuer,
) (*Module, error) {
	repo := repository.New(pool)
	leadReader := leads.New(pool)

	var noise prediction.Noise = prediction.None{}
	if cfg.GetPredictionJitter() {
		noise = prediction.NewSeeded(jitterSeed, jitterScale)
	}
	predictor := prediction.New(
		agents.New(pool),
		interactions.New(pool),
		noise,
		cfg.GetProviderTimeout(),
		cfg.GetAgentMatchTopK(),
		log,
	)

	machine := stage.New(repo, eventBus, log)
	hist := history.NewMemoryStore(cfg.GetHistoryWindow())
	tracker := benchmark.New(repo, eventBus)
	scoreCache := cache.New(redisClient, log)

	svc, err := service.New(ctx, leadReader, repo, machine, hist, tracker,
		predictor, scoreCache, eventBus, log, cfg.GetRescoreChunkSize())
	if err != nil {
		return nil, err
	}

	return &Module{
		handler: handler.New(svc, rescorer, val, log),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "scoring"
}

// Service returns the scoring service for background workers.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts scoring routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
