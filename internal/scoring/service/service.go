// Package service orchestrates the scoring engine: it wires the rule
// evaluator, aggregator, stage machine, history, predictions and benchmarks
// behind one API and owns the active configuration snapshot.
package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"leadscore_backend/internal/events"
	"leadscore_backend/internal/scoring/benchmark"
	"leadscore_backend/internal/scoring/cache"
	"leadscore_backend/internal/scoring/domain"
	"leadscore_backend/internal/scoring/history"
	"leadscore_backend/internal/scoring/prediction"
	"leadscore_backend/internal/scoring/repository"
	"leadscore_backend/internal/scoring/rules"
	"leadscore_backend/internal/scoring/stage"
	"leadscore_backend/platform/apperr"
	"leadscore_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// rescoreWorkers bounds in-flight lead computations during a bulk rescore.
const rescoreWorkers = 8

// LeadReader is the engine's read-only port into the lead management system.
type LeadReader interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	// ListIDs pages through all lead ids in a stable order.
	ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error)
}

// ScoreResult is the outcome of one scoring pass over a lead.
type ScoreResult struct {
	Record     domain.ScoreRecord
	Stage      domain.Stage
	Transition *domain.StageTransition
}

// RescoreReport summarizes a bulk rescore run.
type RescoreReport struct {
	Processed int  `json:"processed"`
	Failed    int  `json:"failed"`
	Cancelled bool `json:"cancelled"`
}

// Service is the scoring engine facade. The active configuration lives in an
// atomic snapshot: each scoring pass loads it once and uses that version
// throughout, so a concurrent config swap never splits a single evaluation.
type Service struct {
	leads     LeadReader
	repo      repository.Repository
	machine   *stage.Machine
	history   history.Store
	tracker   *benchmark.Tracker
	predictor *prediction.Model
	cache     *cache.Cache
	bus       events.Bus
	log       *logger.Logger

	active    atomic.Pointer[rules.Config]
	chunkSize int
}

// New assembles the scoring service. It loads the active configuration from
// the store, seeding and activating the embedded defaults on first run.
func New(
	ctx context.Context,
	leads LeadReader,
	repo repository.Repository,
	machine *stage.Machine,
	hist history.Store,
	tracker *benchmark.Tracker,
	predictor *prediction.Model,
	c *cache.Cache,
	bus events.Bus,
	log *logger.Logger,
	chunkSize int,
) (*Service, error) {
	s := &Service{
		leads:     leads,
		repo:      repo,
		machine:   machine,
		history:   hist,
		tracker:   tracker,
		predictor: predictor,
		cache:     c,
		bus:       bus,
		log:       log,
		chunkSize: chunkSize,
	}

	cfg, ok, err := repo.LoadActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active config: %w", err)
	}
	if !ok {
		cfg, err = rules.DefaultConfig()
		if err != nil {
			return nil, fmt.Errorf("load default config: %w", err)
		}
		version, err := repo.SaveAndActivate(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("seed default config: %w", err)
		}
		cfg.Version = version
		log.Info("seeded default scoring config", "version", version)
	}
	s.active.Store(&cfg)

	return s, nil
}

// ActiveConfig returns the configuration snapshot currently in use.
func (s *Service) ActiveConfig() rules.Config {
	return *s.active.Load()
}

// CalculateScore runs a full scoring pass for one lead: evaluate the rule
// tables against the active config, aggregate with bonuses and penalties,
// persist the record, append it to the history window and drive the stage
// machine. The lead's cached prediction is invalidated since its inputs
// changed.
func (s *Service) CalculateScore(ctx context.Context, leadID uuid.UUID) (ScoreResult, error) {
	lead, err := s.leads.Get(ctx, leadID)
	if err != nil {
		return ScoreResult{}, err
	}

	cfg := s.active.Load()
	scores := rules.Evaluate(&lead, cfg)
	record := rules.Aggregate(scores, &lead, cfg, time.Now().UTC())

	if err := s.repo.InsertScoreRecord(ctx, record); err != nil {
		return ScoreResult{}, fmt.Errorf("persist score record: %w", err)
	}
	if err := s.history.Append(ctx, record); err != nil {
		return ScoreResult{}, fmt.Errorf("append score history: %w", err)
	}

	newStage, transition, err := s.machine.Apply(ctx, cfg.Stages, record)
	if err != nil {
		return ScoreResult{}, fmt.Errorf("apply stage: %w", err)
	}

	s.cache.InvalidatePrediction(ctx, leadID)
	s.log.ScoreComputed(leadID.String(), record.Total, newStage.ID)

	return ScoreResult{Record: record, Stage: newStage, Transition: transition}, nil
}

// GetStage resolves a lead's current qualification stage.
func (s *Service) GetStage(ctx context.Context, leadID uuid.UUID) (domain.Stage, error) {
	if _, err := s.leads.Get(ctx, leadID); err != nil {
		return domain.Stage{}, err
	}
	cfg := s.active.Load()
	return s.machine.Current(ctx, cfg.Stages, leadID)
}

// GetHistory returns a lead's retained score records, newest first, together
// with the trend derived from them.
func (s *Service) GetHistory(ctx context.Context, leadID uuid.UUID) ([]domain.ScoreRecord, domain.Trend, error) {
	if _, err := s.leads.Get(ctx, leadID); err != nil {
		return nil, "", err
	}
	records, err := s.history.Records(ctx, leadID)
	if err != nil {
		return nil, "", fmt.Errorf("read score history: %w", err)
	}
	return records, history.TrendFor(records), nil
}

// ListTransitions returns a lead's stage transition audit trail, newest first.
func (s *Service) ListTransitions(ctx context.Context, leadID uuid.UUID) ([]domain.StageTransition, error) {
	if _, err := s.leads.Get(ctx, leadID); err != nil {
		return nil, err
	}
	return s.machine.History(ctx, leadID)
}

// GetPrediction returns the predictive insights for a scored lead, serving
// from cache when the lead has not been rescored since the last prediction.
// A lead without any score record cannot be predicted.
func (s *Service) GetPrediction(ctx context.Context, leadID uuid.UUID) (domain.Prediction, error) {
	if p, ok := s.cache.Prediction(ctx, leadID); ok {
		return p, nil
	}

	lead, err := s.leads.Get(ctx, leadID)
	if err != nil {
		return domain.Prediction{}, err
	}

	record, ok, err := s.latestRecord(ctx, leadID)
	if err != nil {
		return domain.Prediction{}, err
	}
	if !ok {
		return domain.Prediction{}, apperr.Conflict("lead has not been scored yet")
	}

	p := s.predictor.Predict(ctx, &lead, record)
	s.cache.SetPrediction(ctx, p)
	return p, nil
}

// GetBenchmarks returns the population benchmark snapshot, recomputing it on
// a cache miss.
func (s *Service) GetBenchmarks(ctx context.Context) (domain.Benchmark, error) {
	if b, ok := s.cache.Benchmark(ctx); ok {
		return b, nil
	}
	return s.RecomputeBenchmark(ctx)
}

// RecomputeBenchmark takes a fresh population snapshot and caches it. The
// scheduler calls this on its interval.
func (s *Service) RecomputeBenchmark(ctx context.Context) (domain.Benchmark, error) {
	b, err := s.tracker.Compute(ctx)
	if err != nil {
		return domain.Benchmark{}, fmt.Errorf("compute benchmark: %w", err)
	}
	s.cache.SetBenchmark(ctx, b)
	return b, nil
}

// UpdateConfig validates a proposed configuration, persists it as a new
// active version and swaps the in-memory snapshot. On any validation failure
// nothing is stored and the previous configuration stays live.
func (s *Service) UpdateConfig(ctx context.Context, cfg rules.Config) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	version, err := s.repo.SaveAndActivate(ctx, cfg)
	if err != nil {
		return 0, fmt.Errorf("activate config: %w", err)
	}
	cfg.Version = version
	s.active.Store(&cfg)

	s.log.Info("scoring config activated", "version", version)
	s.bus.Publish(ctx, events.ConfigUpdated{
		BaseEvent: events.NewBaseEvent(),
		Version:   version,
	})
	return version, nil
}

// RescoreAll recomputes every lead's score against the current active
// configuration. Leads are processed in bounded chunks with a small worker
// pool; a cancelled context stops the run at the next chunk boundary and the
// report marks the run as cancelled. Individual lead failures are counted and
// logged, never fatal to the run.
func (s *Service) RescoreAll(ctx context.Context) (RescoreReport, error) {
	var processed, failed atomic.Int64
	cancelled := false

	for offset := 0; ; offset += s.chunkSize {
		if err := ctx.Err(); err != nil {
			cancelled = true
			break
		}

		ids, err := s.leads.ListIDs(ctx, s.chunkSize, offset)
		if err != nil {
			return RescoreReport{}, fmt.Errorf("list leads for rescore: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(rescoreWorkers)
		for _, id := range ids {
			g.Go(func() error {
				if _, err := s.CalculateScore(gctx, id); err != nil {
					failed.Add(1)
					s.log.Error("rescore lead failed", "leadId", id.String(), "error", err)
					return nil
				}
				processed.Add(1)
				return nil
			})
		}
		_ = g.Wait()
	}

	report := RescoreReport{
		Processed: int(processed.Load()),
		Failed:    int(failed.Load()),
		Cancelled: cancelled,
	}
	s.log.Info("rescore run finished",
		"processed", report.Processed, "failed", report.Failed, "cancelled", report.Cancelled)
	s.bus.Publish(ctx, events.RescoreCompleted{
		BaseEvent: events.NewBaseEvent(),
		Processed: report.Processed,
		Failed:    report.Failed,
		Cancelled: report.Cancelled,
	})
	return report, nil
}

// latestRecord prefers the in-memory history window and falls back to the
// durable store, so predictions survive process restarts.
func (s *Service) latestRecord(ctx context.Context, leadID uuid.UUID) (domain.ScoreRecord, bool, error) {
	record, ok, err := s.history.Latest(ctx, leadID)
	if err != nil {
		return domain.ScoreRecord{}, false, fmt.Errorf("read latest score: %w", err)
	}
	if ok {
		return record, true, nil
	}

	records, err := s.repo.ListScoreRecords(ctx, leadID, 1)
	if err != nil {
		return domain.ScoreRecord{}, false, fmt.Errorf("read persisted scores: %w", err)
	}
	if len(records) == 0 {
		return domain.ScoreRecord{}, false, nil
	}
	return records[0], true, nil
}
