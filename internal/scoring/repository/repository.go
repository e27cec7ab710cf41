// Package repository implements the scoring context's persistence with
// PostgreSQL: versioned rule configurations, the score record audit trail,
// and per-lead stage tracking with its transition log.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"leadscore_backend/internal/scoring/rules"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new scoring repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// LoadActive returns the currently active scoring configuration.
func (r *Repo) LoadActive(ctx context.Context) (rules.Config, bool, error) {
	query := `
		SELECT version, payload
		FROM rule_configs
		WHERE is_active
		ORDER BY version DESC
		LIMIT 1`

	var version int
	var payload []byte
	err := r.pool.QueryRow(ctx, query).Scan(&version, &payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rules.Config{}, false, nil
		}
		return rules.Config{}, false, fmt.Errorf("load active config: %w", err)
	}

	var cfg rules.Config
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return rules.Config{}, false, fmt.Errorf("decode active config: %w", err)
	}
	cfg.Version = version

	return cfg, true, nil
}

// SaveAndActivate stores a config as the next version and flips the active
// flag in one transaction. The caller has already validated the config.
func (r *Repo) SaveAndActivate(ctx context.Context, cfg rules.Config) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("save config: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var version int
	err = tx.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) + 1 FROM rule_configs`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("save config: next version: %w", err)
	}
	cfg.Version = version

	payload, err := json.Marshal(cfg)
	if err != nil {
		return 0, fmt.Errorf("save config: encode: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE rule_configs SET is_active = FALSE WHERE is_active`); err != nil {
		return 0, fmt.Errorf("save config: deactivate previous: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO rule_configs (version, payload, is_active, created_at)
		VALUES ($1, $2, TRUE, NOW())`, version, payload)
	if err != nil {
		return 0, fmt.Errorf("save config: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("save config: commit: %w", err)
	}

	return version, nil
}
