package database

import (
	"context"
	"fmt"

	"github.com/Rampex1/FootballMatchPredictor/internal/config"
)

// schemaStatements creates the two tables the predictor persists: one row per
// match side keyed on date|team|opponent, and one row of metadata per
// training run. The fitted forest itself is never stored.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		id BIGSERIAL PRIMARY KEY,
		match_date DATE NOT NULL,
		kickoff_hour SMALLINT NOT NULL DEFAULT 0,
		team TEXT NOT NULL,
		opponent TEXT NOT NULL,
		venue TEXT NOT NULL,
		result TEXT NOT NULL,
		stats JSONB NOT NULL,
		season TEXT NOT NULL DEFAULT '',
		competition TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (match_date, team, opponent)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_team_date ON matches (team, match_date)`,
	`CREATE TABLE IF NOT EXISTS model_runs (
		id UUID PRIMARY KEY,
		trained_at TIMESTAMPTZ NOT NULL,
		cutoff_date DATE NOT NULL,
		rolling_window SMALLINT NOT NULL,
		feature_names TEXT[] NOT NULL,
		trees INT NOT NULL,
		min_samples_split INT NOT NULL,
		seed BIGINT NOT NULL,
		model_precision DOUBLE PRECISION NOT NULL,
		accuracy DOUBLE PRECISION NOT NULL,
		train_rows INT NOT NULL,
		test_rows INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_model_runs_trained_at ON model_runs (trained_at DESC)`,
}

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	// Create connection pool
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// InitSchema creates the matches and model_runs tables when missing
func (db *DB) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
