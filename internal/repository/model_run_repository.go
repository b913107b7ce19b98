package repository

import (
	"context"
	"fmt"

	"github.com/Rampex1/FootballMatchPredictor/internal/database"
	"github.com/Rampex1/FootballMatchPredictor/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresModelRunRepository implements ModelRunRepository for PostgreSQL
type PostgresModelRunRepository struct {
	db *database.DB
}

// NewPostgresModelRunRepository creates a new model run repository
func NewPostgresModelRunRepository(db *database.DB) ModelRunRepository {
	return &PostgresModelRunRepository{db: db}
}

const modelRunColumns = "id, trained_at, cutoff_date, rolling_window, feature_names, trees, min_samples_split, seed, model_precision, accuracy, train_rows, test_rows, created_at"

// SaveModelRun inserts the metadata of one training run
func (r *PostgresModelRunRepository) SaveModelRun(ctx context.Context, run *models.ModelRun) error {
	query := `
		INSERT INTO model_runs (id, trained_at, cutoff_date, rolling_window, feature_names, trees, min_samples_split, seed, model_precision, accuracy, train_rows, test_rows)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		run.ID, run.TrainedAt, run.CutoffDate, run.Window, run.FeatureNames,
		run.Trees, run.MinSamplesSplit, run.Seed, run.Precision, run.Accuracy,
		run.TrainRows, run.TestRows,
	)
	if err != nil {
		return fmt.Errorf("failed to save model run: %w", err)
	}

	return nil
}

// GetModelRunByID retrieves a training run by ID
func (r *PostgresModelRunRepository) GetModelRunByID(ctx context.Context, id uuid.UUID) (*models.ModelRun, error) {
	query := `
		SELECT ` + modelRunColumns + `
		FROM model_runs WHERE id = $1
	`

	run := &models.ModelRun{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&run.ID, &run.TrainedAt, &run.CutoffDate, &run.Window, &run.FeatureNames,
		&run.Trees, &run.MinSamplesSplit, &run.Seed, &run.Precision, &run.Accuracy,
		&run.TrainRows, &run.TestRows, &run.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model run: %w", err)
	}

	return run, nil
}

// GetLatestModelRun retrieves the most recently trained run
func (r *PostgresModelRunRepository) GetLatestModelRun(ctx context.Context) (*models.ModelRun, error) {
	query := `
		SELECT ` + modelRunColumns + `
		FROM model_runs
		ORDER BY trained_at DESC
		LIMIT 1
	`

	run := &models.ModelRun{}
	err := r.db.GetPool().QueryRow(ctx, query).Scan(
		&run.ID, &run.TrainedAt, &run.CutoffDate, &run.Window, &run.FeatureNames,
		&run.Trees, &run.MinSamplesSplit, &run.Seed, &run.Precision, &run.Accuracy,
		&run.TrainRows, &run.TestRows, &run.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest model run: %w", err)
	}

	return run, nil
}

// ListModelRuns retrieves recent training runs, newest first
func (r *PostgresModelRunRepository) ListModelRuns(ctx context.Context, limit int) ([]*models.ModelRun, error) {
	if limit < 1 {
		limit = 20
	}

	query := `
		SELECT ` + modelRunColumns + `
		FROM model_runs
		ORDER BY trained_at DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list model runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.ModelRun
	for rows.Next() {
		run := &models.ModelRun{}
		err := rows.Scan(
			&run.ID, &run.TrainedAt, &run.CutoffDate, &run.Window, &run.FeatureNames,
			&run.Trees, &run.MinSamplesSplit, &run.Seed, &run.Precision, &run.Accuracy,
			&run.TrainRows, &run.TestRows, &run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan model run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
