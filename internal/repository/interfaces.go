package repository

import (
	"context"
	"time"

	"github.com/Rampex1/FootballMatchPredictor/internal/models"
	"github.com/google/uuid"
)

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	SaveMatch(ctx context.Context, match *models.MatchRecord) error
	GetAllMatches(ctx context.Context) ([]*models.MatchRecord, error)
	GetMatchesByTeam(ctx context.Context, team string) ([]*models.MatchRecord, error)
	GetMatchesBefore(ctx context.Context, team string, date time.Time) ([]*models.MatchRecord, error)
	CountMatches(ctx context.Context) (int, error)
}

// ModelRunRepository defines the interface for training run metadata access
type ModelRunRepository interface {
	SaveModelRun(ctx context.Context, run *models.ModelRun) error
	GetModelRunByID(ctx context.Context, id uuid.UUID) (*models.ModelRun, error)
	GetLatestModelRun(ctx context.Context) (*models.ModelRun, error)
	ListModelRuns(ctx context.Context, limit int) ([]*models.ModelRun, error)
}
