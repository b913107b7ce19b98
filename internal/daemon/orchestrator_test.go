package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rampex1/FootballMatchPredictor/internal/config"
	"github.com/Rampex1/FootballMatchPredictor/internal/logger"
	"github.com/Rampex1/FootballMatchPredictor/internal/models"
)

// writeDataset writes a small two-team season spanning the training cutoff.
// With a window of 1 every match after each team's first yields a feature
// row: six training rows with both outcome classes before 2022-01-01 and
// four test rows after it.
func writeDataset(t *testing.T) string {
	t.Helper()

	lines := []string{
		"date,time,comp,round,day,venue,result,gf,ga,opponent,sh,sot,dist,fk,pk,pkatt,season,team",
		"2021-09-01,15:00,Premier League,Matchweek 3,Wed,Home,W,2,0,Burnley,14,6,15.2,1,0,0,2022,Liverpool",
		"2021-09-01,15:00,Premier League,Matchweek 3,Wed,Away,L,0,2,Liverpool,7,2,18.4,0,0,0,2022,Burnley",
		"2021-09-15,17:30,Premier League,Matchweek 5,Wed,Away,L,0,1,Burnley,9,3,17.1,1,0,0,2022,Liverpool",
		"2021-09-15,17:30,Premier League,Matchweek 5,Wed,Home,W,1,0,Liverpool,11,5,16.0,2,0,0,2022,Burnley",
		"2021-10-01,15:00,Premier League,Matchweek 7,Fri,Home,W,3,1,Burnley,16,8,14.6,1,1,1,2022,Liverpool",
		"2021-10-01,15:00,Premier League,Matchweek 7,Fri,Away,L,1,3,Liverpool,8,3,19.0,0,0,0,2022,Burnley",
		"2021-10-15,12:30,Premier League,Matchweek 8,Sat,Away,W,2,1,Burnley,13,5,15.8,1,0,0,2022,Liverpool",
		"2021-10-15,12:30,Premier League,Matchweek 8,Sat,Home,L,1,2,Liverpool,10,4,17.5,1,0,1,2022,Burnley",
		"2022-01-15,15:00,Premier League,Matchweek 22,Sat,Home,W,2,0,Burnley,15,7,14.9,2,0,0,2022,Liverpool",
		"2022-01-15,15:00,Premier League,Matchweek 22,Sat,Away,L,0,2,Liverpool,6,2,20.3,0,0,0,2022,Burnley",
		"2022-02-01,20:00,Premier League,Matchweek 24,Tue,Away,L,1,2,Burnley,12,4,16.7,1,0,0,2022,Liverpool",
		"2022-02-01,20:00,Premier League,Matchweek 24,Tue,Home,W,2,1,Liverpool,9,5,15.5,1,1,1,2022,Burnley",
	}

	path := filepath.Join(t.TempDir(), "matches.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func testDaemonConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		App: config.AppConfig{
			Name:        "match-predictor-test",
			Environment: "development",
			LogLevel:    "error",
		},
		Dataset: config.DatasetConfig{
			Source:      "csv",
			Path:        writeDataset(t),
			Competition: "Premier League",
		},
		Features: config.FeaturesConfig{Window: 1},
		Training: config.TrainingConfig{
			CutoffDate:      "2022-01-01",
			Trees:           5,
			MinSamplesSplit: 2,
			Seed:            1,
		},
		Prediction: config.PredictionConfig{
			CacheTTLMinutes:     5,
			CacheCleanupMinutes: 10,
		},
		Scheduler: config.SchedulerConfig{Enabled: false},
	}
}

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()

	t.Setenv("HEALTH_PORT", "0")
	o, err := NewOrchestrator(testDaemonConfig(t), nil, nil, logger.NewLogger("error", "development"))
	require.NoError(t, err)
	return o
}

func TestNewOrchestratorRequiresConfig(t *testing.T) {
	_, err := NewOrchestrator(nil, nil, nil, logger.NewLogger("error", "development"))
	assert.Error(t, err)
}

func TestStartIngestsTrainsAndServes(t *testing.T) {
	o := newTestOrchestrator(t)

	require.NoError(t, o.Start(context.Background()))
	t.Cleanup(func() { _ = o.Stop() })

	status := o.GetStatus()
	assert.True(t, status.Running)
	assert.Equal(t, 12, status.StoreMatches)
	assert.NotEmpty(t, status.ModelID)
	assert.False(t, status.ModelTrainedAt.IsZero())

	assert.Equal(t, 12, status.LastIngestion.Fetched)
	assert.Equal(t, 12, status.LastIngestion.Ingested)
	assert.Zero(t, status.LastIngestion.Failed)
	assert.Zero(t, status.LastIngestion.Filtered)

	assert.GreaterOrEqual(t, status.Accuracy, 0.0)
	assert.LessOrEqual(t, status.Accuracy, 1.0)

	model := o.CurrentModel()
	require.NotNil(t, model)
	assert.Equal(t, 1, model.Window())
}

func TestPredictScoresBothSides(t *testing.T) {
	o := newTestOrchestrator(t)

	require.NoError(t, o.Start(context.Background()))
	t.Cleanup(func() { _ = o.Stop() })

	fixture := models.Fixture{
		HomeTeam:    "Liverpool",
		AwayTeam:    "Burnley",
		Date:        time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		KickoffHour: 15,
	}

	prediction, err := o.Predict(fixture)
	require.NoError(t, err)

	assert.Equal(t, "Liverpool", prediction.Home.Team)
	assert.Equal(t, "Burnley", prediction.Home.Opponent)
	assert.Equal(t, models.VenueHome, prediction.Home.Venue)
	assert.Equal(t, "Burnley", prediction.Away.Team)
	assert.Equal(t, models.VenueAway, prediction.Away.Venue)

	for _, side := range []models.Prediction{prediction.Home, prediction.Away} {
		assert.GreaterOrEqual(t, side.Probability, 0.0)
		assert.LessOrEqual(t, side.Probability, 1.0)
		assert.Contains(t, []models.Outcome{models.OutcomeWin, models.OutcomeNotWin}, side.Outcome)
	}
}

func TestPredictWithoutModel(t *testing.T) {
	o := newTestOrchestrator(t)

	fixture := models.Fixture{
		HomeTeam:    "Liverpool",
		AwayTeam:    "Burnley",
		Date:        time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		KickoffHour: 15,
	}

	_, err := o.Predict(fixture)
	assert.True(t, errors.Is(err, ErrModelNotReady))
}

func TestStartTwice(t *testing.T) {
	o := newTestOrchestrator(t)

	require.NoError(t, o.Start(context.Background()))
	t.Cleanup(func() { _ = o.Stop() })

	assert.Error(t, o.Start(context.Background()))
}

func TestStopWithoutStart(t *testing.T) {
	o := newTestOrchestrator(t)
	assert.NoError(t, o.Stop())
}

func TestStartFailsWithMissingDataset(t *testing.T) {
	t.Setenv("HEALTH_PORT", "0")

	cfg := testDaemonConfig(t)
	cfg.Dataset.Path = filepath.Join(t.TempDir(), "missing.csv")

	o, err := NewOrchestrator(cfg, nil, nil, logger.NewLogger("error", "development"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Stop() })

	assert.Error(t, o.Start(context.Background()))
}

func TestRetrainNowReplacesModel(t *testing.T) {
	o := newTestOrchestrator(t)

	require.NoError(t, o.Start(context.Background()))
	t.Cleanup(func() { _ = o.Stop() })

	first := o.CurrentModel()
	require.NotNil(t, first)

	require.NoError(t, o.RetrainNow(context.Background()))

	second := o.CurrentModel()
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestIngestNowSkipsDuplicates(t *testing.T) {
	o := newTestOrchestrator(t)

	require.NoError(t, o.Start(context.Background()))
	t.Cleanup(func() { _ = o.Stop() })

	result, err := o.IngestNow(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, result.Fetched)
	assert.Zero(t, result.Ingested)
	assert.Equal(t, 12, result.Duplicates)
	assert.Equal(t, 12, o.GetStatus().StoreMatches)
}
