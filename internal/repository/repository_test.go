package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rampex1/FootballMatchPredictor/internal/database"
	"github.com/Rampex1/FootballMatchPredictor/internal/models"
	"github.com/google/uuid"
)

// Integration tests. database.SetupTestDB skips them unless
// PREDICTOR_TEST_DB=1 points at a local Postgres.

func testMatch(team, opponent string, date time.Time, venue models.Venue, result models.Result) *models.MatchRecord {
	return &models.MatchRecord{
		Date:        date,
		KickoffHour: 15,
		Team:        team,
		Opponent:    opponent,
		Venue:       venue,
		Result:      result,
		Stats: map[string]float64{
			"gf": 2, "ga": 1, "sh": 14, "sot": 6,
			"dist": 16.3, "fk": 1, "pk": 0, "pkatt": 0,
		},
		Season:      "2022",
		Competition: "Premier League",
	}
}

func TestMatchRepositorySaveAndGetAll(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	date := time.Date(2022, 8, 13, 0, 0, 0, 0, time.UTC)
	home := testMatch("Liverpool", "Burnley", date, models.VenueHome, models.ResultWin)
	away := testMatch("Burnley", "Liverpool", date, models.VenueAway, models.ResultLoss)

	if err := repos.Match.SaveMatch(ctx, home); err != nil {
		t.Fatalf("failed to save home side: %v", err)
	}
	if err := repos.Match.SaveMatch(ctx, away); err != nil {
		t.Fatalf("failed to save away side: %v", err)
	}

	matches, err := repos.Match.GetAllMatches(ctx)
	if err != nil {
		t.Fatalf("failed to get matches: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	// Ordered by date, then team: Burnley sorts before Liverpool.
	if matches[0].Team != "Burnley" || matches[1].Team != "Liverpool" {
		t.Errorf("unexpected ordering: %s, %s", matches[0].Team, matches[1].Team)
	}
	if matches[1].Result != models.ResultWin {
		t.Errorf("expected win for Liverpool, got %s", matches[1].Result)
	}
	if matches[1].Stats["gf"] != 2 {
		t.Errorf("expected gf 2, got %v", matches[1].Stats["gf"])
	}
}

func TestMatchRepositorySaveDuplicate(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	date := time.Date(2022, 8, 13, 0, 0, 0, 0, time.UTC)
	match := testMatch("Liverpool", "Burnley", date, models.VenueHome, models.ResultWin)

	if err := repos.Match.SaveMatch(ctx, match); err != nil {
		t.Fatalf("failed to save match: %v", err)
	}
	// Same date|team|opponent key: silently ignored.
	if err := repos.Match.SaveMatch(ctx, match); err != nil {
		t.Fatalf("duplicate save should not error: %v", err)
	}

	count, err := repos.Match.CountMatches(ctx)
	if err != nil {
		t.Fatalf("failed to count matches: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 match after duplicate save, got %d", count)
	}
}

func TestMatchRepositoryGetMatchesBefore(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	base := time.Date(2022, 8, 1, 0, 0, 0, 0, time.UTC)
	opponents := []string{"Burnley", "Chelsea", "Everton"}
	for i, opponent := range opponents {
		match := testMatch("Liverpool", opponent, base.AddDate(0, 0, i*7), models.VenueHome, models.ResultWin)
		if err := repos.Match.SaveMatch(ctx, match); err != nil {
			t.Fatalf("failed to save match: %v", err)
		}
	}

	// Strictly before the second match's date.
	before, err := repos.Match.GetMatchesBefore(ctx, "Liverpool", base.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("failed to get matches before date: %v", err)
	}
	if len(before) != 1 {
		t.Fatalf("expected 1 match strictly before date, got %d", len(before))
	}
	if before[0].Opponent != "Burnley" {
		t.Errorf("expected Burnley, got %s", before[0].Opponent)
	}

	byTeam, err := repos.Match.GetMatchesByTeam(ctx, "Liverpool")
	if err != nil {
		t.Fatalf("failed to get matches by team: %v", err)
	}
	if len(byTeam) != 3 {
		t.Errorf("expected 3 matches for Liverpool, got %d", len(byTeam))
	}
}

func TestModelRunRepositoryRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	run := &models.ModelRun{
		ID:              uuid.New(),
		TrainedAt:       time.Now().UTC().Truncate(time.Microsecond),
		CutoffDate:      time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		Window:          3,
		FeatureNames:    []string{"venue_code", "opp_code", "hour", "day_code", "gf_rolling"},
		Trees:           50,
		MinSamplesSplit: 10,
		Seed:            1,
		Precision:       0.6125,
		Accuracy:        0.6013,
		TrainRows:       1520,
		TestRows:        276,
	}

	if err := repos.ModelRun.SaveModelRun(ctx, run); err != nil {
		t.Fatalf("failed to save model run: %v", err)
	}

	retrieved, err := repos.ModelRun.GetModelRunByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("failed to get model run: %v", err)
	}
	if retrieved.Window != 3 || retrieved.Trees != 50 {
		t.Errorf("unexpected parameters: window %d trees %d", retrieved.Window, retrieved.Trees)
	}
	if len(retrieved.FeatureNames) != 5 {
		t.Errorf("expected 5 feature names, got %d", len(retrieved.FeatureNames))
	}
	if retrieved.Precision != run.Precision {
		t.Errorf("expected precision %v, got %v", run.Precision, retrieved.Precision)
	}

	latest, err := repos.ModelRun.GetLatestModelRun(ctx)
	if err != nil {
		t.Fatalf("failed to get latest model run: %v", err)
	}
	if latest.ID != run.ID {
		t.Errorf("expected latest run %v, got %v", run.ID, latest.ID)
	}

	runs, err := repos.ModelRun.ListModelRuns(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list model runs: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestModelRunRepositoryNotFound(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = repos.ModelRun.GetModelRunByID(ctx, uuid.New())
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = repos.ModelRun.GetLatestModelRun(ctx)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty table, got %v", err)
	}
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	if err == nil {
		t.Fatal("expected error for nil database")
	}
}
