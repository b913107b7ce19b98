package service

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rampex1/FootballMatchPredictor/internal/features"
	"github.com/Rampex1/FootballMatchPredictor/internal/ml"
	"github.com/Rampex1/FootballMatchPredictor/internal/models"
	"github.com/Rampex1/FootballMatchPredictor/internal/store"
)

// venueClassifier predicts from the venue code alone: home sides win, away
// sides do not.
type venueClassifier struct{}

func (venueClassifier) PredictProbability(vector []float64) float64 {
	if vector[0] == 1 {
		return 0.8
	}
	return 0.3
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func appendMatch(t *testing.T, s *store.MatchStore, team, opponent string, date time.Time, venue models.Venue, result models.Result) {
	t.Helper()
	err := s.Append(models.MatchRecord{
		Date:        date,
		KickoffHour: 15,
		Team:        team,
		Opponent:    opponent,
		Venue:       venue,
		Result:      result,
		Stats: map[string]float64{
			"gf": 2, "ga": 0, "sh": 12, "sot": 5, "dist": 16, "fk": 1, "pk": 0, "pkatt": 0,
		},
		Season:      "2023",
		Competition: "Premier League",
	})
	require.NoError(t, err)
}

func seedHistory(t *testing.T, s *store.MatchStore) {
	t.Helper()
	for _, d := range []time.Time{day(2023, 1, 1), day(2023, 1, 8)} {
		appendMatch(t, s, "Liverpool", "Burnley", d, models.VenueHome, models.ResultWin)
		appendMatch(t, s, "Burnley", "Liverpool", d, models.VenueAway, models.ResultLoss)
	}
}

func newPredictionFixture(t *testing.T, cache *ml.PredictionCache) (*PredictionService, *models.TrainedModel) {
	t.Helper()

	matchStore := store.NewMatchStore()
	seedHistory(t, matchStore)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	engine, err := features.NewEngine(matchStore, 2, logger)
	require.NoError(t, err)

	svc, err := NewPredictionService(engine, cache, logger)
	require.NoError(t, err)

	model := models.NewTrainedModel(venueClassifier{}, features.FeatureNames(), 2, day(2023, 1, 10))
	return svc, model
}

// TestPredictFixture tests scoring both sides of a fixture
func TestPredictFixture(t *testing.T) {
	svc, model := newPredictionFixture(t, nil)

	fixture := models.Fixture{
		HomeTeam:    "Liverpool",
		AwayTeam:    "Burnley",
		Date:        day(2023, 1, 15),
		KickoffHour: 16,
	}

	result, err := svc.PredictFixture(model, fixture)
	require.NoError(t, err)

	assert.Equal(t, "Liverpool", result.Home.Team)
	assert.Equal(t, "Burnley", result.Home.Opponent)
	assert.Equal(t, models.VenueHome, result.Home.Venue)
	assert.Equal(t, models.OutcomeWin, result.Home.Outcome)
	assert.Equal(t, 0.8, result.Home.Probability)
	assert.Equal(t, "1.25", result.Home.FairOdds.String())

	assert.Equal(t, "Burnley", result.Away.Team)
	assert.Equal(t, models.VenueAway, result.Away.Venue)
	assert.Equal(t, models.OutcomeNotWin, result.Away.Outcome)
	assert.Equal(t, 0.3, result.Away.Probability)

	assert.Equal(t, model.ID(), result.Home.ModelID)
	assert.False(t, result.Home.PredictedAt.IsZero())

	pick, ok := result.ConfidentPick()
	require.True(t, ok)
	assert.Equal(t, "Liverpool", pick.Team)
}

// TestPredictFixtureValidation tests the input guard rails
func TestPredictFixtureValidation(t *testing.T) {
	svc, model := newPredictionFixture(t, nil)

	_, err := svc.PredictFixture(nil, models.Fixture{
		HomeTeam: "Liverpool",
		AwayTeam: "Burnley",
		Date:     day(2023, 1, 15),
	})
	require.Error(t, err)

	_, err = svc.PredictFixture(model, models.Fixture{
		HomeTeam: "Liverpool",
		AwayTeam: "Liverpool",
		Date:     day(2023, 1, 15),
	})
	var vErr *models.ValidationError
	require.True(t, errors.As(err, &vErr), "expected ValidationError, got %T", err)
}

// TestPredictFixtureInsufficientHistory tests a team with too few prior matches
func TestPredictFixtureInsufficientHistory(t *testing.T) {
	matchStore := store.NewMatchStore()
	seedHistory(t, matchStore)
	appendMatch(t, matchStore, "Chelsea", "Liverpool", day(2023, 1, 8), models.VenueHome, models.ResultDraw)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	engine, err := features.NewEngine(matchStore, 2, logger)
	require.NoError(t, err)
	svc, err := NewPredictionService(engine, nil, logger)
	require.NoError(t, err)

	model := models.NewTrainedModel(venueClassifier{}, features.FeatureNames(), 2, day(2023, 1, 10))

	_, err = svc.PredictFixture(model, models.Fixture{
		HomeTeam:    "Chelsea",
		AwayTeam:    "Burnley",
		Date:        day(2023, 1, 15),
		KickoffHour: 15,
	})
	var fmErr *models.FeatureMismatchError
	require.True(t, errors.As(err, &fmErr), "expected FeatureMismatchError, got %T", err)
	assert.Equal(t, "Chelsea", fmErr.Team)
}

// TestPredictFixtureUnknownOpponent tests an opponent outside the training teams
func TestPredictFixtureUnknownOpponent(t *testing.T) {
	svc, model := newPredictionFixture(t, nil)

	_, err := svc.PredictFixture(model, models.Fixture{
		HomeTeam:    "Liverpool",
		AwayTeam:    "Real Madrid",
		Date:        day(2023, 1, 15),
		KickoffHour: 15,
	})
	var fmErr *models.FeatureMismatchError
	require.True(t, errors.As(err, &fmErr), "expected FeatureMismatchError, got %T", err)
}

// TestPredictFixtureUsesCache tests that repeat fixtures hit the cache
func TestPredictFixtureUsesCache(t *testing.T) {
	cache := ml.NewPredictionCache(time.Minute, time.Minute)
	svc, model := newPredictionFixture(t, cache)

	fixture := models.Fixture{
		HomeTeam:    "Liverpool",
		AwayTeam:    "Burnley",
		Date:        day(2023, 1, 15),
		KickoffHour: 16,
	}

	first, err := svc.PredictFixture(model, fixture)
	require.NoError(t, err)

	hits, misses, _ := cache.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(2), misses)

	second, err := svc.PredictFixture(model, fixture)
	require.NoError(t, err)

	hits, misses, _ = cache.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(2), misses)

	assert.Equal(t, first.Home.Probability, second.Home.Probability)
	assert.Equal(t, first.Home.PredictedAt, second.Home.PredictedAt)
}

// TestConfidentPick tests the single-winner agreement helper
func TestConfidentPick(t *testing.T) {
	bothWin := FixturePrediction{
		Home: models.Prediction{Team: "A", Outcome: models.OutcomeWin},
		Away: models.Prediction{Team: "B", Outcome: models.OutcomeWin},
	}
	_, ok := bothWin.ConfidentPick()
	assert.False(t, ok)

	awayOnly := FixturePrediction{
		Home: models.Prediction{Team: "A", Outcome: models.OutcomeNotWin},
		Away: models.Prediction{Team: "B", Outcome: models.OutcomeWin},
	}
	pick, ok := awayOnly.ConfidentPick()
	require.True(t, ok)
	assert.Equal(t, "B", pick.Team)

	neither := FixturePrediction{
		Home: models.Prediction{Team: "A", Outcome: models.OutcomeNotWin},
		Away: models.Prediction{Team: "B", Outcome: models.OutcomeNotWin},
	}
	_, ok = neither.ConfidentPick()
	assert.False(t, ok)
}
