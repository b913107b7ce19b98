// Package service provides the ingestion and prediction workflows.
package service

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rampex1/FootballMatchPredictor/internal/features"
	"github.com/Rampex1/FootballMatchPredictor/internal/metrics"
	"github.com/Rampex1/FootballMatchPredictor/internal/ml"
	"github.com/Rampex1/FootballMatchPredictor/internal/models"
)

// FixturePrediction pairs the two independent predictions for one fixture.
// Each side is classified one-vs-rest from its own rolling history, so the
// probabilities carry no joint constraint.
type FixturePrediction struct {
	Home models.Prediction `json:"home"`
	Away models.Prediction `json:"away"`
}

// ConfidentPick returns the side predicted to win when exactly one side was,
// mirroring the evaluation supplement that scores fixtures where the two
// independent classifiers agree on a single winner.
func (fp *FixturePrediction) ConfidentPick() (models.Prediction, bool) {
	if fp.Home.IsWin() && !fp.Away.IsWin() {
		return fp.Home, true
	}
	if fp.Away.IsWin() && !fp.Home.IsWin() {
		return fp.Away, true
	}
	return models.Prediction{}, false
}

// PredictionService scores upcoming fixtures with a trained model
type PredictionService struct {
	engine *features.Engine
	cache  *ml.PredictionCache
	logger *logrus.Logger
}

// NewPredictionService creates a new prediction service. The cache is
// optional; pass nil to score every request from scratch.
func NewPredictionService(engine *features.Engine, cache *ml.PredictionCache, logger *logrus.Logger) (*PredictionService, error) {
	if engine == nil {
		return nil, fmt.Errorf("feature engine is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &PredictionService{
		engine: engine,
		cache:  cache,
		logger: logger,
	}, nil
}

// PredictFixture scores both sides of an upcoming fixture. The home side is
// encoded as the home team's match and the away side as the away team's, each
// against its own strictly prior history.
func (s *PredictionService) PredictFixture(model *models.TrainedModel, fixture models.Fixture) (*FixturePrediction, error) {
	if model == nil {
		return nil, fmt.Errorf("trained model is required")
	}
	if err := fixture.Validate(); err != nil {
		return nil, err
	}

	home, err := s.predictSide(model, fixture.HomeTeam, fixture.AwayTeam, models.VenueHome, fixture.Date, fixture.KickoffHour)
	if err != nil {
		return nil, fmt.Errorf("predicting home side: %w", err)
	}

	away, err := s.predictSide(model, fixture.AwayTeam, fixture.HomeTeam, models.VenueAway, fixture.Date, fixture.KickoffHour)
	if err != nil {
		return nil, fmt.Errorf("predicting away side: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"home_team":        fixture.HomeTeam,
		"away_team":        fixture.AwayTeam,
		"date":             fixture.Date.Format("2006-01-02"),
		"home_probability": home.Probability,
		"away_probability": away.Probability,
	}).Info("Scored fixture")

	return &FixturePrediction{Home: home, Away: away}, nil
}

// predictSide scores one team's view of the fixture
func (s *PredictionService) predictSide(model *models.TrainedModel, team, opponent string, venue models.Venue, date time.Time, hour int) (models.Prediction, error) {
	key := ml.CacheKey{
		ModelID:  model.ID(),
		Team:     team,
		Opponent: opponent,
		Venue:    venue,
		Date:     date,
	}

	if s.cache != nil {
		if hit := s.cache.Get(key); hit != nil {
			return *hit, nil
		}
	}

	row, err := s.engine.RowForFixture(team, opponent, venue, date, hour)
	if err != nil {
		return models.Prediction{}, err
	}

	vector, err := row.Vector(model.FeatureNames())
	if err != nil {
		return models.Prediction{}, err
	}

	outcome, probability := model.Classify(vector)
	prediction := models.Prediction{
		Team:        team,
		Opponent:    opponent,
		Venue:       venue,
		MatchDate:   date,
		Outcome:     outcome,
		Probability: probability,
		FairOdds:    models.FairOddsFromProbability(probability),
		ModelID:     model.ID(),
		PredictedAt: time.Now().UTC(),
	}

	metrics.RecordPrediction(string(outcome))

	if s.cache != nil {
		s.cache.Set(key, &prediction)
	}

	return prediction, nil
}
