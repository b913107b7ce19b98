package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fixture represents a prospective, unplayed match
type Fixture struct {
	HomeTeam    string    `json:"home_team" validate:"required"`
	AwayTeam    string    `json:"away_team" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	KickoffHour int       `json:"kickoff_hour" validate:"gte=0,lte=23"`
}

// Validate checks the fixture for required fields
func (f *Fixture) Validate() error {
	if strings.TrimSpace(f.HomeTeam) == "" {
		return NewValidationError("home_team", "", "home team is required")
	}
	if strings.TrimSpace(f.AwayTeam) == "" {
		return NewValidationError("away_team", "", "away team is required")
	}
	if f.HomeTeam == f.AwayTeam {
		return NewValidationError("away_team", f.AwayTeam, "a team cannot play itself")
	}
	if f.Date.IsZero() {
		return NewValidationError("date", "", "fixture date is required")
	}
	return nil
}

// Prediction represents a model prediction for one side of a fixture. Both
// sides of a fixture are predicted independently as one-vs-rest problems, so
// the two win probabilities are not required to sum to any fixed total.
type Prediction struct {
	Team        string          `json:"team"`
	Opponent    string          `json:"opponent"`
	Venue       Venue           `json:"venue"`
	MatchDate   time.Time       `json:"match_date"`
	Outcome     Outcome         `json:"outcome"`
	Probability float64         `json:"probability"`
	FairOdds    decimal.Decimal `json:"fair_odds"`
	ModelID     uuid.UUID       `json:"model_id"`
	PredictedAt time.Time       `json:"predicted_at"`
}

// IsWin reports whether the predicted outcome is the positive class
func (p *Prediction) IsWin() bool {
	return p.Outcome == OutcomeWin
}

// MeetsThreshold checks if the win probability meets the given threshold
func (p *Prediction) MeetsThreshold(threshold float64) bool {
	return p.Probability >= threshold
}

// FairOddsFromProbability converts a win probability into decimal odds,
// rounded to two places. A non-positive probability yields zero odds.
func FairOddsFromProbability(p float64) decimal.Decimal {
	if p <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).Div(decimal.NewFromFloat(p)).Round(2)
}
