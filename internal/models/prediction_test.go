package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixtureValidate(t *testing.T) {
	valid := Fixture{
		HomeTeam:    "Arsenal",
		AwayTeam:    "Chelsea",
		Date:        time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC),
		KickoffHour: 16,
	}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name    string
		fixture Fixture
	}{
		{"missing home team", Fixture{AwayTeam: "Chelsea", Date: valid.Date}},
		{"missing away team", Fixture{HomeTeam: "Arsenal", Date: valid.Date}},
		{"team plays itself", Fixture{HomeTeam: "Arsenal", AwayTeam: "Arsenal", Date: valid.Date}},
		{"zero date", Fixture{HomeTeam: "Arsenal", AwayTeam: "Chelsea"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fixture.Validate()
			require.Error(t, err)

			var ve *ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestPredictionMeetsThreshold(t *testing.T) {
	p := Prediction{Outcome: OutcomeWin, Probability: 0.65}

	assert.True(t, p.IsWin())
	assert.True(t, p.MeetsThreshold(0.6))
	assert.True(t, p.MeetsThreshold(0.65))
	assert.False(t, p.MeetsThreshold(0.7))
}

func TestFairOddsFromProbability(t *testing.T) {
	cases := []struct {
		probability float64
		want        string
	}{
		{0.5, "2"},
		{0.25, "4"},
		{0.65, "1.54"},
		{1.0, "1"},
	}
	for _, tc := range cases {
		got := FairOddsFromProbability(tc.probability)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"fair odds for %.2f: got %s, want %s", tc.probability, got, tc.want)
	}

	assert.True(t, FairOddsFromProbability(0).IsZero())
	assert.True(t, FairOddsFromProbability(-0.1).IsZero())
}
