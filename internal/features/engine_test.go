package features

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rampex1/FootballMatchPredictor/internal/models"
	"github.com/Rampex1/FootballMatchPredictor/internal/store"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func fullStats(goalsFor float64) map[string]float64 {
	return map[string]float64{
		models.StatGoalsFor:        goalsFor,
		models.StatGoalsAgainst:    1,
		models.StatShots:           10,
		models.StatShotsOnTarget:   4,
		models.StatShotDistance:    17.5,
		models.StatFreeKicks:       1,
		models.StatPenalties:       0,
		models.StatPenaltyAttempts: 0,
	}
}

// appendPair appends both sides of one match so every opponent is also known
// to the store as a team.
func appendPair(t *testing.T, s *store.MatchStore, team, opponent string, date time.Time, hour int, goalsFor float64, result models.Result) {
	t.Helper()

	mirror := map[models.Result]models.Result{
		models.ResultWin:  models.ResultLoss,
		models.ResultDraw: models.ResultDraw,
		models.ResultLoss: models.ResultWin,
	}

	require.NoError(t, s.Append(models.MatchRecord{
		Date: date, KickoffHour: hour, Team: team, Opponent: opponent,
		Venue: models.VenueHome, Result: result, Stats: fullStats(goalsFor),
	}))
	require.NoError(t, s.Append(models.MatchRecord{
		Date: date, KickoffHour: hour, Team: opponent, Opponent: team,
		Venue: models.VenueAway, Result: mirror[result], Stats: fullStats(1),
	}))
}

func newTestEngine(t *testing.T, s *store.MatchStore, window int) *Engine {
	t.Helper()
	engine, err := NewEngine(s, window, nil)
	require.NoError(t, err)
	return engine
}

func rowsForTeam(rows []models.FeatureRow, team string) []models.FeatureRow {
	var out []models.FeatureRow
	for _, row := range rows {
		if row.Team == team {
			out = append(out, row)
		}
	}
	return out
}

func TestNewEngineRejectsBadWindow(t *testing.T) {
	_, err := NewEngine(store.NewMatchStore(), 0, nil)
	require.Error(t, err)

	var ce *models.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "window", ce.Parameter)

	_, err = NewEngine(nil, 3, nil)
	require.Error(t, err)
}

func TestFeatureNamesOrdering(t *testing.T) {
	names := FeatureNames()
	require.Len(t, names, 12)

	assert.Equal(t, []string{"venue_code", "opp_code", "hour", "day_code"}, names[:4])
	assert.Equal(t, "gf_rolling", names[4])
	assert.Equal(t, "pkatt_rolling", names[11])
}

func TestRowsColdStart(t *testing.T) {
	s := store.NewMatchStore()
	// Two matches per team with window 3: nobody has enough history.
	appendPair(t, s, "Arsenal", "Chelsea", day(2023, 1, 1), 15, 2, models.ResultWin)
	appendPair(t, s, "Arsenal", "Chelsea", day(2023, 1, 8), 15, 1, models.ResultDraw)

	engine := newTestEngine(t, s, 3)
	assert.Empty(t, engine.Rows())
}

func TestRowsRollingMeanScenario(t *testing.T) {
	s := store.NewMatchStore()
	// Arsenal score 2, 1, 3 goals. With window 2 only the third match emits a
	// row, and its rolling goals-for is the mean of the first two.
	appendPair(t, s, "Arsenal", "Chelsea", day(2023, 1, 1), 15, 2, models.ResultWin)
	appendPair(t, s, "Arsenal", "Brighton", day(2023, 1, 8), 15, 1, models.ResultDraw)
	appendPair(t, s, "Arsenal", "Wolves", day(2023, 1, 15), 15, 3, models.ResultWin)

	engine := newTestEngine(t, s, 2)
	rows := rowsForTeam(engine.Rows(), "Arsenal")

	require.Len(t, rows, 1)
	assert.Equal(t, day(2023, 1, 15), rows[0].Date)
	assert.Equal(t, 1.5, rows[0].Features["gf_rolling"])
	assert.True(t, rows[0].Label)
	assert.True(t, rows[0].LabelKnown)
}

func TestRowsNoLookahead(t *testing.T) {
	s := store.NewMatchStore()
	// The featured match carries a marker value that must never reach its own
	// rolling mean.
	appendPair(t, s, "Arsenal", "Chelsea", day(2023, 1, 1), 15, 5, models.ResultWin)
	appendPair(t, s, "Arsenal", "Brighton", day(2023, 1, 8), 15, 100, models.ResultWin)

	engine := newTestEngine(t, s, 1)
	rows := rowsForTeam(engine.Rows(), "Arsenal")

	require.Len(t, rows, 1)
	assert.Equal(t, 5.0, rows[0].Features["gf_rolling"])
}

func TestRowsCategoricalFeatures(t *testing.T) {
	s := store.NewMatchStore()
	appendPair(t, s, "Arsenal", "Chelsea", day(2023, 1, 2), 20, 2, models.ResultWin)  // Monday
	appendPair(t, s, "Arsenal", "Chelsea", day(2023, 1, 15), 16, 1, models.ResultWin) // Sunday

	engine := newTestEngine(t, s, 1)
	rows := rowsForTeam(engine.Rows(), "Arsenal")
	require.Len(t, rows, 1)

	features := rows[0].Features
	assert.Equal(t, 1.0, features["venue_code"], "home fixture")
	assert.Equal(t, 16.0, features["hour"])
	assert.Equal(t, 6.0, features["day_code"], "Sunday")
	// Sorted team set is [Arsenal, Chelsea], so Chelsea encodes as 1.
	assert.Equal(t, 1.0, features["opp_code"])
}

func TestRowsPartialStatisticUsesCarriersOnly(t *testing.T) {
	s := store.NewMatchStore()

	withSot := fullStats(2)
	withoutSot := fullStats(1)
	delete(withoutSot, models.StatShotsOnTarget)

	require.NoError(t, s.Append(models.MatchRecord{
		Date: day(2023, 1, 1), Team: "Arsenal", Opponent: "Chelsea",
		Venue: models.VenueHome, Result: models.ResultWin, Stats: withSot,
	}))
	require.NoError(t, s.Append(models.MatchRecord{
		Date: day(2023, 1, 8), Team: "Arsenal", Opponent: "Chelsea",
		Venue: models.VenueAway, Result: models.ResultDraw, Stats: withoutSot,
	}))
	require.NoError(t, s.Append(models.MatchRecord{
		Date: day(2023, 1, 15), Team: "Arsenal", Opponent: "Chelsea",
		Venue: models.VenueHome, Result: models.ResultWin, Stats: fullStats(3),
	}))
	require.NoError(t, s.Append(models.MatchRecord{
		Date: day(2023, 1, 1), Team: "Chelsea", Opponent: "Arsenal",
		Venue: models.VenueAway, Result: models.ResultLoss, Stats: fullStats(1),
	}))

	engine := newTestEngine(t, s, 2)
	rows := rowsForTeam(engine.Rows(), "Arsenal")

	// The window for the third match holds one record with shots on target
	// and one without, so the mean covers the carrier alone.
	require.Len(t, rows, 1)
	assert.Equal(t, 4.0, rows[0].Features["sot_rolling"])
}

func TestRowsSkippedWhenStatisticAbsentFromWindow(t *testing.T) {
	s := store.NewMatchStore()

	noSot := func(gf float64) map[string]float64 {
		stats := fullStats(gf)
		delete(stats, models.StatShotsOnTarget)
		return stats
	}

	require.NoError(t, s.Append(models.MatchRecord{
		Date: day(2023, 1, 1), Team: "Arsenal", Opponent: "Chelsea",
		Venue: models.VenueHome, Result: models.ResultWin, Stats: noSot(2),
	}))
	require.NoError(t, s.Append(models.MatchRecord{
		Date: day(2023, 1, 8), Team: "Arsenal", Opponent: "Chelsea",
		Venue: models.VenueAway, Result: models.ResultDraw, Stats: fullStats(3),
	}))
	require.NoError(t, s.Append(models.MatchRecord{
		Date: day(2023, 1, 1), Team: "Chelsea", Opponent: "Arsenal",
		Venue: models.VenueAway, Result: models.ResultLoss, Stats: fullStats(1),
	}))

	engine := newTestEngine(t, s, 1)
	rows := rowsForTeam(engine.Rows(), "Arsenal")

	// The second match's window is the first match, which lacks shots on
	// target entirely, so no row is emitted for it.
	assert.Empty(t, rows)
}

func TestRowsDeterministic(t *testing.T) {
	s := store.NewMatchStore()
	teams := []string{"Arsenal", "Brighton", "Chelsea", "Wolves"}
	date := day(2023, 1, 1)
	for round := 0; round < 6; round++ {
		appendPair(t, s, teams[round%4], teams[(round+1)%4], date, 15, float64(round%3), models.ResultWin)
		date = date.AddDate(0, 0, 7)
	}

	engine := newTestEngine(t, s, 2)
	first := engine.Rows()
	second := engine.Rows()

	assert.Equal(t, first, second)
}

func TestRowForFixture(t *testing.T) {
	s := store.NewMatchStore()
	appendPair(t, s, "Arsenal", "Chelsea", day(2023, 1, 1), 15, 2, models.ResultWin)
	appendPair(t, s, "Arsenal", "Brighton", day(2023, 1, 8), 15, 1, models.ResultDraw)

	engine := newTestEngine(t, s, 2)

	// 2023-01-16 was a Monday.
	row, err := engine.RowForFixture("Arsenal", "Chelsea", models.VenueAway, day(2023, 1, 16), 20)
	require.NoError(t, err)

	assert.Equal(t, "Arsenal", row.Team)
	assert.False(t, row.LabelKnown)
	assert.Equal(t, 0.0, row.Features["venue_code"])
	assert.Equal(t, 20.0, row.Features["hour"])
	assert.Equal(t, 0.0, row.Features["day_code"])
	assert.Equal(t, 1.5, row.Features["gf_rolling"])
}

func TestRowForFixtureInsufficientHistory(t *testing.T) {
	s := store.NewMatchStore()
	appendPair(t, s, "Arsenal", "Chelsea", day(2023, 1, 1), 15, 2, models.ResultWin)

	engine := newTestEngine(t, s, 2)

	_, err := engine.RowForFixture("Arsenal", "Chelsea", models.VenueHome, day(2023, 1, 16), 15)
	require.Error(t, err)

	var fme *models.FeatureMismatchError
	require.True(t, errors.As(err, &fme))
	assert.Equal(t, "Arsenal", fme.Team)
}

func TestRowForFixtureUnknownOpponent(t *testing.T) {
	s := store.NewMatchStore()
	appendPair(t, s, "Arsenal", "Chelsea", day(2023, 1, 1), 15, 2, models.ResultWin)
	appendPair(t, s, "Arsenal", "Chelsea", day(2023, 1, 8), 15, 1, models.ResultDraw)

	engine := newTestEngine(t, s, 2)

	_, err := engine.RowForFixture("Arsenal", "Leeds United", models.VenueHome, day(2023, 1, 16), 15)
	require.Error(t, err)

	var fme *models.FeatureMismatchError
	require.True(t, errors.As(err, &fme))
	assert.Equal(t, "opp_code", fme.Feature)
}

func TestRowForFixtureExcludesFixtureDateRecord(t *testing.T) {
	s := store.NewMatchStore()
	appendPair(t, s, "Arsenal", "Chelsea", day(2023, 1, 1), 15, 2, models.ResultWin)
	appendPair(t, s, "Arsenal", "Brighton", day(2023, 1, 8), 15, 4, models.ResultWin)
	// A completed record of the fixture itself is already in the store with a
	// marker value; it must not leak into its own features.
	appendPair(t, s, "Arsenal", "Wolves", day(2023, 1, 16), 15, 100, models.ResultWin)

	engine := newTestEngine(t, s, 2)

	row, err := engine.RowForFixture("Arsenal", "Wolves", models.VenueHome, day(2023, 1, 16), 15)
	require.NoError(t, err)
	assert.Equal(t, 3.0, row.Features["gf_rolling"])
}
