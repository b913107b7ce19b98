package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVenueCode(t *testing.T) {
	assert.Equal(t, 1.0, VenueHome.Code())
	assert.Equal(t, 0.0, VenueAway.Code())
}

func TestVenueValid(t *testing.T) {
	assert.True(t, VenueHome.Valid())
	assert.True(t, VenueAway.Valid())
	assert.False(t, Venue("neutral").Valid())
	assert.False(t, Venue("").Valid())
}

func TestResultValid(t *testing.T) {
	assert.True(t, ResultWin.Valid())
	assert.True(t, ResultDraw.Valid())
	assert.True(t, ResultLoss.Valid())
	assert.False(t, Result("abandoned").Valid())
}

func TestRollingStatistics(t *testing.T) {
	stats := RollingStatistics()
	require.Len(t, stats, 8)
	assert.Equal(t, StatGoalsFor, stats[0])
	assert.Equal(t, StatPenaltyAttempts, stats[7])

	for _, name := range stats {
		assert.True(t, IsRecognizedStatistic(name), "statistic %s should be recognized", name)
	}
	assert.False(t, IsRecognizedStatistic("xg"))
}

func TestMatchRecordKey(t *testing.T) {
	rec := MatchRecord{
		Date:     time.Date(2021, 8, 14, 0, 0, 0, 0, time.UTC),
		Team:     "Brentford",
		Opponent: "Arsenal",
		Venue:    VenueHome,
	}
	assert.Equal(t, "2021-08-14|Brentford|Arsenal", rec.Key())
}

func TestMatchRecordIsWin(t *testing.T) {
	win := MatchRecord{Result: ResultWin}
	draw := MatchRecord{Result: ResultDraw}
	loss := MatchRecord{Result: ResultLoss}

	assert.True(t, win.IsWin())
	assert.False(t, draw.IsWin())
	assert.False(t, loss.IsWin())
}

func TestMatchRecordStatValue(t *testing.T) {
	rec := MatchRecord{
		Stats: map[string]float64{StatGoalsFor: 2, StatShots: 13},
	}

	v, ok := rec.StatValue(StatGoalsFor)
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	_, ok = rec.StatValue(StatShotDistance)
	assert.False(t, ok)
}

func TestMatchRecordDayCode(t *testing.T) {
	// 2021-08-16 was a Monday, 2021-08-22 a Sunday.
	cases := []struct {
		date time.Time
		want float64
	}{
		{time.Date(2021, 8, 16, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2021, 8, 17, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2021, 8, 21, 0, 0, 0, 0, time.UTC), 5},
		{time.Date(2021, 8, 22, 0, 0, 0, 0, time.UTC), 6},
	}
	for _, tc := range cases {
		rec := MatchRecord{Date: tc.date}
		assert.Equal(t, tc.want, rec.DayCode(), "day code for %s", tc.date.Weekday())
	}
}
