package models

import (
	"fmt"
	"time"
)

// Venue indicates which side of a match a record is scoped to
type Venue string

// Venue values
const (
	VenueHome Venue = "home"
	VenueAway Venue = "away"
)

// Valid reports whether the venue is a recognized value
func (v Venue) Valid() bool {
	return v == VenueHome || v == VenueAway
}

// Code returns the categorical encoding used as a model feature
func (v Venue) Code() float64 {
	if v == VenueHome {
		return 1
	}
	return 0
}

// Result is the final outcome of a match from one side's perspective
type Result string

// Result values
const (
	ResultWin  Result = "win"
	ResultDraw Result = "draw"
	ResultLoss Result = "loss"
)

// Valid reports whether the result is a recognized value
func (r Result) Valid() bool {
	return r == ResultWin || r == ResultDraw || r == ResultLoss
}

// Recognized per-match statistics. Rolling features are computed for exactly
// this set; ingestion rejects records carrying any other key.
const (
	StatGoalsFor       = "gf"
	StatGoalsAgainst   = "ga"
	StatShots          = "sh"
	StatShotsOnTarget  = "sot"
	StatShotDistance   = "dist"
	StatFreeKicks      = "fk"
	StatPenalties      = "pk"
	StatPenaltyAttempts = "pkatt"
)

var rollingStatistics = []string{
	StatGoalsFor,
	StatGoalsAgainst,
	StatShots,
	StatShotsOnTarget,
	StatShotDistance,
	StatFreeKicks,
	StatPenalties,
	StatPenaltyAttempts,
}

var recognizedStatistics = func() map[string]bool {
	m := make(map[string]bool, len(rollingStatistics))
	for _, name := range rollingStatistics {
		m[name] = true
	}
	return m
}()

// RollingStatistics returns the recognized statistic names in their canonical
// order. Callers must not mutate the returned slice.
func RollingStatistics() []string {
	return rollingStatistics
}

// IsRecognizedStatistic reports whether name is a tracked statistic
func IsRecognizedStatistic(name string) bool {
	return recognizedStatistics[name]
}

// MatchRecord represents one played match scoped to a single team. Exactly
// two records exist per physical match, one per side, sharing the date with
// mirrored statistics. Records are immutable once appended.
type MatchRecord struct {
	Date        time.Time          `db:"match_date" json:"date" validate:"required"`
	KickoffHour int                `db:"kickoff_hour" json:"kickoff_hour" validate:"gte=0,lte=23"`
	Team        string             `db:"team" json:"team" validate:"required"`
	Opponent    string             `db:"opponent" json:"opponent" validate:"required"`
	Venue       Venue              `db:"venue" json:"venue" validate:"required,oneof=home away"`
	Result      Result             `db:"result" json:"result" validate:"required,oneof=win draw loss"`
	Stats       map[string]float64 `db:"stats" json:"stats" validate:"required"`
	Season      string             `db:"season" json:"season"`
	Competition string             `db:"competition" json:"competition"`
	Seq         int64              `db:"seq" json:"seq"`
}

// Key returns the deduplication key for the record: one team plays at most
// one match against a given opponent on a given date.
func (m *MatchRecord) Key() string {
	return fmt.Sprintf("%s|%s|%s", m.Date.Format("2006-01-02"), m.Team, m.Opponent)
}

// IsWin reports whether this side won the match
func (m *MatchRecord) IsWin() bool {
	return m.Result == ResultWin
}

// StatValue returns the named statistic and whether the record carries it
func (m *MatchRecord) StatValue(name string) (float64, bool) {
	v, ok := m.Stats[name]
	return v, ok
}

// DayCode returns the weekday encoding used as a model feature, with
// Monday=0 through Sunday=6.
func (m *MatchRecord) DayCode() float64 {
	return DayCode(m.Date)
}

// DayCode encodes a date's weekday as Monday=0 through Sunday=6.
func DayCode(date time.Time) float64 {
	return float64((int(date.Weekday()) + 6) % 7)
}
