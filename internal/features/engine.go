package features

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rampex1/FootballMatchPredictor/internal/models"
	"github.com/Rampex1/FootballMatchPredictor/internal/store"
)

// Categorical feature names. The rolling features are named after their
// statistic, see RollingFeatureName.
const (
	FeatureVenueCode = "venue_code"
	FeatureOppCode   = "opp_code"
	FeatureHour      = "hour"
	FeatureDayCode   = "day_code"
)

// FeatureNames returns the fixed feature ordering shared by training and
// prediction: the four categorical features followed by one rolling mean per
// recognized statistic.
func FeatureNames() []string {
	names := []string{FeatureVenueCode, FeatureOppCode, FeatureHour, FeatureDayCode}
	for _, stat := range models.RollingStatistics() {
		names = append(names, RollingFeatureName(stat))
	}
	return names
}

// RollingFeatureName returns the feature name carrying a statistic's rolling mean.
func RollingFeatureName(stat string) string {
	return stat + "_rolling"
}

// Engine computes rolling-window feature rows over a match store. Each row
// describes one side of one match using only that team's matches strictly
// before it, so no feature ever incorporates the row's own outcome.
type Engine struct {
	store  *store.MatchStore
	window int
	logger *logrus.Logger
}

// NewEngine creates a feature engine with the given rolling window size
func NewEngine(matchStore *store.MatchStore, window int, logger *logrus.Logger) (*Engine, error) {
	if matchStore == nil {
		return nil, fmt.Errorf("match store is required")
	}
	if window < 1 {
		return nil, models.NewConfigurationError("window", strconv.Itoa(window), "rolling window must be at least 1")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{store: matchStore, window: window, logger: logger}, nil
}

// Window returns the configured rolling window size
func (e *Engine) Window() int {
	return e.window
}

// FeatureNames returns the fixed feature ordering
func (e *Engine) FeatureNames() []string {
	return FeatureNames()
}

// Rows builds one labeled feature row per match with at least W prior matches
// for its team. Matches with fewer priors are skipped, as are matches whose
// window lacks a statistic entirely. Output is sorted by date, team, venue,
// and ingestion sequence, so two runs over the same store are identical.
func (e *Engine) Rows() []models.FeatureRow {
	oppCodes := e.opponentCodes()

	var rows []models.FeatureRow
	for _, team := range e.store.Teams() {
		history := e.store.RecordsFor(team)
		for i := e.window; i < len(history); i++ {
			row, ok := e.buildRow(history[i], history[i-e.window:i], oppCodes)
			if !ok {
				continue
			}
			rows = append(rows, row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		if a.Venue != b.Venue {
			return a.Venue < b.Venue
		}
		return a.Seq < b.Seq
	})

	return rows
}

// RowForFixture builds an unlabeled feature row for a prospective match from
// the W matches strictly before the fixture date. Returns a
// FeatureMismatchError when the team has fewer than W prior matches, when the
// opponent is unknown to the store, or when a statistic is absent from the
// entire window.
func (e *Engine) RowForFixture(team, opponent string, venue models.Venue, date time.Time, hour int) (models.FeatureRow, error) {
	code, ok := e.opponentCodes()[opponent]
	if !ok {
		return models.FeatureRow{}, models.NewFeatureMismatchError(team, date, FeatureOppCode,
			fmt.Sprintf("opponent %s has no match history in the store", opponent))
	}

	prior := e.store.RecordsBefore(team, date)
	if len(prior) < e.window {
		return models.FeatureRow{}, models.NewFeatureMismatchError(team, date, "",
			fmt.Sprintf("%d prior matches available, need %d", len(prior), e.window))
	}
	window := prior[len(prior)-e.window:]

	features := map[string]float64{
		FeatureVenueCode: venue.Code(),
		FeatureOppCode:   code,
		FeatureHour:      float64(hour),
		FeatureDayCode:   models.DayCode(date),
	}
	for _, stat := range models.RollingStatistics() {
		mean, ok := rollingMean(window, stat)
		if !ok {
			return models.FeatureRow{}, models.NewFeatureMismatchError(team, date, RollingFeatureName(stat),
				"statistic absent from every match in the window")
		}
		features[RollingFeatureName(stat)] = mean
	}

	return models.FeatureRow{
		Date:     date,
		Team:     team,
		Opponent: opponent,
		Venue:    venue,
		Features: features,
	}, nil
}

func (e *Engine) buildRow(current models.MatchRecord, window []models.MatchRecord, oppCodes map[string]float64) (models.FeatureRow, bool) {
	code, ok := oppCodes[current.Opponent]
	if !ok {
		e.logger.WithFields(logrus.Fields{
			"team":     current.Team,
			"opponent": current.Opponent,
			"date":     current.Date.Format("2006-01-02"),
		}).Debug("Skipping row: opponent has no match history in the store")
		return models.FeatureRow{}, false
	}

	features := map[string]float64{
		FeatureVenueCode: current.Venue.Code(),
		FeatureOppCode:   code,
		FeatureHour:      float64(current.KickoffHour),
		FeatureDayCode:   current.DayCode(),
	}
	for _, stat := range models.RollingStatistics() {
		mean, ok := rollingMean(window, stat)
		if !ok {
			e.logger.WithFields(logrus.Fields{
				"team":      current.Team,
				"date":      current.Date.Format("2006-01-02"),
				"statistic": stat,
			}).Debug("Skipping row: statistic absent from every match in the window")
			return models.FeatureRow{}, false
		}
		features[RollingFeatureName(stat)] = mean
	}

	return models.FeatureRow{
		Date:       current.Date,
		Team:       current.Team,
		Opponent:   current.Opponent,
		Venue:      current.Venue,
		Seq:        current.Seq,
		Features:   features,
		Label:      current.IsWin(),
		LabelKnown: true,
	}, true
}

// rollingMean averages the statistic over the window, ignoring records that do
// not carry it. Reports false when no window record carries the statistic.
func rollingMean(window []models.MatchRecord, stat string) (float64, bool) {
	sum := 0.0
	count := 0
	for _, record := range window {
		if v, ok := record.StatValue(stat); ok {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

func (e *Engine) opponentCodes() map[string]float64 {
	teams := e.store.Teams()
	codes := make(map[string]float64, len(teams))
	for i, team := range teams {
		codes[team] = float64(i)
	}
	return codes
}
