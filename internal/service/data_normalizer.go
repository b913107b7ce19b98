package service

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/Rampex1/FootballMatchPredictor/internal/datasource"
	"github.com/Rampex1/FootballMatchPredictor/internal/models"
)

// DataNormalizer converts raw match rows into canonical MatchRecords
type DataNormalizer struct {
	teamNameMap map[string]string // Maps long-form club names to the short names used across the dataset
	logger      *log.Logger
}

// NewDataNormalizer creates a new data normalizer
func NewDataNormalizer(logger *log.Logger) *DataNormalizer {
	return &DataNormalizer{
		teamNameMap: buildTeamNameMap(),
		logger:      logger,
	}
}

// NormalizeMatchRow converts a raw row from any source into a MatchRecord
func (n *DataNormalizer) NormalizeMatchRow(row *datasource.MatchRow) (*models.MatchRecord, error) {
	if row == nil {
		return nil, fmt.Errorf("source row is nil")
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(row.Date))
	if err != nil {
		return nil, models.NewValidationError("date", row.Date, "must be in 2006-01-02 format")
	}

	venue, err := n.normalizeVenue(row.Venue)
	if err != nil {
		return nil, err
	}

	result, err := n.normalizeResult(row.Result)
	if err != nil {
		return nil, err
	}

	hour, err := n.NormalizeKickoffHour(row.Time)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]float64)
	for _, cell := range row.StatCells() {
		value := strings.TrimSpace(cell.Value)
		if value == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, models.NewValidationError(cell.Name, cell.Value, "must be numeric")
		}
		stats[cell.Name] = parsed
	}

	record := &models.MatchRecord{
		Date:        date.UTC(),
		KickoffHour: hour,
		Team:        n.NormalizeTeamName(row.Team),
		Opponent:    n.NormalizeTeamName(row.Opponent),
		Venue:       venue,
		Result:      result,
		Stats:       stats,
		Season:      strings.TrimSpace(row.Season),
		Competition: strings.TrimSpace(row.Comp),
	}

	return record, nil
}

// NormalizeTeamName maps long-form club names onto the short names the
// dataset uses for opponents. Unmapped names pass through trimmed.
func (n *DataNormalizer) NormalizeTeamName(name string) string {
	trimmed := strings.TrimSpace(name)
	if canonical, ok := n.teamNameMap[trimmed]; ok {
		return canonical
	}
	return trimmed
}

// NormalizeKickoffHour parses the hour from a "16:30" style kickoff cell. An
// empty cell means the kickoff is unknown and yields hour 0.
func (n *DataNormalizer) NormalizeKickoffHour(kickoff string) (int, error) {
	trimmed := strings.TrimSpace(kickoff)
	if trimmed == "" {
		return 0, nil
	}
	hourPart, _, found := strings.Cut(trimmed, ":")
	if !found {
		return 0, models.NewValidationError("time", kickoff, "must look like 15:04")
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 {
		return 0, models.NewValidationError("time", kickoff, "must start with an hour between 0 and 23")
	}
	return hour, nil
}

func (n *DataNormalizer) normalizeVenue(venue string) (models.Venue, error) {
	switch strings.ToLower(strings.TrimSpace(venue)) {
	case "home":
		return models.VenueHome, nil
	case "away":
		return models.VenueAway, nil
	}
	return "", models.NewValidationError("venue", venue, "must be Home or Away")
}

func (n *DataNormalizer) normalizeResult(result string) (models.Result, error) {
	switch strings.ToUpper(strings.TrimSpace(result)) {
	case "W":
		return models.ResultWin, nil
	case "D":
		return models.ResultDraw, nil
	case "L":
		return models.ResultLoss, nil
	}
	return "", models.NewValidationError("result", result, "must be W, D, or L")
}

// buildTeamNameMap returns the mapping from full club names to the short
// names that appear in the opponent column.
func buildTeamNameMap() map[string]string {
	return map[string]string{
		"Brighton and Hove Albion": "Brighton",
		"Manchester United":        "Manchester Utd",
		"Newcastle United":         "Newcastle Utd",
		"Tottenham Hotspur":        "Tottenham",
		"West Ham United":          "West Ham",
		"Wolverhampton Wanderers":  "Wolves",
	}
}
