package service

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/Rampex1/FootballMatchPredictor/internal/datasource"
)

// DataValidator validates raw match rows before normalization
type DataValidator struct {
	logger *log.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *log.Logger) *DataValidator {
	return &DataValidator{logger: logger}
}

// ValidateMatchRow validates one raw row for required fields and parseable
// values, returning every problem found rather than stopping at the first.
func (v *DataValidator) ValidateMatchRow(row *datasource.MatchRow) []string {
	var errors []string

	// Check required fields
	if strings.TrimSpace(row.Team) == "" {
		errors = append(errors, "team is required")
	}

	if strings.TrimSpace(row.Opponent) == "" {
		errors = append(errors, "opponent is required")
	}

	if strings.TrimSpace(row.Date) == "" {
		errors = append(errors, "date is required")
	} else if _, err := time.Parse("2006-01-02", strings.TrimSpace(row.Date)); err != nil {
		errors = append(errors, fmt.Sprintf("date must be in 2006-01-02 format, got %q", row.Date))
	}

	if !v.IsValidVenue(row.Venue) {
		errors = append(errors, fmt.Sprintf("venue must be Home or Away, got %q", row.Venue))
	}

	if !v.IsValidResult(row.Result) {
		errors = append(errors, fmt.Sprintf("result must be W, D, or L, got %q", row.Result))
	}

	if !v.IsValidKickoffTime(row.Time) {
		errors = append(errors, fmt.Sprintf("kickoff time must look like 15:04, got %q", row.Time))
	}

	// Statistic cells may be empty, but a non-empty cell has to parse.
	for _, cell := range row.StatCells() {
		value := strings.TrimSpace(cell.Value)
		if value == "" {
			continue
		}
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			errors = append(errors, fmt.Sprintf("%s must be numeric, got %q", cell.Name, cell.Value))
		}
	}

	return errors
}

// IsValidVenue checks whether the venue cell carries one of the two sides
func (v *DataValidator) IsValidVenue(venue string) bool {
	switch strings.ToLower(strings.TrimSpace(venue)) {
	case "home", "away":
		return true
	}
	return false
}

// IsValidResult checks whether the result cell is a win, draw, or loss marker
func (v *DataValidator) IsValidResult(result string) bool {
	switch strings.ToUpper(strings.TrimSpace(result)) {
	case "W", "D", "L":
		return true
	}
	return false
}

// IsValidKickoffTime checks whether the kickoff cell is empty or starts with a
// parseable hour, like "16:30".
func (v *DataValidator) IsValidKickoffTime(kickoff string) bool {
	trimmed := strings.TrimSpace(kickoff)
	if trimmed == "" {
		return true
	}
	hourPart, _, found := strings.Cut(trimmed, ":")
	if !found {
		return false
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return false
	}
	return hour >= 0 && hour <= 23
}
