package datasource

import (
	"context"
	"errors"
)

// DataSource defines the interface for fetching match data from a dataset
// provider.
type DataSource interface {
	// FetchMatches retrieves every match row the source carries
	FetchMatches(ctx context.Context) ([]MatchRow, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// MatchRow is one raw row of the match dataset, one side of one match. Every
// field is the untyped cell text; validation and normalization happen in the
// ingestion service.
type MatchRow struct {
	Date     string `json:"date"`     // Match date (e.g., "2021-08-14")
	Time     string `json:"time"`     // Kickoff time (e.g., "16:30")
	Comp     string `json:"comp"`     // Competition name
	Round    string `json:"round"`    // Round or matchweek label
	Day      string `json:"day"`      // Weekday abbreviation
	Venue    string `json:"venue"`    // Home or Away
	Result   string `json:"result"`   // W, D, or L
	GF       string `json:"gf"`       // Goals for
	GA       string `json:"ga"`       // Goals against
	Opponent string `json:"opponent"` // Opponent short name
	Sh       string `json:"sh"`       // Shots
	SoT      string `json:"sot"`      // Shots on target
	Dist     string `json:"dist"`     // Average shot distance in yards
	FK       string `json:"fk"`       // Free kicks taken
	PK       string `json:"pk"`       // Penalties scored
	PKAtt    string `json:"pkatt"`    // Penalties attempted
	Season   string `json:"season"`   // Season label (e.g., "2022")
	Team     string `json:"team"`     // Team the row is scoped to
}

// StatCell pairs a statistic name with its raw cell text.
type StatCell struct {
	Name  string
	Value string
}

// StatCells returns the row's statistic cells in the canonical statistic
// order.
func (r *MatchRow) StatCells() []StatCell {
	return []StatCell{
		{Name: "gf", Value: r.GF},
		{Name: "ga", Value: r.GA},
		{Name: "sh", Value: r.Sh},
		{Name: "sot", Value: r.SoT},
		{Name: "dist", Value: r.Dist},
		{Name: "fk", Value: r.FK},
		{Name: "pk", Value: r.PK},
		{Name: "pkatt", Value: r.PKAtt},
	}
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
	ErrCodeUnknown           = "unknown"
)

// Error constructors
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrNotFound          = errors.New("data not found")
	ErrInvalidData       = errors.New("invalid data format")
	ErrNetworkError      = errors.New("network error")
	ErrServerError       = errors.New("server error")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
