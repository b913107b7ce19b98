package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// CSVFileSource reads the match dataset from a CSV file on disk.
type CSVFileSource struct {
	name    string
	path    string
	enabled bool
	logger  *log.Logger
}

// NewCSVFileSource creates a data source backed by a local CSV file
func NewCSVFileSource(path string, logger *log.Logger) *CSVFileSource {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CSVFileSource{
		name:    "csv-file",
		path:    path,
		enabled: true,
		logger:  logger,
	}
}

// Name returns the name of the data source
func (s *CSVFileSource) Name() string {
	return s.name
}

// IsEnabled returns whether this data source is currently enabled
func (s *CSVFileSource) IsEnabled() bool {
	return s.enabled
}

// FetchMatches reads every match row from the CSV file
func (s *CSVFileSource) FetchMatches(ctx context.Context) ([]MatchRow, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, NewDataSourceError(s.name, ErrCodeNotFound, fmt.Sprintf("opening dataset %s", s.path), err)
	}
	defer file.Close()

	rows, err := ParseMatchCSV(ctx, file)
	if err != nil {
		return nil, NewDataSourceError(s.name, ErrCodeInvalidData, fmt.Sprintf("parsing dataset %s", s.path), err)
	}

	s.logger.Printf("Loaded %d match rows from %s", len(rows), s.path)
	return rows, nil
}

// ParseMatchCSV decodes a header-keyed match dataset. Column order does not
// matter and unrecognized columns are ignored; rows keep their cells as raw
// text for the ingestion service to validate.
func ParseMatchCSV(ctx context.Context, r io.Reader) ([]MatchRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "venue", "result", "opponent", "team"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("dataset is missing required column %q", required)
		}
	}

	cell := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var rows []MatchRow
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(rows)+2, err)
		}

		rows = append(rows, MatchRow{
			Date:     cell(record, "date"),
			Time:     cell(record, "time"),
			Comp:     cell(record, "comp"),
			Round:    cell(record, "round"),
			Day:      cell(record, "day"),
			Venue:    cell(record, "venue"),
			Result:   cell(record, "result"),
			GF:       cell(record, "gf"),
			GA:       cell(record, "ga"),
			Opponent: cell(record, "opponent"),
			Sh:       cell(record, "sh"),
			SoT:      cell(record, "sot"),
			Dist:     cell(record, "dist"),
			FK:       cell(record, "fk"),
			PK:       cell(record, "pk"),
			PKAtt:    cell(record, "pkatt"),
			Season:   cell(record, "season"),
			Team:     cell(record, "team"),
		})
	}

	return rows, nil
}
