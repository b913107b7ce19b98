package datasource

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
)

// HTTPCSVSource fetches the match dataset CSV from a remote host through the
// shared rate-limited HTTP client.
type HTTPCSVSource struct {
	name    string
	url     string
	enabled bool
	client  *RateLimitedHTTPClient
	logger  *log.Logger
}

// NewHTTPCSVSource creates a data source that downloads the dataset over HTTP
func NewHTTPCSVSource(url string, client *RateLimitedHTTPClient, logger *log.Logger) *HTTPCSVSource {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if client == nil {
		client = NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), logger)
	}
	return &HTTPCSVSource{
		name:    "http-csv",
		url:     url,
		enabled: true,
		client:  client,
		logger:  logger,
	}
}

// Name returns the name of the data source
func (s *HTTPCSVSource) Name() string {
	return s.name
}

// IsEnabled returns whether this data source is currently enabled
func (s *HTTPCSVSource) IsEnabled() bool {
	return s.enabled
}

// FetchMatches downloads and parses the remote dataset
func (s *HTTPCSVSource) FetchMatches(ctx context.Context) ([]MatchRow, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, NewDataSourceError(s.name, ErrCodeNetworkError, fmt.Sprintf("fetching dataset from %s", s.url), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewDataSourceError(s.name, ErrCodeNotFound, fmt.Sprintf("dataset not found at %s", s.url), nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(s.name, ErrCodeRateLimitExceeded, "dataset host rejected the request rate", nil)
	case resp.StatusCode != http.StatusOK:
		return nil, NewDataSourceError(s.name, ErrCodeServerError, fmt.Sprintf("dataset host returned status %d", resp.StatusCode), nil)
	}

	rows, err := ParseMatchCSV(ctx, resp.Body)
	if err != nil {
		return nil, NewDataSourceError(s.name, ErrCodeInvalidData, fmt.Sprintf("parsing dataset from %s", s.url), err)
	}

	s.logger.Printf("Downloaded %d match rows from %s", len(rows), s.url)
	return rows, nil
}
