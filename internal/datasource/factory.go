package datasource

import (
	"fmt"
	"log"
	"time"

	"github.com/Rampex1/FootballMatchPredictor/internal/config"
)

// SourceType represents the type of data source
type SourceType string

const (
	// CSV file data source type
	CSVSourceType SourceType = "csv"
	// HTTP data source type
	HTTPSourceType SourceType = "http"
)

// Factory creates DataSource implementations based on configuration
type Factory struct {
	logger *log.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *log.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// Create builds the data source named by the dataset configuration
func (f *Factory) Create() (DataSource, error) {
	if f.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	switch SourceType(f.config.Dataset.Source) {
	case CSVSourceType:
		if f.config.Dataset.Path == "" {
			return nil, fmt.Errorf("csv source requires dataset.path")
		}
		return NewCSVFileSource(f.config.Dataset.Path, f.logger), nil

	case HTTPSourceType:
		if f.config.Dataset.URL == "" {
			return nil, fmt.Errorf("http source requires dataset.url")
		}
		httpCfg := DefaultHTTPClientConfig()
		if f.config.Dataset.TimeoutSeconds > 0 {
			httpCfg.Timeout = time.Duration(f.config.Dataset.TimeoutSeconds) * time.Second
		}
		if f.config.Dataset.RequestsPerSecond > 0 {
			httpCfg.RateLimit = f.config.Dataset.RequestsPerSecond
		}
		client := NewRateLimitedHTTPClient(httpCfg, f.logger)
		return NewHTTPCSVSource(f.config.Dataset.URL, client, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown data source type: %s", f.config.Dataset.Source)
	}
}

// ListAvailableSources returns the source types the factory can build
func (f *Factory) ListAvailableSources() []SourceType {
	return []SourceType{CSVSourceType, HTTPSourceType}
}
