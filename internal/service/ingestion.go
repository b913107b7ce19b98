package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/Rampex1/FootballMatchPredictor/internal/datasource"
	"github.com/Rampex1/FootballMatchPredictor/internal/metrics"
	"github.com/Rampex1/FootballMatchPredictor/internal/models"
	"github.com/Rampex1/FootballMatchPredictor/internal/repository"
	"github.com/Rampex1/FootballMatchPredictor/internal/store"
)

// IngestionResult summarizes a completed ingestion run
type IngestionResult struct {
	Fetched    int           `json:"fetched"`
	Ingested   int           `json:"ingested"`
	Duplicates int           `json:"duplicates"`
	Filtered   int           `json:"filtered"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"duration"`
}

// IngestionService handles the data ingestion workflow: fetch raw match rows
// from the configured sources, validate and normalize them, then append the
// surviving records to the in-memory store and optionally persist them.
type IngestionService struct {
	sources     []datasource.DataSource
	store       *store.MatchStore
	matchRepo   repository.MatchRepository
	validator   *DataValidator
	normalizer  *DataNormalizer
	metrics     *IngestionMetrics
	logger      *log.Logger
	competition string
}

// NewIngestionService creates a new ingestion service. The repository is
// optional; pass nil to keep matches in memory only. An empty competition
// disables competition filtering.
func NewIngestionService(
	sources []datasource.DataSource,
	matchStore *store.MatchStore,
	matchRepo repository.MatchRepository,
	competition string,
	logger *log.Logger,
) *IngestionService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &IngestionService{
		sources:     sources,
		store:       matchStore,
		matchRepo:   matchRepo,
		validator:   NewDataValidator(logger),
		normalizer:  NewDataNormalizer(logger),
		metrics:     NewIngestionMetrics(),
		logger:      logger,
		competition: competition,
	}
}

// IngestAll fetches match rows from every enabled source and ingests them
func (s *IngestionService) IngestAll(ctx context.Context) (IngestionResult, error) {
	if s.store == nil {
		return IngestionResult{}, fmt.Errorf("match store is required")
	}
	if len(s.sources) == 0 {
		return IngestionResult{}, fmt.Errorf("no data sources configured")
	}

	s.metrics.Reset()
	startTime := time.Now()

	for _, source := range s.sources {
		if !source.IsEnabled() {
			s.logger.Printf("Skipping disabled data source: %s", source.Name())
			continue
		}

		rows, err := source.FetchMatches(ctx)
		if err != nil {
			s.logger.Printf("Failed to fetch matches from %s: %v", source.Name(), err)
			return s.metrics.Snapshot(), fmt.Errorf("fetching matches from %s: %w", source.Name(), err)
		}

		s.logger.Printf("Fetched %d match rows from %s", len(rows), source.Name())
		s.metrics.RecordFetched(len(rows))

		for i := range rows {
			if err := ctx.Err(); err != nil {
				return s.metrics.Snapshot(), err
			}
			s.processRow(ctx, &rows[i])
		}
	}

	s.metrics.SetDuration(time.Since(startTime))
	metrics.UpdateStoreMatches(float64(s.store.Len()))

	result := s.metrics.Snapshot()
	s.logger.Printf("Ingestion complete: %s", s.metrics.String())
	return result, nil
}

// processRow validates, normalizes, filters, and stores a single match row
func (s *IngestionService) processRow(ctx context.Context, row *datasource.MatchRow) {
	if problems := s.validator.ValidateMatchRow(row); len(problems) > 0 {
		s.metrics.RecordValidationError()
		metrics.RecordIngestionFailure("validation")
		s.logger.Printf("Skipping invalid row (%s vs %s on %s): %v", row.Team, row.Opponent, row.Date, problems)
		return
	}

	record, err := s.normalizer.NormalizeMatchRow(row)
	if err != nil {
		s.metrics.RecordNormalizationError()
		metrics.RecordIngestionFailure("normalization")
		s.logger.Printf("Skipping row (%s vs %s on %s): %v", row.Team, row.Opponent, row.Date, err)
		return
	}

	if s.competition != "" && !strings.EqualFold(record.Competition, s.competition) {
		s.metrics.RecordFiltered()
		return
	}

	if err := s.store.Append(*record); err != nil {
		if errors.Is(err, models.ErrDuplicateRecord) {
			s.metrics.RecordDuplicate()
			metrics.RecordIngestionDuplicate()
			return
		}
		s.metrics.RecordStoreError()
		metrics.RecordIngestionFailure("store")
		s.logger.Printf("Failed to append match %s: %v", record.Key(), err)
		return
	}

	s.metrics.RecordIngested()
	metrics.RecordMatchIngested()

	if s.matchRepo != nil {
		if err := s.matchRepo.SaveMatch(ctx, record); err != nil {
			s.logger.Printf("Failed to persist match %s: %v", record.Key(), err)
		}
	}
}

// GetMetrics returns current ingestion metrics
func (s *IngestionService) GetMetrics() *IngestionMetrics {
	return s.metrics
}

// ResetMetrics resets ingestion metrics
func (s *IngestionService) ResetMetrics() {
	s.metrics.Reset()
}
