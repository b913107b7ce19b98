package store

import (
	"fmt"
	"iter"
	"sort"
	"sync"
	"time"

	"github.com/Rampex1/FootballMatchPredictor/internal/models"
)

// MatchStore is an in-memory, append-only collection of match records. Records
// are immutable once appended; there is no update or delete. Reads are safe to
// run concurrently with each other and with appends.
type MatchStore struct {
	mu      sync.RWMutex
	records []models.MatchRecord
	keys    map[string]struct{}
	byTeam  map[string][]int
	nextSeq int64
}

// NewMatchStore creates an empty match store
func NewMatchStore() *MatchStore {
	return &MatchStore{
		keys:   make(map[string]struct{}),
		byTeam: make(map[string][]int),
	}
}

// Append validates and inserts a match record, assigning its ingestion
// sequence number. Returns a ValidationError for malformed records and
// ErrDuplicateRecord when a record with the same date, team, and opponent
// already exists.
func (s *MatchStore) Append(record models.MatchRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := record.Key()
	if _, exists := s.keys[key]; exists {
		return fmt.Errorf("match %s: %w", key, models.ErrDuplicateRecord)
	}

	s.nextSeq++
	record.Seq = s.nextSeq

	// Copy the stats map so later mutation by the caller cannot reach the
	// stored record.
	stats := make(map[string]float64, len(record.Stats))
	for k, v := range record.Stats {
		stats[k] = v
	}
	record.Stats = stats

	idx := len(s.records)
	s.records = append(s.records, record)
	s.keys[key] = struct{}{}
	s.byTeam[record.Team] = append(s.byTeam[record.Team], idx)

	return nil
}

func validateRecord(record models.MatchRecord) error {
	if record.Date.IsZero() {
		return models.NewValidationError("date", "", "date is required")
	}
	if record.Team == "" {
		return models.NewValidationError("team", "", "team identifier is required")
	}
	if record.Opponent == "" {
		return models.NewValidationError("opponent", "", "opponent identifier is required")
	}
	if !record.Venue.Valid() {
		return models.NewValidationError("venue", string(record.Venue), "must be home or away")
	}
	if !record.Result.Valid() {
		return models.NewValidationError("result", string(record.Result), "must be win, draw, or loss")
	}
	if len(record.Stats) == 0 {
		return models.NewValidationError("stats", "", "at least one statistic is required")
	}
	for name := range record.Stats {
		if !models.IsRecognizedStatistic(name) {
			return models.NewValidationError("stats", name, "unrecognized statistic")
		}
	}
	return nil
}

// AllRecords returns a lazy sequence over a snapshot of the store, ordered by
// date ascending with ties broken by team identifier, then venue, then
// ingestion sequence. Each range over the returned sequence restarts from the
// beginning.
func (s *MatchStore) AllRecords() iter.Seq[models.MatchRecord] {
	s.mu.RLock()
	snapshot := make([]models.MatchRecord, len(s.records))
	copy(snapshot, s.records)
	s.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool {
		return lessRecord(snapshot[i], snapshot[j])
	})

	return func(yield func(models.MatchRecord) bool) {
		for _, record := range snapshot {
			if !yield(record) {
				return
			}
		}
	}
}

func lessRecord(a, b models.MatchRecord) bool {
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
}

// RecordsFor returns the team's matches ordered by date ascending, ties by
// ingestion sequence. Returns nil for a team the store has never seen.
func (s *MatchStore) RecordsFor(team string) []models.MatchRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.teamRecordsLocked(team)
}

// RecordsBefore returns the team's matches strictly before the given date,
// ordered by date ascending. The comparison is on match dates, never on
// positions, so a record of the fixture itself is always excluded.
func (s *MatchStore) RecordsBefore(team string, date time.Time) []models.MatchRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.teamRecordsLocked(team)
	prior := make([]models.MatchRecord, 0, len(all))
	for _, record := range all {
		if record.Date.Before(date) {
			prior = append(prior, record)
		}
	}
	return prior
}

func (s *MatchStore) teamRecordsLocked(team string) []models.MatchRecord {
	indices, ok := s.byTeam[team]
	if !ok {
		return nil
	}

	records := make([]models.MatchRecord, 0, len(indices))
	for _, idx := range indices {
		records = append(records, s.records[idx])
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].Seq < records[j].Seq
	})
	return records
}

// Teams returns the sorted distinct team identifiers seen by the store.
func (s *MatchStore) Teams() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	teams := make([]string, 0, len(s.byTeam))
	for team := range s.byTeam {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// Len returns the number of records appended so far.
func (s *MatchStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
