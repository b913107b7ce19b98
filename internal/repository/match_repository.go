package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Rampex1/FootballMatchPredictor/internal/database"
	"github.com/Rampex1/FootballMatchPredictor/internal/models"
	"github.com/jackc/pgx/v5"
)

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

const matchColumns = "match_date, kickoff_hour, team, opponent, venue, result, stats, season, competition"

// SaveMatch inserts one match side. A record already present under the
// date|team|opponent unique key is left untouched.
func (r *PostgresMatchRepository) SaveMatch(ctx context.Context, match *models.MatchRecord) error {
	query := `
		INSERT INTO matches (match_date, kickoff_hour, team, opponent, venue, result, stats, season, competition)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (match_date, team, opponent) DO NOTHING
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		match.Date, match.KickoffHour, match.Team, match.Opponent,
		string(match.Venue), string(match.Result), match.Stats, match.Season, match.Competition,
	)
	if err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}

	return nil
}

// GetAllMatches retrieves every stored match side ordered by date, team and
// venue, the same ordering the in-memory store iterates in.
func (r *PostgresMatchRepository) GetAllMatches(ctx context.Context) ([]*models.MatchRecord, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		ORDER BY match_date ASC, team ASC, venue ASC, id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// GetMatchesByTeam retrieves one team's matches ordered by date
func (r *PostgresMatchRepository) GetMatchesByTeam(ctx context.Context, team string) ([]*models.MatchRecord, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE team = $1
		ORDER BY match_date ASC, id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, team)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for team: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// GetMatchesBefore retrieves one team's matches strictly before the given
// date, ordered by date.
func (r *PostgresMatchRepository) GetMatchesBefore(ctx context.Context, team string, date time.Time) ([]*models.MatchRecord, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE team = $1 AND match_date < $2
		ORDER BY match_date ASC, id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, team, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches before date: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// CountMatches returns the number of stored match sides
func (r *PostgresMatchRepository) CountMatches(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx, "SELECT COUNT(*) FROM matches").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

func scanMatches(rows pgx.Rows) ([]*models.MatchRecord, error) {
	var matches []*models.MatchRecord
	for rows.Next() {
		match := &models.MatchRecord{}
		err := rows.Scan(
			&match.Date, &match.KickoffHour, &match.Team, &match.Opponent,
			&match.Venue, &match.Result, &match.Stats, &match.Season, &match.Competition,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}

	return matches, rows.Err()
}
