package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Rampex1/FootballMatchPredictor/internal/config"
)

// SetupTestDB connects to the local test database and resets its schema.
// Tests that call it are skipped unless PREDICTOR_TEST_DB=1, so the unit
// suite runs without Postgres.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	if os.Getenv("PREDICTOR_TEST_DB") != "1" {
		t.Skip("set PREDICTOR_TEST_DB=1 to run database integration tests")
	}

	cfg := testDatabaseConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := db.InitSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to initialize test schema: %v", err)
	}

	if _, err := db.pool.Exec(ctx, "TRUNCATE matches, model_runs"); err != nil {
		db.Close()
		t.Fatalf("failed to reset test tables: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}

// testDatabaseConfig reads connection settings from PREDICTOR_TEST_DB_*
// variables, falling back to a conventional local setup.
func testDatabaseConfig() *config.DatabaseConfig {
	cfg := &config.DatabaseConfig{
		Enabled:        true,
		Host:           envOrDefault("PREDICTOR_TEST_DB_HOST", "localhost"),
		Port:           5432,
		Name:           envOrDefault("PREDICTOR_TEST_DB_NAME", "match_predictor_test"),
		User:           envOrDefault("PREDICTOR_TEST_DB_USER", "postgres"),
		Password:       envOrDefault("PREDICTOR_TEST_DB_PASSWORD", "postgres"),
		SSLMode:        "disable",
		MaxConnections: 4,
	}
	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
