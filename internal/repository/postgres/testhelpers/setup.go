package testhelpers

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ais-service/internal/domain/repository"
	"github.com/ais-service/internal/repository/postgres"
)

// TestDB - connection to the PostGIS database used by integration tests
type TestDB struct {
	DB     *sqlx.DB
	Name   string
	Logger *zap.Logger
}

// SetupTestDB connects using TEST_DB_* variables and skips the test when the server or the
// PostGIS extension is missing. The connection is closed by t.Cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	name := env("TEST_DB_NAME", "ais_test")
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		env("TEST_DB_HOST", "localhost"),
		env("TEST_DB_PORT", "5433"),
		env("TEST_DB_USER", "postgres"),
		env("TEST_DB_PASSWORD", "postgres"),
		name,
		env("TEST_DB_SSLMODE", "disable"),
	)

	// the container may still be starting
	var db *sqlx.DB
	var err error
	for delay := 250 * time.Millisecond; delay <= time.Second; delay *= 2 {
		if db, err = sqlx.Connect("postgres", dsn); err == nil {
			break
		}
		t.Logf("test database not ready, retrying in %v: %v", delay, err)
		time.Sleep(delay)
	}
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	var version string
	if err := db.Get(&version, "SELECT PostGIS_Version()"); err != nil {
		_ = db.Close()
		t.Skipf("PostGIS not available: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return &TestDB{DB: db, Name: name, Logger: zaptest.NewLogger(t)}
}

// Source returns the snapshot source under test, reading through the pgx driver like production
func (tdb *TestDB) Source() repository.SnapshotSource {
	return postgres.NewSnapshotSource(postgres.NewDBForTest(tdb.DB, tdb.Logger), tdb.Name)
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
