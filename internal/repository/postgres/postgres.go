package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ais-service/internal/config"
)

// snapshotTables must exist before a snapshot can be loaded
var snapshotTables = []string{"address_summary", "service_area_summary", "geocode", "service_area_polygon"}

// DB - pool over the AIS engine PostGIS database. The service only reads from it.
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// New opens a pgx pool. Sessions default to read only, the loader never writes.
func New(cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	db, err := sqlx.Connect("pgx", connString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pg := &DB{DB: db, logger: logger}
	if err := pg.CheckSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DBName),
		zap.Int("max_conns", cfg.MaxConns),
	)
	return pg, nil
}

func connString(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)
	q.Set("application_name", "ais-service")
	q.Set("default_transaction_read_only", "on")
	u.RawQuery = q.Encode()
	return u.String()
}

// CheckSchema pings the server and verifies the snapshot tables are present
func (db *DB) CheckSchema(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return eris.Wrap(err, "postgres: ping")
	}

	var missing []string
	for _, table := range snapshotTables {
		var found *string
		if err := db.GetContext(ctx, &found, "SELECT to_regclass($1)::text", table); err != nil {
			return eris.Wrapf(err, "postgres: look up table %s", table)
		}
		if found == nil {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("postgres: snapshot tables missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (db *DB) Close() error {
	db.logger.Info("Closing PostgreSQL connection")
	return db.DB.Close()
}

// NewDBForTest wraps an existing connection, for integration tests
func NewDBForTest(sqlxDB *sqlx.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{DB: sqlxDB, logger: logger}
}
