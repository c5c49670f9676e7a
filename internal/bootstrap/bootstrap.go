// Package bootstrap builds the pieces shared by the server and the CLI from configuration.
package bootstrap

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ais-service/internal/config"
	"github.com/ais-service/internal/domain/repository"
	"github.com/ais-service/internal/geocode"
	"github.com/ais-service/internal/repository/file"
	"github.com/ais-service/internal/repository/objectstore"
	"github.com/ais-service/internal/repository/postgres"
	"github.com/ais-service/internal/spatial"
	"github.com/ais-service/internal/usecase"
)

// Source - snapshot source plus the function releasing its connections
type Source struct {
	repository.SnapshotSource
	Close func() error
}

// NewSnapshotSource opens the source selected by INDEX_SOURCE
func NewSnapshotSource(cfg *config.Config, logger *zap.Logger) (*Source, error) {
	noop := func() error { return nil }

	switch cfg.Index.Source {
	case "postgres":
		db, err := postgres.New(&cfg.Database, logger)
		if err != nil {
			return nil, eris.Wrap(err, "open postgres snapshot source")
		}
		return &Source{SnapshotSource: postgres.NewSnapshotSource(db, cfg.Database.DBName), Close: db.Close}, nil

	case "objectstore":
		client, err := objectstore.NewClient(&cfg.ObjectStore)
		if err != nil {
			return nil, eris.Wrap(err, "open object store snapshot source")
		}
		return &Source{SnapshotSource: objectstore.NewSnapshotSource(client, &cfg.ObjectStore, logger), Close: noop}, nil

	case "file":
		return &Source{SnapshotSource: file.NewSnapshotSource(cfg.Index.Dir, logger), Close: noop}, nil

	default:
		return nil, eris.Errorf("unknown snapshot source %q", cfg.Index.Source)
	}
}

// NewResolver selects the geocode types configured for reverse geocoding
func NewResolver(cfg *config.Config) (*geocode.Resolver, error) {
	types, err := geocode.ParseTypes(cfg.Index.GeocodeTypes)
	if err != nil {
		return nil, eris.Wrap(err, "REVERSE_GEOCODE_TYPES")
	}
	return geocode.NewResolver(types)
}

func Envelope(cfg *config.Config) spatial.Envelope {
	e := cfg.Index.Envelope
	return spatial.Envelope{MinX: e[0], MinY: e[1], MaxX: e[2], MaxY: e[3]}
}

func MatchParams(cfg *config.Config) usecase.MatchParams {
	return usecase.MatchParams{
		MaxRadius: cfg.Index.MaxRadius,
		PageSize:  cfg.Index.PageSize,
		Envelope:  Envelope(cfg),
		CacheTTL:  cfg.Cache.ReverseGeocodeTTL,
	}
}
