package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/domain/repository"
	"github.com/ais-service/internal/spatial"
)

// Engine tables store lists as pipe separated text
const listSeparator = "|"

type snapshotSource struct {
	db     *DB
	name   string
	logger *zap.Logger
}

// NewSnapshotSource reads the address, geocode and polygon tables built by the AIS engine
func NewSnapshotSource(db *DB, dbName string) repository.SnapshotSource {
	return &snapshotSource{
		db:     db,
		name:   "postgres:" + dbName,
		logger: db.logger,
	}
}

func (s *snapshotSource) Name() string {
	return s.name
}

type addressRow struct {
	domain.AddressRecord
	PWDAccounts pq.StringArray `db:"pwd_account_nums"`
	Owners      pq.StringArray `db:"opa_owners"`
}

type geocodeRow struct {
	StreetAddress string `db:"street_address"`
	GeocodeType   int    `db:"geocode_type"`
	Geom          []byte `db:"geom"`
}

type polygonRow struct {
	Layer string `db:"layer"`
	ID    string `db:"polygon_id"`
	Value string `db:"value"`
	Geom  []byte `db:"geom"`
}

func (s *snapshotSource) Load(ctx context.Context) (*domain.Dataset, error) {
	started := time.Now()

	var (
		addresses []addressRow
		geocodes  []geocodeRow
		polygons  []polygonRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.db.SelectContext(gctx, &addresses, addressQuery()); err != nil {
			return eris.Wrap(err, "postgres: load addresses")
		}
		return nil
	})
	g.Go(func() error {
		if err := s.db.SelectContext(gctx, &geocodes, geocodeQuery); err != nil {
			return eris.Wrap(err, "postgres: load geocodes")
		}
		return nil
	})
	g.Go(func() error {
		if err := s.db.SelectContext(gctx, &polygons, polygonQuery); err != nil {
			return eris.Wrap(err, "postgres: load service area polygons")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds := &domain.Dataset{
		Addresses: make([]domain.AddressRecord, 0, len(addresses)),
		Polygons:  make([]domain.ServiceAreaPolygon, 0, len(polygons)),
		Source:    s.name,
		LoadedAt:  time.Now().UTC(),
	}
	ds.Version = ds.LoadedAt.Format(time.RFC3339)

	byKey := make(map[string]int, len(addresses))
	for _, row := range addresses {
		rec := row.AddressRecord
		rec.PWDAccountNums = []string(row.PWDAccounts)
		rec.OPAOwners = []string(row.Owners)
		byKey[rec.StreetAddress] = len(ds.Addresses)
		ds.Addresses = append(ds.Addresses, rec)
	}

	var orphaned, badGeocodes int
	for _, row := range geocodes {
		i, ok := byKey[row.StreetAddress]
		if !ok {
			orphaned++
			continue
		}
		gc, err := decodeGeocode(row)
		if err != nil {
			badGeocodes++
			s.logger.Debug("Skipping geocode",
				zap.String("street_address", row.StreetAddress),
				zap.Error(err))
			continue
		}
		ds.Addresses[i].Geocodes = append(ds.Addresses[i].Geocodes, gc)
	}

	var badPolygons int
	for _, row := range polygons {
		p, err := decodePolygon(row)
		if err != nil {
			badPolygons++
			s.logger.Debug("Skipping service area polygon",
				zap.String("layer", row.Layer),
				zap.String("id", row.ID),
				zap.Error(err))
			continue
		}
		ds.Polygons = append(ds.Polygons, p)
	}

	s.logger.Info("Snapshot loaded from PostgreSQL",
		zap.Int("addresses", len(ds.Addresses)),
		zap.Int("geocodes", len(geocodes)-orphaned-badGeocodes),
		zap.Int("polygons", len(ds.Polygons)),
		zap.Int("orphaned_geocodes", orphaned),
		zap.Int("bad_geocodes", badGeocodes),
		zap.Int("bad_polygons", badPolygons),
		zap.Duration("duration", time.Since(started)),
	)

	return ds, nil
}

func decodeGeocode(row geocodeRow) (domain.Geocode, error) {
	t, err := domain.GeocodeTypeFromCode(row.GeocodeType)
	if err != nil {
		return domain.Geocode{}, err
	}
	g, err := ewkb.Unmarshal(row.Geom)
	if err != nil {
		return domain.Geocode{}, fmt.Errorf("decode point: %w", err)
	}
	pt, err := spatial.PointFromGeometry(g, 0)
	if err != nil {
		return domain.Geocode{}, err
	}
	return domain.Geocode{Type: t, Point: pt, AddressKey: row.StreetAddress}, nil
}

func decodePolygon(row polygonRow) (domain.ServiceAreaPolygon, error) {
	g, err := ewkb.Unmarshal(row.Geom)
	if err != nil {
		return domain.ServiceAreaPolygon{}, fmt.Errorf("decode polygon: %w", err)
	}
	mp, err := spatial.PrepareMultiPolygon(g, 0)
	if err != nil {
		return domain.ServiceAreaPolygon{}, err
	}
	return domain.ServiceAreaPolygon{
		Layer:    domain.ServiceAreaLayer(row.Layer),
		ID:       row.ID,
		Value:    row.Value,
		Geometry: mp,
	}, nil
}

// addressQuery joins the summary with the per-address service area values.
// Layer names are the service_area_summary column names.
func addressQuery() string {
	layers := make([]string, 0, len(domain.ServiceAreaLayers))
	for _, l := range domain.ServiceAreaLayers {
		layers = append(layers, fmt.Sprintf("COALESCE(sa.%[1]s, '') AS %[1]s", l))
	}

	return fmt.Sprintf(`
		SELECT
			a.street_address,
			COALESCE(a.address_low, 0) AS address_low,
			COALESCE(a.address_low_suffix, '') AS address_low_suffix,
			COALESCE(a.address_low_frac, '') AS address_low_frac,
			a.address_high,
			COALESCE(a.street_predir, '') AS street_predir,
			COALESCE(a.street_name, '') AS street_name,
			COALESCE(a.street_suffix, '') AS street_suffix,
			COALESCE(a.street_postdir, '') AS street_postdir,
			COALESCE(a.unit_type, '') AS unit_type,
			COALESCE(a.unit_num, '') AS unit_num,
			COALESCE(a.street_full, '') AS street_full,
			COALESCE(a.street_code, 0) AS street_code,
			COALESCE(a.seg_id, 0) AS seg_id,
			COALESCE(a.zip_code, '') AS zip_code,
			COALESCE(a.zip_4, '') AS zip_4,
			COALESCE(a.pwd_parcel_id, '') AS pwd_parcel_id,
			COALESCE(a.dor_parcel_id, '') AS dor_parcel_id,
			COALESCE(a.li_address_key, '') AS li_address_key,
			string_to_array(NULLIF(a.pwd_account_nums, ''), '%[1]s') AS pwd_account_nums,
			COALESCE(a.opa_account_num, '') AS opa_account_num,
			string_to_array(NULLIF(a.opa_owners, ''), '%[1]s') AS opa_owners,
			COALESCE(a.opa_address, '') AS opa_address,
			%[2]s
		FROM address_summary a
		LEFT JOIN service_area_summary sa ON sa.street_address = a.street_address
		WHERE a.street_address IS NOT NULL AND a.street_address <> ''
	`, listSeparator, strings.Join(layers, ",\n\t\t\t"))
}

const geocodeQuery = `
	SELECT
		street_address,
		geocode_type,
		ST_AsEWKB(ST_Transform(geom, 2272)) AS geom
	FROM geocode
	WHERE geom IS NOT NULL
`

const polygonQuery = `
	SELECT
		layer,
		polygon_id::text AS polygon_id,
		COALESCE(value, '') AS value,
		ST_AsEWKB(ST_Transform(geom, 2272)) AS geom
	FROM service_area_polygon
	WHERE geom IS NOT NULL
`
