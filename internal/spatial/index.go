package spatial

import (
	"sort"
	"time"

	"github.com/dhconnelly/rtreego"
	"github.com/rotisserie/eris"

	"github.com/ais-service/internal/domain"
)

const (
	treeDim         = 2
	treeMinChildren = 25
	treeMaxChildren = 50

	// pointTolerance - half size of the rectangle stored for a point, in feet
	pointTolerance = 0.01
)

// CandidateSource selects the geocodes of an address that take part in nearest-address queries
type CandidateSource interface {
	Eligible(rec *domain.AddressRecord) []domain.Geocode
}

// PointHit - a geocode returned by Nearest
type PointHit struct {
	Address  *domain.AddressRecord
	Geocode  domain.Geocode
	Distance float64
}

// BuildStats - counters collected while building an index
type BuildStats struct {
	Addresses          int                             `json:"addresses"`
	Candidates         int                             `json:"candidates"`
	CandidatesByType   map[domain.GeocodeType]int      `json:"candidates_by_type"`
	GhostAddresses     int                             `json:"ghost_addresses"`
	DuplicateAddresses int                             `json:"duplicate_addresses"`
	Polygons           map[domain.ServiceAreaLayer]int `json:"polygons"`
	SkippedPolygons    int                             `json:"skipped_polygons"`
	BuildDuration      time.Duration                   `json:"build_duration"`
}

type pointItem struct {
	rect    rtreego.Rect
	address *domain.AddressRecord
	geocode domain.Geocode
}

func (p *pointItem) Bounds() rtreego.Rect {
	return p.rect
}

// Index - immutable spatial and identifier index over one dataset.
// All query methods are safe for concurrent use once Build has returned.
type Index struct {
	points *rtreego.Rtree
	layers map[domain.ServiceAreaLayer]*layerIndex

	byKey       map[string]*domain.AddressRecord
	byAccount   map[string][]*domain.AddressRecord
	byPWDParcel map[string][]*domain.AddressRecord
	byDORParcel map[string][]*domain.AddressRecord
	ordered     []*domain.AddressRecord

	stats BuildStats
}

// Build constructs an index over the dataset. The dataset is not retained beyond the records it copies.
func Build(ds *domain.Dataset, candidates CandidateSource) (*Index, error) {
	if ds == nil {
		return nil, eris.New("spatial: nil dataset")
	}
	if candidates == nil {
		return nil, eris.New("spatial: nil candidate source")
	}

	started := time.Now()
	idx := &Index{
		layers:      make(map[domain.ServiceAreaLayer]*layerIndex, len(domain.ServiceAreaLayers)),
		byKey:       make(map[string]*domain.AddressRecord, len(ds.Addresses)),
		byAccount:   make(map[string][]*domain.AddressRecord),
		byPWDParcel: make(map[string][]*domain.AddressRecord),
		byDORParcel: make(map[string][]*domain.AddressRecord),
		stats: BuildStats{
			CandidatesByType: make(map[domain.GeocodeType]int),
			Polygons:         make(map[domain.ServiceAreaLayer]int, len(domain.ServiceAreaLayers)),
		},
	}

	records := make([]domain.AddressRecord, len(ds.Addresses))
	copy(records, ds.Addresses)

	idx.ordered = make([]*domain.AddressRecord, 0, len(records))
	for i := range records {
		rec := &records[i]
		if rec.StreetAddress == "" {
			idx.stats.GhostAddresses++
			continue
		}
		if _, dup := idx.byKey[rec.StreetAddress]; dup {
			idx.stats.DuplicateAddresses++
			continue
		}
		idx.byKey[rec.StreetAddress] = rec
		idx.ordered = append(idx.ordered, rec)
	}

	sort.SliceStable(idx.ordered, func(i, j int) bool {
		return domain.AddressLess(idx.ordered[i], idx.ordered[j])
	})

	objs := make([]rtreego.Spatial, 0, len(idx.ordered))
	for _, rec := range idx.ordered {
		eligible := candidates.Eligible(rec)
		if len(eligible) == 0 {
			idx.stats.GhostAddresses++
		}
		for _, g := range eligible {
			idx.stats.CandidatesByType[g.Type]++
			objs = append(objs, &pointItem{
				rect:    pointRect(g.Point.X, g.Point.Y),
				address: rec,
				geocode: g,
			})
		}

		if rec.OPAAccountNum != "" {
			idx.byAccount[rec.OPAAccountNum] = append(idx.byAccount[rec.OPAAccountNum], rec)
		}
		if rec.PWDParcelID != "" {
			idx.byPWDParcel[rec.PWDParcelID] = append(idx.byPWDParcel[rec.PWDParcelID], rec)
		}
		if rec.DORParcelID != "" {
			idx.byDORParcel[rec.DORParcelID] = append(idx.byDORParcel[rec.DORParcelID], rec)
		}
	}
	idx.points = rtreego.NewTree(treeDim, treeMinChildren, treeMaxChildren, objs...)
	idx.stats.Addresses = len(idx.ordered)
	idx.stats.Candidates = len(objs)

	idx.buildLayers(ds.Polygons)

	idx.stats.BuildDuration = time.Since(started)
	return idx, nil
}

// Nearest returns eligible geocodes within maxRadius feet of c (state plane), closest first.
// Equal distances are ordered by address key, then curb before range. k <= 0 returns every hit.
func (idx *Index) Nearest(c domain.Coordinate, k int, maxRadius float64) []PointHit {
	if maxRadius <= 0 || idx.points == nil || idx.points.Size() == 0 {
		return nil
	}

	bb, err := rtreego.NewRect(rtreego.Point{c.X - maxRadius, c.Y - maxRadius}, []float64{2 * maxRadius, 2 * maxRadius})
	if err != nil {
		return nil
	}

	found := idx.points.SearchIntersect(bb)
	hits := make([]PointHit, 0, len(found))
	for _, s := range found {
		item := s.(*pointItem)
		d := Distance(c, item.geocode.Point)
		if d > maxRadius {
			continue
		}
		hits = append(hits, PointHit{Address: item.address, Geocode: item.geocode, Distance: d})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hitLess(hits[i], hits[j])
	})

	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

func pointRect(x, y float64) rtreego.Rect {
	r, _ := rtreego.NewRect(rtreego.Point{x - pointTolerance, y - pointTolerance}, []float64{2 * pointTolerance, 2 * pointTolerance})
	return r
}

func hitLess(a, b PointHit) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	if a.Address.StreetAddress != b.Address.StreetAddress {
		return a.Address.StreetAddress < b.Address.StreetAddress
	}
	return a.Geocode.Less(b.Geocode)
}

// Containing returns the polygon of layer that contains c (state plane), if any
func (idx *Index) Containing(c domain.Coordinate, layer domain.ServiceAreaLayer) (*domain.ServiceAreaPolygon, bool) {
	li, ok := idx.layers[layer]
	if !ok {
		return nil, false
	}
	p := li.containing(c)
	return p, p != nil
}

// FindByAccount returns addresses linked to an OPA account number, in address order
func (idx *Index) FindByAccount(account string) []*domain.AddressRecord {
	return idx.byAccount[account]
}

// FindByPWDParcel returns addresses on a PWD parcel, in address order
func (idx *Index) FindByPWDParcel(id string) []*domain.AddressRecord {
	return idx.byPWDParcel[id]
}

// FindByDORParcel returns addresses on a DOR parcel, in address order
func (idx *Index) FindByDORParcel(id string) []*domain.AddressRecord {
	return idx.byDORParcel[id]
}

// FindByOwner returns addresses whose owners contain every part, in address order
func (idx *Index) FindByOwner(parts []string) []*domain.AddressRecord {
	if len(parts) == 0 {
		return nil
	}
	var result []*domain.AddressRecord
	for _, rec := range idx.ordered {
		if rec.OwnerMatches(parts) {
			result = append(result, rec)
		}
	}
	return result
}

// Stats returns the build counters
func (idx *Index) Stats() BuildStats {
	s := idx.stats
	s.Polygons = make(map[domain.ServiceAreaLayer]int, len(idx.stats.Polygons))
	for k, v := range idx.stats.Polygons {
		s.Polygons[k] = v
	}
	return s
}
