package domain

import "time"

// Dataset - everything an index generation is built from
type Dataset struct {
	Addresses []AddressRecord
	Polygons  []ServiceAreaPolygon
	// Version identifies the source snapshot (engine build id, object etag, file mtime)
	Version  string
	Source   string
	LoadedAt time.Time
}
