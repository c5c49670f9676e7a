package objectstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotPath(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
		ok     bool
	}{
		{"addresses", "current/", "current/addresses.geojson", "addresses.geojson", true},
		{"service areas without trailing slash prefix", "current", "current/service_areas.geojson", "service_areas.geojson", true},
		{"layer shapefile", "current/", "current/layers/zoning.shp", "layers/zoning.shp", true},
		{"layer attributes", "current/", "current/layers/zoning.DBF", "layers/zoning.DBF", true},
		{"unrelated file", "current/", "current/readme.txt", "", false},
		{"nested layer dir", "current/", "current/layers/old/zoning.shp", "", false},
		{"directory marker", "current/", "current/layers/", "", false},
		{"traversal", "current/", "current/../addresses.geojson", "", false},
		{"prefix itself", "current/", "current/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := snapshotPath(tt.prefix, tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
