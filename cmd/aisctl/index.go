package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ais-service/internal/bootstrap"
	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/spatial"
	"github.com/ais-service/internal/usecase"
	"github.com/ais-service/internal/usecase/dto"
)

// buildIndex loads the configured snapshot and publishes one generation into a private store
func buildIndex(ctx context.Context) (*usecase.IndexUseCase, *spatial.GenerationStore, error) {
	source, err := bootstrap.NewSnapshotSource(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = source.Close() }()

	resolver, err := bootstrap.NewResolver(cfg)
	if err != nil {
		return nil, nil, err
	}

	store := spatial.NewGenerationStore()
	indexUC := usecase.NewIndexUseCase(source, resolver, store, nil, log)
	if _, err := indexUC.Rebuild(ctx, "aisctl"); err != nil {
		return nil, nil, err
	}
	return indexUC, store, nil
}

// parseXY reads "x,y" or two separate arguments
func parseXY(args []string) (x, y float64, err error) {
	joined := strings.Join(args, ",")
	parts := strings.Split(joined, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected x,y, got %q", joined)
	}
	if x, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return 0, 0, fmt.Errorf("bad x %q: %w", parts[0], err)
	}
	if y, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return 0, 0, fmt.Errorf("bad y %q: %w", parts[1], err)
	}
	return x, y, nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatStats(out io.Writer, s *dto.IndexStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "GENERATION\t%s\n", s.GenerationID)
	_, _ = fmt.Fprintf(w, "SOURCE\t%s\n", s.Source)
	_, _ = fmt.Fprintf(w, "VERSION\t%s\n", s.Version)
	_, _ = fmt.Fprintf(w, "BUILD\t%dms\n", s.BuildDurationMS)
	_, _ = fmt.Fprintf(w, "ADDRESSES\t%d\n", s.Addresses)
	_, _ = fmt.Fprintf(w, "CANDIDATES\t%d\n", s.Candidates)
	_, _ = fmt.Fprintf(w, "GHOST ADDRESSES\t%d\n", s.GhostAddresses)
	_, _ = fmt.Fprintf(w, "DUPLICATES\t%d\n", s.DuplicateAddresses)
	_, _ = fmt.Fprintf(w, "SKIPPED POLYGONS\t%d\n", s.SkippedPolygons)
	_ = w.Flush()

	layers := make([]string, 0, len(s.Polygons))
	for layer := range s.Polygons {
		layers = append(layers, string(layer))
	}
	sort.Strings(layers)

	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "\nLAYER\tPOLYGONS")
	_, _ = fmt.Fprintln(w, "-----\t--------")
	for _, layer := range layers {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", layer, s.Polygons[domain.ServiceAreaLayer(layer)])
	}
	_, _ = fmt.Fprintf(w, "empty layers\t%d of %d\n", len(domain.ServiceAreaLayers)-len(layers), len(domain.ServiceAreaLayers))
	_ = w.Flush()
}
