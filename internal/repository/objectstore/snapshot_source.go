package objectstore

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ais-service/internal/config"
	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/domain/repository"
	"github.com/ais-service/internal/repository/file"
)

const downloadConcurrency = 4

// NewClient connects to an S3-compatible endpoint
func NewClient(cfg *config.ObjectStoreConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}
	return client, nil
}

type snapshotSource struct {
	client *minio.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewSnapshotSource downloads the snapshot files under bucket/prefix and decodes them
// like a local snapshot directory.
func NewSnapshotSource(client *minio.Client, cfg *config.ObjectStoreConfig, logger *zap.Logger) repository.SnapshotSource {
	return &snapshotSource{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger,
	}
}

func (s *snapshotSource) Name() string {
	return fmt.Sprintf("objectstore:%s/%s", s.bucket, s.prefix)
}

func (s *snapshotSource) Load(ctx context.Context) (*domain.Dataset, error) {
	tmp, err := os.MkdirTemp("", "ais-snapshot-")
	if err != nil {
		return nil, eris.Wrap(err, "objectstore: create temp dir")
	}
	defer func() {
		if err := os.RemoveAll(tmp); err != nil {
			s.logger.Warn("Failed to remove snapshot temp dir", zap.String("dir", tmp), zap.Error(err))
		}
	}()

	var (
		mu      sync.Mutex
		version string
		count   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(downloadConcurrency)

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.prefix, Recursive: true}) {
		if obj.Err != nil {
			_ = g.Wait()
			return nil, eris.Wrapf(obj.Err, "objectstore: list %s/%s", s.bucket, s.prefix)
		}
		rel, ok := snapshotPath(s.prefix, obj.Key)
		if !ok {
			continue
		}

		key, etag := obj.Key, obj.ETag
		local := filepath.Join(tmp, filepath.FromSlash(rel))
		g.Go(func() error {
			if err := s.client.FGetObject(gctx, s.bucket, key, local, minio.GetObjectOptions{}); err != nil {
				return eris.Wrapf(err, "objectstore: download %s", key)
			}
			mu.Lock()
			count++
			if rel == file.AddressesFile {
				version = strings.Trim(etag, `"`)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("Snapshot downloaded",
		zap.String("bucket", s.bucket),
		zap.String("prefix", s.prefix),
		zap.Int("objects", count))

	ds, err := file.NewSnapshotSource(tmp, s.logger).Load(ctx)
	if err != nil {
		return nil, err
	}
	ds.Source = s.Name()
	if version != "" {
		ds.Version = version
	}
	return ds, nil
}

// snapshotPath maps an object key to its path inside the snapshot directory.
// Keys outside the snapshot layout or escaping the directory are ignored.
func snapshotPath(prefix, key string) (string, bool) {
	rel := strings.TrimPrefix(key, prefix)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || strings.HasSuffix(rel, "/") {
		return "", false
	}
	clean := path.Clean(rel)
	if clean != rel || strings.HasPrefix(clean, "../") || clean == ".." {
		return "", false
	}

	switch {
	case clean == file.AddressesFile, clean == file.ServiceAreasFile:
		return clean, true
	case path.Dir(clean) == file.LayersDir:
		switch strings.ToLower(path.Ext(clean)) {
		case ".shp", ".shx", ".dbf", ".prj", ".cpg":
			return clean, true
		}
	}
	return "", false
}
