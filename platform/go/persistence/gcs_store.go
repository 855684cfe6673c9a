package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	platformstorage "github.com/parsa000721/CopTrack/platform/go/storage"
)

const (
	gcsManifestKey  = "manifest.json"
	gcsSnapshotsDir = "snapshots/"
)

type gcsManifest struct {
	Generation string            `json:"generation"`
	Keys       []string          `json:"keys"`
	Digests    map[string]string `json:"digests,omitempty"`
}

// GCSStore writes every document of a snapshot under a fresh generation directory and then
// replaces the manifest object. The manifest write is the commit point; older generations
// are removed afterwards on a best-effort basis.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

func NewGCSStore(client *storage.Client, bucket, prefix string, logger *zap.Logger) (*GCSStore, error) {
	if client == nil {
		return nil, errors.New("storage client is required")
	}
	if _, err := platformstorage.ResolveObjectLocation(prefix, bucket, gcsManifestKey); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GCSStore{client: client, bucket: bucket, prefix: prefix, logger: logger}, nil
}

func (s *GCSStore) location(key string) platformstorage.ObjectLocation {
	// validated in the constructor; key is never blank
	loc, _ := platformstorage.ResolveObjectLocation(s.prefix, s.bucket, key)
	return loc
}

func (s *GCSStore) Load(ctx context.Context) (Documents, error) {
	raw, err := s.read(ctx, gcsManifestKey)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest gcsManifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	docs := make(Documents, len(manifest.Keys))
	for _, key := range manifest.Keys {
		body, err := s.read(ctx, generationKey(manifest.Generation, key))
		if err != nil {
			return nil, fmt.Errorf("read document %s: %w", key, err)
		}
		if err := verifyDigest(key, body, manifest.Digests[key]); err != nil {
			return nil, err
		}
		docs[key] = body
	}
	return docs, nil
}

func (s *GCSStore) Save(ctx context.Context, docs Documents) error {
	if err := docs.Validate(); err != nil {
		return err
	}

	manifest := gcsManifest{
		Generation: uuid.Must(uuid.NewV7()).String(),
		Keys:       docs.Keys(),
		Digests:    make(map[string]string, len(docs)),
	}

	for _, key := range manifest.Keys {
		digest, err := documentDigest(docs[key])
		if err != nil {
			return fmt.Errorf("digest document %s: %w", key, err)
		}
		manifest.Digests[key] = digest
		if err := s.write(ctx, generationKey(manifest.Generation, key), docs[key]); err != nil {
			return fmt.Errorf("write document %s: %w", key, err)
		}
	}

	raw, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := s.write(ctx, gcsManifestKey, raw); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	s.pruneGenerations(ctx, manifest.Generation)
	return nil
}

func (s *GCSStore) pruneGenerations(ctx context.Context, keep string) {
	dir := s.location(gcsSnapshotsDir)
	bkt := s.client.Bucket(s.bucket)
	it := bkt.Objects(ctx, &storage.Query{Prefix: dir.FullPath})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return
		}
		if err != nil {
			s.logger.Warn("list old snapshot generations", zap.Error(err))
			return
		}
		if strings.HasPrefix(attrs.Name, dir.FullPath+keep+"/") {
			continue
		}
		if err := bkt.Object(attrs.Name).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			s.logger.Warn("delete old snapshot object", zap.String("object", attrs.Name), zap.Error(err))
		}
	}
}

func (s *GCSStore) read(ctx context.Context, key string) ([]byte, error) {
	loc := s.location(key)
	r, err := s.client.Bucket(loc.Bucket).Object(loc.FullPath).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *GCSStore) write(ctx context.Context, key string, body []byte) error {
	loc := s.location(key)
	w := s.client.Bucket(loc.Bucket).Object(loc.FullPath).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func generationKey(generation, key string) string {
	return gcsSnapshotsDir + generation + "/" + key + ".json"
}

var _ SnapshotStore = (*GCSStore)(nil)
