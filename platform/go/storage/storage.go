package storage

import (
	"fmt"
	"strings"
)

// ObjectLocation describes where a blob should live.
type ObjectLocation struct {
	Bucket   string
	FullPath string
}

// ResolveObjectLocation combines a deployment prefix and a logical key into a bucket/path pair.
//   - bucket must come from deployment configuration (one bucket per environment class).
//   - prefix scopes one deployment inside the bucket (e.g. "prod/coptrack/"); a missing trailing slash is added.
//   - logicalKey is relative to the prefix, e.g. "snapshots/<generation>/records.json".
func ResolveObjectLocation(prefix, bucket, logicalKey string) (ObjectLocation, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return ObjectLocation{}, fmt.Errorf("bucket is required")
	}
	key := strings.TrimSpace(logicalKey)
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return ObjectLocation{}, fmt.Errorf("logical key is required")
	}

	prefix = strings.TrimPrefix(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ObjectLocation{}, fmt.Errorf("object prefix is missing")
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return ObjectLocation{Bucket: bucket, FullPath: prefix + key}, nil
}
