package storage

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// PrefixChecker verifies access to a bucket/prefix before a backend starts using it.
type PrefixChecker struct {
	client *storage.Client
}

func NewPrefixChecker(client *storage.Client) *PrefixChecker {
	if client == nil {
		panic("storage client is required")
	}
	return &PrefixChecker{client: client}
}

// Check reads the bucket attributes and lists at most one object under prefix; an empty prefix listing is fine.
func (p *PrefixChecker) Check(ctx context.Context, bucket, prefix string) error {
	if bucket == "" {
		return fmt.Errorf("bucket required")
	}
	if prefix == "" {
		return fmt.Errorf("prefix required")
	}

	bkt := p.client.Bucket(bucket)
	if _, err := bkt.Attrs(ctx); err != nil {
		return fmt.Errorf("bucket attrs: %w", err)
	}

	it := bkt.Objects(ctx, &storage.Query{Prefix: prefix})
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("list prefix: %w", err)
	}
	return nil
}
