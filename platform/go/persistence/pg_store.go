package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	sqlassets "github.com/parsa000721/CopTrack/database"
)

// SnapshotDocumentsTable holds one row per snapshot document.
const SnapshotDocumentsTable = "coptrack_snapshot_documents"

// PostgresStore keeps each snapshot document in its own jsonb row. Save rewrites every row and
// removes stale keys inside one transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema creates the snapshot table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, sqlassets.SnapshotDocumentsSQL); err != nil {
		return fmt.Errorf("apply snapshot schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (Documents, error) {
	query := fmt.Sprintf("SELECT doc_key, body FROM %s", SnapshotDocumentsTable)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query snapshot documents: %w", err)
	}
	defer rows.Close()

	docs := Documents{}
	for rows.Next() {
		var (
			key  string
			body []byte
		)
		if err := rows.Scan(&key, &body); err != nil {
			return nil, fmt.Errorf("scan snapshot document: %w", err)
		}
		docs[key] = json.RawMessage(body)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot documents: %w", err)
	}

	if len(docs) == 0 {
		return nil, ErrNoSnapshot
	}
	return docs, nil
}

func (s *PostgresStore) Save(ctx context.Context, docs Documents) error {
	if err := docs.Validate(); err != nil {
		return err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	keys := docs.Keys()

	prune := fmt.Sprintf("DELETE FROM %s WHERE NOT (doc_key = ANY($1))", SnapshotDocumentsTable)
	if _, err := tx.Exec(ctx, prune, keys); err != nil {
		return fmt.Errorf("prune snapshot documents: %w", err)
	}

	upsert := fmt.Sprintf(`
        INSERT INTO %s (doc_key, body, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (doc_key) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
    `, SnapshotDocumentsTable)

	batch := &pgx.Batch{}
	for _, key := range keys {
		batch.Queue(upsert, key, []byte(docs[key]))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("write snapshot documents: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

var _ SnapshotStore = (*PostgresStore)(nil)
