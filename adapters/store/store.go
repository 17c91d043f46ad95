// Package store provides a content-addressed cache for compiled Dae
// artifacts, backed by PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"modelica-dae/core/dae"
	"modelica-dae/core/ir"
	internalerrors "modelica-dae/internal/errors"
)

// Store caches compiled Dae artifacts keyed by a caller-supplied content
// hash of the compilation input (modc hashes the parsed source tree
// together with the class path), so repeated compilations of unchanged
// models skip lowering, flattening and partitioning.
type Store interface {
	// Get looks up an artifact by its content hash. The second return
	// value is false on a cache miss.
	Get(ctx context.Context, hash ir.ContentHash) (*Artifact, bool, error)

	// Put stores an artifact, overwriting any existing entry for the
	// same hash.
	Put(ctx context.Context, artifact *Artifact) error

	// List returns artifacts recorded for the given model class path,
	// most recent first.
	List(ctx context.Context, modelClassPath string) ([]*Artifact, error)

	// Close releases the store's underlying resources.
	Close() error
}

// Artifact is one cached compilation result.
type Artifact struct {
	ID             string
	Hash           ir.ContentHash
	ModelClassPath string
	Dae            *dae.Dae
	CreatedAt      time.Time
}

// PostgresStore is the Postgres-backed Store implementation.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool against dsn and ensures the
// backing table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, internalerrors.Store("failed to open postgres connection", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, internalerrors.Store("failed to reach postgres", err)
	}

	s := &PostgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS dae_artifacts (
	id               UUID PRIMARY KEY,
	content_hash     TEXT NOT NULL UNIQUE,
	model_class_path TEXT NOT NULL,
	dae_json         JSONB NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS dae_artifacts_model_class_path_idx ON dae_artifacts (model_class_path, created_at DESC);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return internalerrors.Store("failed to create dae_artifacts table", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, hash ir.ContentHash) (*Artifact, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, model_class_path, dae_json, created_at FROM dae_artifacts WHERE content_hash = $1`,
		string(hash))

	var (
		id             string
		modelClassPath string
		daeJSON        []byte
		createdAt      time.Time
	)
	if err := row.Scan(&id, &modelClassPath, &daeJSON, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, internalerrors.Store("failed to query dae_artifacts", err)
	}

	var d dae.Dae
	if err := json.Unmarshal(daeJSON, &d); err != nil {
		return nil, false, internalerrors.Store("failed to unmarshal cached dae", err)
	}

	return &Artifact{
		ID:             id,
		Hash:           hash,
		ModelClassPath: modelClassPath,
		Dae:            &d,
		CreatedAt:      createdAt,
	}, true, nil
}

func (s *PostgresStore) Put(ctx context.Context, artifact *Artifact) error {
	if artifact.ID == "" {
		artifact.ID = uuid.New().String()
	}
	if artifact.CreatedAt.IsZero() {
		artifact.CreatedAt = time.Now().UTC()
	}

	daeJSON, err := json.Marshal(artifact.Dae)
	if err != nil {
		return internalerrors.Store("failed to marshal dae for caching", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO dae_artifacts (id, content_hash, model_class_path, dae_json, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (content_hash) DO UPDATE
SET dae_json = EXCLUDED.dae_json, created_at = EXCLUDED.created_at`,
		artifact.ID, string(artifact.Hash), artifact.ModelClassPath, daeJSON, artifact.CreatedAt)
	if err != nil {
		return internalerrors.Store("failed to upsert dae_artifacts", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, modelClassPath string) ([]*Artifact, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, content_hash, dae_json, created_at FROM dae_artifacts
WHERE model_class_path = $1
ORDER BY created_at DESC`, modelClassPath)
	if err != nil {
		return nil, internalerrors.Store("failed to list dae_artifacts", err)
	}
	defer rows.Close()

	var out []*Artifact
	for rows.Next() {
		var (
			id        string
			hash      string
			daeJSON   []byte
			createdAt time.Time
		)
		if err := rows.Scan(&id, &hash, &daeJSON, &createdAt); err != nil {
			return nil, internalerrors.Store("failed to scan dae_artifacts row", err)
		}
		var d dae.Dae
		if err := json.Unmarshal(daeJSON, &d); err != nil {
			return nil, internalerrors.Store("failed to unmarshal cached dae", err)
		}
		out = append(out, &Artifact{
			ID: id, Hash: ir.ContentHash(hash), ModelClassPath: modelClassPath,
			Dae: &d, CreatedAt: createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, internalerrors.Store("failed reading dae_artifacts rows", err)
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// MemoryStore is an in-process Store, used by tests and by callers that
// don't have a Postgres instance configured.
type MemoryStore struct {
	byHash map[ir.ContentHash]*Artifact
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byHash: make(map[ir.ContentHash]*Artifact)}
}

func (s *MemoryStore) Get(_ context.Context, hash ir.ContentHash) (*Artifact, bool, error) {
	a, ok := s.byHash[hash]
	return a, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, artifact *Artifact) error {
	if artifact.ID == "" {
		artifact.ID = uuid.New().String()
	}
	if artifact.CreatedAt.IsZero() {
		artifact.CreatedAt = time.Now().UTC()
	}
	s.byHash[artifact.Hash] = artifact
	return nil
}

func (s *MemoryStore) List(_ context.Context, modelClassPath string) ([]*Artifact, error) {
	var out []*Artifact
	for _, a := range s.byHash {
		if a.ModelClassPath == modelClassPath {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
