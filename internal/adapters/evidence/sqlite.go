package evidence

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
)

//go:embed migrations/001_initial_schema.sql
var migrationV1 string

// MetadataVersion is stamped into every stored record as _version.
const MetadataVersion = 1

// Injected bookkeeping metadata keys.
const (
	MetaKeyType     = "_type"
	MetaKeyStoredAt = "_storedAt"
	MetaKeyVersion  = "_version"
)

// Store is a SQLite-backed key/value + nearest-neighbor store for
// verification evidence vectors.
type Store struct {
	dbPath string
	db     *sql.DB
	mu     sync.RWMutex
	now    func() time.Time
}

// StoreOption configures the store.
type StoreOption func(*Store)

// WithClock overrides the _storedAt timestamp source (tests).
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// New opens (creating if needed) the evidence store at dbPath.
func New(dbPath string, opts ...StoreOption) (*Store, error) {
	s := &Store{dbPath: dbPath, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating evidence directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s.db = db

	if err := s.migrate(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("running migrations: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		version = 0
	}
	if version < 1 {
		if _, err := s.db.Exec(migrationV1); err != nil {
			return fmt.Errorf("applying migration v1: %w", err)
		}
	}
	return nil
}

// Put stores a vector and its metadata under key, replacing any existing
// record. The metadata is copied and stamped with _type (derived from the key
// namespace), _storedAt (epoch ms) and _version.
func (s *Store) Put(ctx context.Context, key string, vector []float64, metadata map[string]any) error {
	if len(vector) != VectorDim {
		return core.ErrValidation("VECTOR_DIM", fmt.Sprintf("expected %d dimensions, got %d", VectorDim, len(vector)))
	}

	stamped := make(map[string]any, len(metadata)+3)
	for k, v := range metadata {
		stamped[k] = v
	}
	stamped[MetaKeyType] = recordType(key)
	stamped[MetaKeyStoredAt] = s.now().UnixMilli()
	stamped[MetaKeyVersion] = MetadataVersion

	metaJSON, err := json.Marshal(stamped)
	if err != nil {
		return core.ErrSerialization("marshaling metadata").WithCause(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO vectors (key, vector, metadata, record_type, created_at) VALUES (?, ?, ?, ?, ?)`,
		key, encodeVector(vector), string(metaJSON), recordType(key), s.now().UnixMilli(),
	)
	if err != nil {
		return core.ErrStorage("PUT", "storing vector").WithCause(err)
	}
	return nil
}

// Get returns the metadata stored under key, or nil when the key is absent.
func (s *Store) Get(ctx context.Context, key string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var metaJSON string
	err := s.db.QueryRowContext(ctx, `SELECT metadata FROM vectors WHERE key = ?`, key).Scan(&metaJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, core.ErrStorage("GET", "reading vector").WithCause(err)
	}

	var metadata map[string]any
	if err := json.Unmarshal([]byte(metaJSON), &metadata); err != nil {
		return nil, core.ErrSerialization("unmarshaling metadata").WithCause(err)
	}
	return metadata, nil
}

// Delete removes the record under key, reporting whether it existed.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM vectors WHERE key = ?`, key)
	if err != nil {
		return false, core.ErrStorage("DELETE", "deleting vector").WithCause(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, core.ErrStorage("DELETE", "reading delete result").WithCause(err)
	}
	return affected > 0, nil
}

// SearchResult is one nearest-neighbor match.
type SearchResult struct {
	Key        string         `json:"key"`
	Similarity float64        `json:"similarity"`
	Metadata   map[string]any `json:"metadata"`
}

// SearchOptions tunes nearest-neighbor search.
type SearchOptions struct {
	// K is the maximum number of results (default 10).
	K int
	// Filter restricts results to records whose metadata matches every
	// key/value pair exactly.
	Filter map[string]any
}

// Search returns up to K records ranked by cosine similarity to the query
// vector. The scan is brute-force over all stored vectors; the store is sized
// for verification corpora, not web-scale indexes.
func (s *Store) Search(ctx context.Context, vector []float64, opts SearchOptions) ([]SearchResult, error) {
	if len(vector) != VectorDim {
		return nil, core.ErrValidation("VECTOR_DIM", fmt.Sprintf("expected %d dimensions, got %d", VectorDim, len(vector)))
	}
	k := opts.K
	if k <= 0 {
		k = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT key, vector, metadata FROM vectors`)
	if err != nil {
		return nil, core.ErrStorage("SEARCH", "scanning vectors").WithCause(err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var key string
		var blob []byte
		var metaJSON string
		if err := rows.Scan(&key, &blob, &metaJSON); err != nil {
			return nil, core.ErrStorage("SEARCH", "scanning row").WithCause(err)
		}

		stored, err := decodeVector(blob)
		if err != nil {
			continue
		}

		var metadata map[string]any
		if err := json.Unmarshal([]byte(metaJSON), &metadata); err != nil {
			continue
		}
		if !matchesFilter(metadata, opts.Filter) {
			continue
		}

		results = append(results, SearchResult{
			Key:        key,
			Similarity: CosineSimilarity(vector, stored),
			Metadata:   metadata,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, core.ErrStorage("SEARCH", "iterating rows").WithCause(err)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Similarity > results[j].Similarity })
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Stats summarizes store contents.
type Stats struct {
	VectorCount int `json:"vectorCount"`
}

// Stats returns store-level statistics.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vectors`).Scan(&count); err != nil {
		return Stats{}, core.ErrStorage("STATS", "counting vectors").WithCause(err)
	}
	return Stats{VectorCount: count}, nil
}

// recordType is the key namespace before the first colon ("truth",
// "snapshot"), or "record" for un-namespaced keys.
func recordType(key string) string {
	if idx := strings.Index(key, ":"); idx > 0 {
		return key[:idx]
	}
	return "record"
}

func matchesFilter(metadata, filter map[string]any) bool {
	for k, want := range filter {
		got, ok := metadata[k]
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func encodeVector(v []float64) []byte {
	buf := make([]byte, 8*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func decodeVector(b []byte) ([]float64, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("malformed vector blob: %d bytes", len(b))
	}
	v := make([]float64, len(b)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return v, nil
}
