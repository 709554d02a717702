package vector

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Entry is a stored document with its embedding.
type Entry struct {
	ID       string
	Content  string
	Metadata map[string]any
	Vector   []float32
}

// Match is a search hit.
type Match struct {
	Entry
	Score float64
}

// Store persists embeddings in a SQLite table and searches them by cosine
// similarity. It uses the pure Go modernc.org/sqlite driver.
type Store struct {
	db    *sql.DB
	table string
}

// OpenStore opens (creating if needed) the embedding table at path.
func OpenStore(ctx context.Context, path, table string, busyTimeout time.Duration) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store %s: %w", path, err)
	}

	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		metadata TEXT,
		vector BLOB NOT NULL
	)`, table)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create vector table %q: %w", table, err)
	}

	return &Store{db: db, table: table}, nil
}

// Add inserts or replaces an entry.
func (s *Store) Add(ctx context.Context, e Entry) error {
	if e.ID == "" {
		return fmt.Errorf("vector entry requires an id")
	}
	if len(e.Vector) == 0 {
		return fmt.Errorf("vector entry %q has no embedding", e.ID)
	}

	var meta []byte
	if len(e.Metadata) > 0 {
		var err error
		if meta, err = json.Marshal(e.Metadata); err != nil {
			return fmt.Errorf("failed to encode metadata for %q: %w", e.ID, err)
		}
	}

	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT OR REPLACE INTO %s (id, content, metadata, vector) VALUES (?, ?, ?, ?)", s.table),
		e.ID, e.Content, string(meta), encodeVector(e.Vector),
	)
	if err != nil {
		return fmt.Errorf("failed to store %q: %w", e.ID, err)
	}
	return nil
}

// Search returns up to k entries whose similarity to vec is at least
// minScore, most similar first. Entries with a different dimension are skipped.
func (s *Store) Search(ctx context.Context, vec []float32, k int, minScore float64) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, content, metadata, vector FROM %s", s.table))
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var (
			m    Match
			meta sql.NullString
			blob []byte
		)
		if err := rows.Scan(&m.ID, &m.Content, &meta, &blob); err != nil {
			return nil, fmt.Errorf("vector scan failed: %w", err)
		}

		stored := decodeVector(blob)
		if len(stored) != len(vec) {
			continue
		}
		m.Score = cosineSimilarity(vec, stored)
		if m.Score < minScore {
			continue
		}

		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &m.Metadata); err != nil {
				return nil, fmt.Errorf("corrupt metadata for %q: %w", m.ID, err)
			}
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) []float32 {
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / math.Sqrt(normA*normB)
}
