// Package relational implements a keyword retriever over a SQLite table.
//
// Rows whose content matches any query term are scored by the fraction of
// query terms they contain, then shaped and filtered by the domain adapter.
package relational

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	_ "github.com/mattn/go-sqlite3"

	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/retrievers"
)

// Implementation is the registry name of this retriever.
const Implementation = "relational.sqlite"

// Default parameters.
const (
	DefaultTable         = "documents"
	DefaultIDColumn      = "id"
	DefaultContentColumn = "content"
	DefaultMaxResults    = 10

	// candidateMultiplier bounds how many matching rows are scored per result.
	candidateMultiplier = 5
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Retriever is a keyword retriever backed by github.com/mattn/go-sqlite3.
type Retriever struct {
	name          string
	path          string
	busyTimeout   time.Duration
	table         string
	idColumn      string
	contentColumn string
	maxResults    int

	adapter retrievers.DomainAdapter
	logger  *slog.Logger

	// mu guards db. Retrievals hold the read lock for their whole query so
	// Close never pulls the handle out from under them.
	mu sync.RWMutex
	db *sql.DB
}

// New creates an unopened relational retriever. Recognized params: path,
// table, id_column, content_column, max_results.
func New(settings retrievers.Settings, adapter retrievers.DomainAdapter) (retrievers.Retriever, error) {
	if adapter == nil {
		return nil, fmt.Errorf("relational retriever %q requires a domain adapter", settings.AdapterName)
	}

	r := &Retriever{
		name:        settings.AdapterName,
		path:        config.DefaultSQLitePath,
		busyTimeout: config.DefaultSQLiteBusyTimeout,
		adapter:     adapter,
		logger:      slog.Default().With("component", "retrievers.relational", "adapter", settings.AdapterName),
	}
	if settings.Config != nil {
		r.path = settings.Config.Datasources.SQLite.Path
		r.busyTimeout = settings.Config.Datasources.SQLite.BusyTimeout
	}

	p := settings.Params
	var err error
	if r.path, err = retrievers.StringParam(p, "path", r.path); err != nil {
		return nil, err
	}
	if r.table, err = identifierParam(p, "table", DefaultTable); err != nil {
		return nil, err
	}
	if r.idColumn, err = identifierParam(p, "id_column", DefaultIDColumn); err != nil {
		return nil, err
	}
	if r.contentColumn, err = identifierParam(p, "content_column", DefaultContentColumn); err != nil {
		return nil, err
	}
	if r.maxResults, err = retrievers.IntParam(p, "max_results", DefaultMaxResults); err != nil {
		return nil, err
	}
	if r.maxResults < 1 {
		return nil, &retrievers.ParamError{Param: "max_results", Message: "must be positive"}
	}

	return r, nil
}

// identifierParam reads a SQL identifier parameter. Identifiers are
// interpolated into queries, so only plain names are accepted.
func identifierParam(params map[string]any, key, def string) (string, error) {
	v, err := retrievers.StringParam(params, key, def)
	if err != nil {
		return "", err
	}
	if !identifierPattern.MatchString(v) {
		return "", &retrievers.ParamError{Param: key, Message: fmt.Sprintf("%q is not a valid identifier", v)}
	}
	return v, nil
}

// Initialize opens the database and verifies the configured table exists.
func (r *Retriever) Initialize(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_busy_timeout=%d", r.path, r.busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", r.path, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to %s: %w", r.path, err)
	}

	var found string
	err = db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", r.table,
	).Scan(&found)
	if err != nil {
		db.Close()
		if err == sql.ErrNoRows {
			return fmt.Errorf("table %q not found in %s", r.table, r.path)
		}
		return fmt.Errorf("failed to inspect %s: %w", r.path, err)
	}

	r.mu.Lock()
	r.db = db
	r.mu.Unlock()

	r.logger.Info("relational retriever initialized",
		"path", r.path,
		"table", r.table,
		"domain_adapter", r.adapter.Name(),
	)
	return nil
}

// GetRelevantContext implements retrievers.Retriever.
func (r *Retriever) GetRelevantContext(ctx context.Context, query string, opts retrievers.QueryOptions) ([]retrievers.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.db == nil {
		return nil, fmt.Errorf("relational retriever %q is not open", r.name)
	}

	terms := queryTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	limit := r.maxResults
	if opts.MaxResults > 0 {
		limit = opts.MaxResults
	}

	conds := make([]string, len(terms))
	args := make([]any, 0, len(terms)+1)
	for i, term := range terms {
		conds[i] = fmt.Sprintf("lower(%s) LIKE ?", r.contentColumn)
		args = append(args, "%"+term+"%")
	}
	args = append(args, limit*candidateMultiplier)

	stmt := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s LIMIT ?",
		r.idColumn, r.contentColumn, r.table, strings.Join(conds, " OR "))

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s failed: %w", r.table, err)
	}
	defer rows.Close()

	var docs []retrievers.Document
	for rows.Next() {
		var id, content string
		if err := rows.Scan(&id, &content); err != nil {
			return nil, fmt.Errorf("scan %s failed: %w", r.table, err)
		}
		docs = append(docs, r.adapter.FormatDocument(content, map[string]any{
			"id":     id,
			"score":  termScore(content, terms),
			"source": r.table,
		}))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s failed: %w", r.table, err)
	}

	docs = r.adapter.Filter(query, docs)
	if len(docs) > limit {
		docs = docs[:limit]
	}

	r.logger.Debug("retrieved documents", "terms", len(terms), "documents", len(docs))
	return docs, nil
}

// Close closes the database handle. It waits for running retrievals.
func (r *Retriever) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// queryTerms splits a query into unique lowercase words.
func queryTerms(query string) []string {
	words := strings.FieldsFunc(strings.ToLower(query), func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})

	seen := make(map[string]bool, len(words))
	terms := words[:0]
	for _, w := range words {
		if len(w) < 2 || seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, w)
	}
	return terms
}

func termScore(content string, terms []string) float64 {
	lower := strings.ToLower(content)
	matched := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}
