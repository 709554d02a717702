// Package vector implements an embedding-similarity retriever over a SQLite
// table of stored vectors.
package vector

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/retrievers"
)

// Implementation is the registry name of this retriever.
const Implementation = "vector.sqlite"

// Default parameters.
const (
	DefaultCollection = "embeddings"
	DefaultMaxResults = 5
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var _ retrievers.Indexer = (*Retriever)(nil)

// Retriever embeds the query and returns the most similar stored entries.
type Retriever struct {
	name        string
	path        string
	collection  string
	busyTimeout time.Duration
	minScore    float64
	maxResults  int

	embedder Embedder
	adapter  retrievers.DomainAdapter
	logger   *slog.Logger

	// mu guards store for the duration of every read or write against it.
	mu    sync.RWMutex
	store *Store
}

// NewConstructor returns a retrievers.Constructor that uses embedders to
// obtain each retriever's embedder. A nil factory uses OpenAIEmbedderFactory.
func NewConstructor(embedders EmbedderFactory) retrievers.Constructor {
	if embedders == nil {
		embedders = OpenAIEmbedderFactory
	}
	return func(settings retrievers.Settings, adapter retrievers.DomainAdapter) (retrievers.Retriever, error) {
		return New(settings, adapter, embedders)
	}
}

// New creates an unopened vector retriever. Recognized params: path,
// collection, min_score, max_results, embedding_model.
func New(settings retrievers.Settings, adapter retrievers.DomainAdapter, embedders EmbedderFactory) (*Retriever, error) {
	if adapter == nil {
		return nil, fmt.Errorf("vector retriever %q requires a domain adapter", settings.AdapterName)
	}

	r := &Retriever{
		name:        settings.AdapterName,
		path:        config.DefaultVectorPath,
		busyTimeout: config.DefaultSQLiteBusyTimeout,
		minScore:    config.DefaultVectorMinScore,
		adapter:     adapter,
		logger:      slog.Default().With("component", "retrievers.vector", "adapter", settings.AdapterName),
	}
	if settings.Config != nil {
		r.path = settings.Config.Datasources.Vector.Path
		r.minScore = settings.Config.Datasources.Vector.MinScore
		r.busyTimeout = settings.Config.Datasources.SQLite.BusyTimeout
	}

	p := settings.Params
	var err error
	if r.path, err = retrievers.StringParam(p, "path", r.path); err != nil {
		return nil, err
	}
	if r.collection, err = retrievers.StringParam(p, "collection", DefaultCollection); err != nil {
		return nil, err
	}
	if !identifierPattern.MatchString(r.collection) {
		return nil, &retrievers.ParamError{Param: "collection", Message: fmt.Sprintf("%q is not a valid identifier", r.collection)}
	}
	if r.minScore, err = retrievers.FloatParam(p, "min_score", r.minScore); err != nil {
		return nil, err
	}
	if r.maxResults, err = retrievers.IntParam(p, "max_results", DefaultMaxResults); err != nil {
		return nil, err
	}
	if r.maxResults < 1 {
		return nil, &retrievers.ParamError{Param: "max_results", Message: "must be positive"}
	}

	if r.embedder, err = embedders(settings); err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return r, nil
}

// Initialize opens the embedding store.
func (r *Retriever) Initialize(ctx context.Context) error {
	store, err := OpenStore(ctx, r.path, r.collection, r.busyTimeout)
	if err != nil {
		return err
	}

	count, err := store.Count(ctx)
	if err != nil {
		store.Close()
		return fmt.Errorf("failed to count %q: %w", r.collection, err)
	}

	r.mu.Lock()
	r.store = store
	r.mu.Unlock()

	r.logger.Info("vector retriever initialized",
		"path", r.path,
		"collection", r.collection,
		"entries", count,
		"domain_adapter", r.adapter.Name(),
	)
	return nil
}

// Index embeds content and stores it under id, replacing any entry with
// the same id.
func (r *Retriever) Index(ctx context.Context, id, content string, meta map[string]any) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.store == nil {
		return fmt.Errorf("vector retriever %q is not open", r.name)
	}
	vec, err := r.embedder.Embed(ctx, content)
	if err != nil {
		return err
	}
	return r.store.Add(ctx, Entry{ID: id, Content: content, Metadata: meta, Vector: vec})
}

// GetRelevantContext implements retrievers.Retriever.
func (r *Retriever) GetRelevantContext(ctx context.Context, query string, opts retrievers.QueryOptions) ([]retrievers.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.store == nil {
		return nil, fmt.Errorf("vector retriever %q is not open", r.name)
	}

	limit := r.maxResults
	if opts.MaxResults > 0 {
		limit = opts.MaxResults
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	matches, err := r.store.Search(ctx, vec, limit, r.minScore)
	if err != nil {
		return nil, err
	}

	docs := make([]retrievers.Document, 0, len(matches))
	for _, m := range matches {
		meta := make(map[string]any, len(m.Metadata)+3)
		for k, v := range m.Metadata {
			meta[k] = v
		}
		meta["id"] = m.ID
		meta["score"] = m.Score
		meta["source"] = r.collection
		docs = append(docs, r.adapter.FormatDocument(m.Content, meta))
	}

	docs = r.adapter.Filter(query, docs)
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// Close closes the embedding store once in-flight calls finish.
func (r *Retriever) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.store == nil {
		return nil
	}
	err := r.store.Close()
	r.store = nil
	return err
}
