package retrievers

import (
	"context"

	"mercator-hq/ganymede/pkg/config"
)

// Document is a single piece of retrieved context.
type Document struct {
	// ID identifies the document within its datasource.
	ID string `json:"id"`

	// Content is the text handed to the model as context.
	Content string `json:"content"`

	// Score is the relevance score in [0, 1]. Higher is more relevant.
	Score float64 `json:"score"`

	// Metadata carries backend or domain specific attributes.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// QueryOptions tunes a single retrieval.
type QueryOptions struct {
	// APIKey is the caller's key, forwarded for backends that scope data per key.
	APIKey string

	// MaxResults caps the number of documents returned. Zero means the
	// retriever's configured default.
	MaxResults int

	// Extra holds backend specific options.
	Extra map[string]any
}

// Retriever is the capability set every document store backend provides.
type Retriever interface {
	// Initialize acquires the resources the retriever needs. It is called
	// exactly once before the retriever is used.
	Initialize(ctx context.Context) error

	// GetRelevantContext returns documents relevant to query, most relevant first.
	GetRelevantContext(ctx context.Context, query string, opts QueryOptions) ([]Document, error)

	// Close releases all resources held by the retriever.
	Close() error
}

// Indexer is implemented by retrievers that accept new documents.
type Indexer interface {
	// Index stores content under id, replacing any earlier entry with that id.
	Index(ctx context.Context, id, content string, meta map[string]any) error
}

// Lifecycle provides no-op Initialize and Close for embedding.
type Lifecycle struct{}

// Initialize does nothing.
func (Lifecycle) Initialize(context.Context) error { return nil }

// Close does nothing.
func (Lifecycle) Close() error { return nil }

// DomainAdapter shapes raw datasource records into documents for one domain
// (question/answer pairs, free text, ...).
type DomainAdapter interface {
	// Name returns the adapter kind, e.g. "qa".
	Name() string

	// FormatDocument converts a raw record into a Document. meta carries
	// backend attributes such as id and score.
	FormatDocument(raw string, meta map[string]any) Document

	// Filter applies domain specific relevance filtering and ordering.
	Filter(query string, docs []Document) []Document
}

// Settings is everything a Constructor receives besides the domain adapter.
type Settings struct {
	// AdapterName is the configured adapter name.
	AdapterName string

	// Datasource names the datasource section the retriever reads from.
	Datasource string

	// Params are the adapter's free-form configuration parameters.
	Params map[string]any

	// Config is the full application configuration.
	Config *config.Config
}

// Constructor creates an unopened retriever.
type Constructor func(settings Settings, adapter DomainAdapter) (Retriever, error)
