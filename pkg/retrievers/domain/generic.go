package domain

import (
	"github.com/tidwall/gjson"

	"mercator-hq/ganymede/pkg/retrievers"
)

// Default parameters for the generic adapter.
const (
	DefaultContentField     = "content"
	DefaultMaxSummaryLength = 2000
	DefaultGenericResults   = 10
)

// GenericAdapter passes text records through, optionally extracting a field
// from JSON records and truncating long content.
type GenericAdapter struct {
	contentField string
	maxLength    int
	maxResults   int
}

// NewGenericAdapter creates a generic adapter. Recognized params:
// content_field, max_summary_length, max_results.
func NewGenericAdapter(params map[string]any) (retrievers.DomainAdapter, error) {
	a := &GenericAdapter{}
	var err error

	if a.contentField, err = retrievers.StringParam(params, "content_field", DefaultContentField); err != nil {
		return nil, err
	}
	if a.maxLength, err = retrievers.IntParam(params, "max_summary_length", DefaultMaxSummaryLength); err != nil {
		return nil, err
	}
	if a.maxResults, err = retrievers.IntParam(params, "max_results", DefaultGenericResults); err != nil {
		return nil, err
	}
	return a, nil
}

// Name returns "generic".
func (a *GenericAdapter) Name() string { return "generic" }

// FormatDocument implements retrievers.DomainAdapter.
func (a *GenericAdapter) FormatDocument(raw string, meta map[string]any) retrievers.Document {
	doc := newDocument(meta)

	content := raw
	if gjson.Valid(raw) {
		if field := gjson.Get(raw, a.contentField); field.Exists() {
			content = field.String()
		}
	}

	if a.maxLength > 0 {
		if runes := []rune(content); len(runes) > a.maxLength {
			content = string(runes[:a.maxLength]) + "..."
			doc.Metadata["truncated"] = true
		}
	}
	doc.Content = content
	return doc
}

// Filter orders documents by score and caps them at max_results.
func (a *GenericAdapter) Filter(_ string, docs []retrievers.Document) []retrievers.Document {
	return rank(append([]retrievers.Document(nil), docs...), a.maxResults)
}
