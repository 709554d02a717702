// Package builtin registers the retriever implementations shipped with
// Ganymede.
package builtin

import (
	"mercator-hq/ganymede/pkg/retrievers"
	"mercator-hq/ganymede/pkg/retrievers/relational"
	"mercator-hq/ganymede/pkg/retrievers/vector"
)

// NewRegistry returns a registry with every built-in implementation
// registered. embedders supplies vector retrievers with an embedder; nil
// selects the OpenAI-compatible embedder from configuration.
func NewRegistry(embedders vector.EmbedderFactory) *retrievers.Registry {
	reg := retrievers.NewRegistry()
	reg.Register(relational.Implementation, relational.New)
	reg.Register(vector.Implementation, vector.NewConstructor(embedders))
	return reg
}
