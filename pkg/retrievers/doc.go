// Package retrievers defines the retriever capability set shared by every
// document store backend, together with the registry that maps an
// implementation name (e.g. "relational.sqlite") to its constructor.
//
// A Retriever is built in two phases. A Constructor validates parameters and
// returns an unopened instance; Initialize then acquires external resources
// (database handles, network clients). Close releases them. Implementations
// that own nothing can embed Lifecycle to inherit no-op Initialize and Close.
//
// Registries are explicit values populated at startup:
//
//	reg := retrievers.NewRegistry()
//	reg.Register("relational.sqlite", relational.New)
//	ctor, err := reg.Lookup("relational.sqlite")
package retrievers
