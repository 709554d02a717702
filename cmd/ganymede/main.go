// Ganymede is a retrieval-augmented chat server.
//
// Each client API key is bound to a named retriever adapter. Chat requests
// are answered by an OpenAI-compatible model with context pulled from that
// adapter, which the adapter manager constructs lazily and caches.
//
// Usage:
//
//	# Start the server
//	ganymede run --config config.yaml
//
//	# Validate configuration
//	ganymede validate --config config.yaml
//
//	# Inspect and preload adapters without starting the server
//	ganymede adapters list
//	ganymede adapters preload --timeout 30s
//
//	# Issue an admin token
//	ganymede token --subject ops --ttl 1h
package main

func main() {
	Execute()
}
