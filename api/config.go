// Package api provides the HTTP server for ingesting sources and
// answering questions over the indexed corpus.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string
}
