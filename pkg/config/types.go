package config

// Config holds the full pipeline configuration. The TOML layout uses
// sections for logical grouping; the same dotted keys work as
// RAGPDF_-prefixed environment variables and CLI flags.
type Config struct {
	Chunking    ChunkingConfig    `toml:"chunking"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Generation  GenerationConfig  `toml:"generation"`
	Ingest      IngestConfig      `toml:"ingest"`
	Retrieval   RetrievalConfig   `toml:"retrieval"`
	API         APIConfig         `toml:"api"`
}

// ChunkingConfig holds document splitting settings.
type ChunkingConfig struct {
	Size      int    `toml:"size,omitempty"`
	Overlap   int    `toml:"overlap,omitempty"`
	Separator string `toml:"separator,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
	APIKey     string `toml:"api_key,omitempty"`
}

// VectorStoreConfig holds vector store settings. Target is the store
// location: a file path for sqlite, a URL for chroma or qdrant.
type VectorStoreConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Collection string `toml:"collection,omitempty"`
}

// GenerationConfig holds answer synthesis provider settings.
type GenerationConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	Model    string `toml:"model,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
}

// IngestConfig holds ingestion behavior settings.
type IngestConfig struct {
	AllowDuplicates bool `toml:"allow_duplicates,omitempty"`
	ScanLimit       int  `toml:"scan_limit,omitempty"`
}

// RetrievalConfig holds similarity search settings.
type RetrievalConfig struct {
	TopK int `toml:"top_k,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}
