package config

const (
	defaultChunkSize      = 1000
	defaultChunkOverlap   = 200
	defaultChunkSeparator = " "

	defaultProvider = "ollama"
	defaultTarget   = "http://localhost:11434"

	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 768

	defaultGenerationModel = "llama3.2"

	defaultVectorProvider   = "memory"
	defaultVectorCollection = "documents"

	defaultScanLimit = 1000
	defaultTopK      = 5

	defaultAPIListen = ":8081"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			Size:      defaultChunkSize,
			Overlap:   defaultChunkOverlap,
			Separator: defaultChunkSeparator,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultProvider,
			Target:     defaultTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		VectorStore: VectorStoreConfig{
			Provider:   defaultVectorProvider,
			Collection: defaultVectorCollection,
		},
		Generation: GenerationConfig{
			Provider: defaultProvider,
			Target:   defaultTarget,
			Model:    defaultGenerationModel,
		},
		Ingest: IngestConfig{
			AllowDuplicates: false,
			ScanLimit:       defaultScanLimit,
		},
		Retrieval: RetrievalConfig{
			TopK: defaultTopK,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
	}
}
