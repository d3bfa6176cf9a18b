package config_test

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/0xdany/RAG-PDF-URLs/pkg/config"
)

var _ = Describe("InitViper", func() {
	It("applies defaults when no config file exists", func() {
		v, err := config.InitViper(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		cfg := config.FromViper(v)
		Expect(cfg.Chunking.Size).To(Equal(1000))
		Expect(cfg.Chunking.Overlap).To(Equal(200))
		Expect(cfg.Chunking.Separator).To(Equal(" "))
		Expect(cfg.Embedding.Provider).To(Equal("ollama"))
		Expect(cfg.VectorStore.Provider).To(Equal("memory"))
		Expect(cfg.Ingest.AllowDuplicates).To(BeFalse())
		Expect(cfg.Ingest.ScanLimit).To(Equal(1000))
		Expect(cfg.Retrieval.TopK).To(Equal(5))
		Expect(cfg.API.Listen).To(Equal(":8081"))
	})

	It("reads values from config.toml", func() {
		dir := GinkgoT().TempDir()
		toml := `
[chunking]
size = 512
overlap = 64

[embedding]
model = "all-minilm"

[vector_store]
provider = "sqlite"
target = "vectors.db"
`
		Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o600)).To(Succeed())

		v, err := config.InitViper(dir)
		Expect(err).NotTo(HaveOccurred())

		cfg := config.FromViper(v)
		Expect(cfg.Chunking.Size).To(Equal(512))
		Expect(cfg.Chunking.Overlap).To(Equal(64))
		Expect(cfg.Embedding.Model).To(Equal("all-minilm"))
		Expect(cfg.VectorStore.Provider).To(Equal("sqlite"))
		Expect(cfg.VectorStore.Target).To(Equal("vectors.db"))

		// Untouched sections keep their defaults.
		Expect(cfg.Generation.Model).To(Equal("llama3.2"))
	})

	It("lets environment variables override the config file", func() {
		dir := GinkgoT().TempDir()
		toml := `
[embedding]
model = "from-file"
`
		Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o600)).To(Succeed())

		GinkgoT().Setenv("RAGPDF_EMBEDDING_MODEL", "from-env")

		v, err := config.InitViper(dir)
		Expect(err).NotTo(HaveOccurred())

		cfg := config.FromViper(v)
		Expect(cfg.Embedding.Model).To(Equal("from-env"))
	})

	It("rejects a malformed config file", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid toml"), 0o600)).To(Succeed())

		_, err := config.InitViper(dir)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("BindRegisteredFlags", func() {
	var fs config.FlagSet

	BeforeEach(func() {
		fs = config.FlagSet{
			config.FlagTopK: {
				Name:        "top-k",
				Shorthand:   "k",
				ViperKey:    "retrieval.top_k",
				Description: "number of chunks to retrieve",
			},
		}
	})

	It("gives a set flag precedence over environment and defaults", func() {
		GinkgoT().Setenv("RAGPDF_RETRIEVAL_TOP_K", "9")

		var topK int
		cmd := &cobra.Command{Use: "search"}
		config.AddIntFlag(cmd, fs, config.FlagTopK, &topK)
		Expect(cmd.Flags().Set("top-k", "3")).To(Succeed())

		v, err := config.InitViper(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		config.BindRegisteredFlags(v, cmd, fs, []string{config.FlagTopK})
		Expect(config.FromViper(v).Retrieval.TopK).To(Equal(3))
	})

	It("falls back to the environment when the flag is unset", func() {
		GinkgoT().Setenv("RAGPDF_RETRIEVAL_TOP_K", "9")

		var topK int
		cmd := &cobra.Command{Use: "search"}
		config.AddIntFlag(cmd, fs, config.FlagTopK, &topK)

		v, err := config.InitViper(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		config.BindRegisteredFlags(v, cmd, fs, []string{config.FlagTopK})
		Expect(config.FromViper(v).Retrieval.TopK).To(Equal(9))
	})

	It("uses the registry default when nothing overrides it", func() {
		var topK int
		cmd := &cobra.Command{Use: "search"}
		config.AddIntFlag(cmd, fs, config.FlagTopK, &topK)

		f := cmd.Flags().Lookup("top-k")
		Expect(f).NotTo(BeNil())
		Expect(f.DefValue).To(Equal("5"))
		Expect(f.Shorthand).To(Equal("k"))
	})

	It("ignores registry keys without a registered flag", func() {
		cmd := &cobra.Command{Use: "search"}
		v, err := config.InitViper(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		Expect(func() {
			config.BindRegisteredFlags(v, cmd, fs, []string{config.FlagTopK, "unknown"})
		}).NotTo(Panic())
	})
})
