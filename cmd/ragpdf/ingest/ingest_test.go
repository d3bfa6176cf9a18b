package ingestcmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	ingestcmder "github.com/0xdany/RAG-PDF-URLs/cmd/ragpdf/ingest"
)

var _ = Describe("Ingest Command", func() {
	Describe("NewIngestCmd", func() {
		It("creates a command with expected properties", func() {
			cmd := ingestcmder.NewIngestCmd()
			Expect(cmd.Use).To(Equal("ingest <url>..."))
			Expect(cmd.Short).NotTo(BeEmpty())
		})

		It("requires at least one URL argument", func() {
			cmd := ingestcmder.NewIngestCmd()
			err := cmd.Args(cmd, []string{})
			Expect(err).To(HaveOccurred())

			err = cmd.Args(cmd, []string{"https://example.com/a.pdf"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("registers chunking flags with registry defaults", func() {
			cmd := ingestcmder.NewIngestCmd()

			size := cmd.Flags().Lookup("chunk-size")
			Expect(size).NotTo(BeNil())
			Expect(size.DefValue).To(Equal("1000"))

			overlap := cmd.Flags().Lookup("chunk-overlap")
			Expect(overlap).NotTo(BeNil())
			Expect(overlap.DefValue).To(Equal("200"))
		})

		It("registers embedding and vector store flags", func() {
			cmd := ingestcmder.NewIngestCmd()

			for _, name := range []string{
				"embedding-provider",
				"embedding-target",
				"embedding-model",
				"embedding-dimensions",
				"vector-store-provider",
				"vector-store-target",
			} {
				Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), "missing flag %s", name)
			}

			model := cmd.Flags().Lookup("embedding-model")
			Expect(model.Shorthand).To(Equal("m"))
			Expect(model.DefValue).To(Equal("nomic-embed-text"))
		})

		It("registers --allow-duplicates defaulting to false", func() {
			cmd := ingestcmder.NewIngestCmd()
			flag := cmd.Flags().Lookup("allow-duplicates")
			Expect(flag).NotTo(BeNil())
			Expect(flag.DefValue).To(Equal("false"))
		})

		It("does not register retrieval or serve flags", func() {
			cmd := ingestcmder.NewIngestCmd()
			Expect(cmd.Flags().Lookup("top-k")).To(BeNil())
			Expect(cmd.Flags().Lookup("api-listen")).To(BeNil())
		})
	})
})
