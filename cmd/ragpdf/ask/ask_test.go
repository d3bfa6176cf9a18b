package askcmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	askcmder "github.com/0xdany/RAG-PDF-URLs/cmd/ragpdf/ask"
)

var _ = Describe("Ask Command", func() {
	Describe("NewAskCmd", func() {
		It("creates a command with expected properties", func() {
			cmd := askcmder.NewAskCmd()
			Expect(cmd.Use).To(Equal("ask <query>"))
			Expect(cmd.Short).NotTo(BeEmpty())
		})

		It("requires exactly one query argument", func() {
			cmd := askcmder.NewAskCmd()

			Expect(cmd.Args(cmd, []string{})).To(HaveOccurred())
			Expect(cmd.Args(cmd, []string{"a", "b"})).To(HaveOccurred())
			Expect(cmd.Args(cmd, []string{"what is the decoder?"})).NotTo(HaveOccurred())
		})

		It("registers retrieval, embedding, and generation flags", func() {
			cmd := askcmder.NewAskCmd()

			for _, name := range []string{
				"top-k",
				"embedding-provider",
				"embedding-model",
				"vector-store-provider",
				"generation-provider",
				"generation-target",
				"generation-model",
			} {
				Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), "missing flag %s", name)
			}
		})

		It("defaults the generation model from the registry", func() {
			cmd := askcmder.NewAskCmd()
			flag := cmd.Flags().Lookup("generation-model")
			Expect(flag.DefValue).To(Equal("llama3.2"))
		})
	})
})
