package searchcmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	searchcmder "github.com/0xdany/RAG-PDF-URLs/cmd/ragpdf/search"
)

var _ = Describe("Search Command", func() {
	Describe("NewSearchCmd", func() {
		It("creates a command with expected properties", func() {
			cmd := searchcmder.NewSearchCmd()
			Expect(cmd.Use).To(Equal("search <query>"))
			Expect(cmd.Short).NotTo(BeEmpty())
		})

		It("requires exactly one query argument", func() {
			cmd := searchcmder.NewSearchCmd()

			Expect(cmd.Args(cmd, []string{})).To(HaveOccurred())
			Expect(cmd.Args(cmd, []string{"a", "b"})).To(HaveOccurred())
			Expect(cmd.Args(cmd, []string{"attention heads"})).NotTo(HaveOccurred())
		})

		It("registers --top-k with -k shorthand and registry default", func() {
			cmd := searchcmder.NewSearchCmd()
			flag := cmd.Flags().Lookup("top-k")
			Expect(flag).NotTo(BeNil())
			Expect(flag.Shorthand).To(Equal("k"))
			Expect(flag.DefValue).To(Equal("5"))
		})

		It("registers embedding and vector store flags", func() {
			cmd := searchcmder.NewSearchCmd()

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
		})

		It("does not register generation flags", func() {
			cmd := searchcmder.NewSearchCmd()
			Expect(cmd.Flags().Lookup("generation-provider")).To(BeNil())
			Expect(cmd.Flags().Lookup("generation-model")).To(BeNil())
		})
	})
})
