package servecmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	servecmder "github.com/0xdany/RAG-PDF-URLs/cmd/ragpdf/serve"
)

var _ = Describe("Serve Command", func() {
	Describe("NewServeCmd", func() {
		It("creates a command with expected properties", func() {
			cmd := servecmder.NewServeCmd()
			Expect(cmd.Use).To(Equal("serve"))
			Expect(cmd.Short).NotTo(BeEmpty())
		})

		It("registers --api-listen with the registry default", func() {
			cmd := servecmder.NewServeCmd()
			flag := cmd.Flags().Lookup("api-listen")
			Expect(flag).NotTo(BeNil())
			Expect(flag.DefValue).To(Equal(":8081"))
		})

		It("registers the full pipeline flag set", func() {
			cmd := servecmder.NewServeCmd()

			for _, name := range []string{
				"chunk-size",
				"chunk-overlap",
				"embedding-provider",
				"embedding-model",
				"embedding-dimensions",
				"vector-store-provider",
				"vector-store-target",
				"generation-provider",
				"generation-model",
			} {
				Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), "missing flag %s", name)
			}
		})

		It("does not register --top-k", func() {
			cmd := servecmder.NewServeCmd()
			Expect(cmd.Flags().Lookup("top-k")).To(BeNil())
		})
	})
})
