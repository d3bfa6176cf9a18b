package cliui_test

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/0xdany/RAG-PDF-URLs/pkg/cliui"
)

var _ = Describe("Step", func() {
	It("runs the function and prints a success mark", func() {
		out := &bytes.Buffer{}
		ran := false

		err := cliui.Step(out, "indexing chunks", func() error {
			ran = true
			return nil
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(ran).To(BeTrue())
		Expect(out.String()).To(ContainSubstring("indexing chunks"))
		Expect(out.String()).To(ContainSubstring("✓"))
	})

	It("returns the function's error and prints a failure mark", func() {
		out := &bytes.Buffer{}
		boom := errors.New("boom")

		err := cliui.Step(out, "fetching sources", func() error {
			return boom
		})

		Expect(err).To(MatchError(boom))
		Expect(out.String()).To(ContainSubstring("✗"))
	})
})

var _ = Describe("Mark", func() {
	It("renders a check for nil errors", func() {
		Expect(cliui.Mark(nil)).To(ContainSubstring("✓"))
	})

	It("renders a cross for non-nil errors", func() {
		Expect(cliui.Mark(errors.New("nope"))).To(ContainSubstring("✗"))
	})
})

var _ = Describe("FormatDuration", func() {
	It("formats sub-second durations as milliseconds", func() {
		Expect(cliui.FormatDuration(12 * time.Millisecond)).To(Equal("12ms"))
	})

	It("formats longer durations as seconds", func() {
		Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
	})
})
