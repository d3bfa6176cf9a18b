package index_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/0xdany/RAG-PDF-URLs/pkg/document"
	"github.com/0xdany/RAG-PDF-URLs/pkg/index"
	"github.com/0xdany/RAG-PDF-URLs/pkg/logger"
	"github.com/0xdany/RAG-PDF-URLs/pkg/vector"
	"github.com/0xdany/RAG-PDF-URLs/pkg/vector/memvec"
)

// fakeEmbedder derives a deterministic 4-dim vector from each text so
// identical texts embed identically. Calls and texts are recorded.
type fakeEmbedder struct {
	calls int
	texts []string
	err   error
	dims  int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	f.texts = append(f.texts, texts...)
	if f.err != nil {
		return nil, f.err
	}

	dims := f.dims
	if dims == 0 {
		dims = 4
	}

	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec := make([]float32, dims)
		for j, r := range t {
			vec[j%dims] += float32(r)
		}
		vec[0]++ // never the zero vector, even for empty text
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) Close() error { return nil }

var _ = Describe("Index", func() {
	var (
		ctx      context.Context
		embedder *fakeEmbedder
		driver   *memvec.Driver
		ix       *index.Index
	)

	chunk := func(content string, meta map[string]any) document.Document {
		return document.Document{Content: content, Metadata: meta}
	}

	BeforeEach(func() {
		ctx = context.Background()
		embedder = &fakeEmbedder{}
		driver = memvec.NewDriver(memvec.Config{}, logger.Nop())
		ix = index.New(embedder, driver, index.Config{}, logger.Nop())
	})

	Describe("Insert", func() {
		It("embeds the whole batch in one gateway call", func() {
			chunks := []document.Document{
				chunk("one", nil), chunk("two", nil), chunk("three", nil),
			}

			n, err := ix.Insert(ctx, chunks, index.InsertOptions{AllowDuplicates: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(3))
			Expect(embedder.calls).To(Equal(1))
		})

		It("stores exactly one record when the same pair is inserted twice without duplicates", func() {
			c := chunk("repeated content", map[string]any{"source": "a.pdf"})

			n, err := ix.Insert(ctx, []document.Document{c}, index.InsertOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))

			n, err = ix.Insert(ctx, []document.Document{c}, index.InsertOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(0))

			count, err := ix.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})

		It("stores two records with distinct IDs when duplicates are allowed", func() {
			c := chunk("repeated content", map[string]any{"source": "a.pdf"})

			for i := 0; i < 2; i++ {
				n, err := ix.Insert(ctx, []document.Document{c}, index.InsertOptions{AllowDuplicates: true})
				Expect(err).NotTo(HaveOccurred())
				Expect(n).To(Equal(1))
			}

			recs, err := driver.Scroll(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(HaveLen(2))
			Expect(recs[0].ID).NotTo(Equal(recs[1].ID))
		})

		It("treats pairs with differing metadata as distinct", func() {
			a := chunk("same text", map[string]any{"page": 1})
			b := chunk("same text", map[string]any{"page": 2})

			n, err := ix.Insert(ctx, []document.Document{a, b}, index.InsertOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(2))
		})

		It("collapses duplicate pairs within a single batch", func() {
			c := chunk("dupe", nil)

			n, err := ix.Insert(ctx, []document.Document{c, c, c}, index.InsertOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
		})

		It("misses duplicates beyond the scan limit, by design", func() {
			first := chunk("first", nil)
			second := chunk("second", nil)
			Expect(ix.Insert(ctx, []document.Document{first, second},
				index.InsertOptions{AllowDuplicates: true})).To(Equal(2))

			// A scan limit of 1 only samples the earliest record, so a
			// duplicate of the second record slips through.
			n, err := ix.Insert(ctx, []document.Document{second},
				index.InsertOptions{DuplicateScanLimit: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
		})

		It("propagates embedding failures without inserting anything", func() {
			embedder.err = fmt.Errorf("%w: connection refused", vector.ErrEmbedding)

			_, err := ix.Insert(ctx, []document.Document{chunk("text", nil)},
				index.InsertOptions{AllowDuplicates: true})
			Expect(err).To(MatchError(vector.ErrEmbedding))

			count, err := ix.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("rejects vectors that disagree with the configured dimension", func() {
			embedder.dims = 3
			configured := index.New(embedder, driver, index.Config{Dimensions: 8}, logger.Nop())

			_, err := configured.Insert(ctx, []document.Document{chunk("text", nil)},
				index.InsertOptions{AllowDuplicates: true})
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})

		It("inserts nothing for an empty batch", func() {
			n, err := ix.Insert(ctx, nil, index.InsertOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
		})
	})

	Describe("Search", func() {
		BeforeEach(func() {
			_, err := ix.Insert(ctx, []document.Document{
				chunk("alpha alpha alpha", map[string]any{"page": 1}),
				chunk("bravo bravo", map[string]any{"page": 2}),
				chunk("charlie", map[string]any{"page": 3}),
			}, index.InsertOptions{AllowDuplicates: true})
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns at most k results, best first", func() {
			results, err := ix.Search(ctx, "alpha alpha alpha", 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(results)).To(BeNumerically("<=", 2))
			Expect(results[0].Content).To(Equal("alpha alpha alpha"))
		})

		It("orders scores non-increasingly", func() {
			results, err := ix.Search(ctx, "bravo bravo", 3)
			Expect(err).NotTo(HaveOccurred())
			for i := 1; i < len(results); i++ {
				Expect(results[i].Score).To(BeNumerically("<=", results[i-1].Score))
			}
		})

		It("permits an empty query", func() {
			results, err := ix.Search(ctx, "", 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).NotTo(BeEmpty())
		})

		It("rejects a non-positive k", func() {
			_, err := ix.Search(ctx, "query", 0)
			Expect(err).To(HaveOccurred())
		})

		It("propagates embedding failures", func() {
			embedder.err = errors.Join(vector.ErrEmbedding, errors.New("down"))
			_, err := ix.Search(ctx, "query", 1)
			Expect(err).To(MatchError(vector.ErrEmbedding))
		})
	})
})
