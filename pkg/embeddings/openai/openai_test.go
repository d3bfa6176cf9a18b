package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/0xdany/RAG-PDF-URLs/pkg/embeddings/openai"
	"github.com/0xdany/RAG-PDF-URLs/pkg/vector"
)

var _ = Describe("Embedder", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("sends a bearer token and batched input", func() {
		var gotAuth string
		var gotInput []string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/embeddings"))
			gotAuth = r.Header.Get("Authorization")

			var body struct {
				Input []string `json:"input"`
			}
			Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
			gotInput = body.Input

			resp := map[string]any{"data": []map[string]any{
				{"index": 0, "embedding": []float32{1, 0}},
				{"index": 1, "embedding": []float32{0, 1}},
			}}
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		e, err := openai.NewEmbedder(openai.EmbedderConfig{
			BaseURL: server.URL,
			APIKey:  "sk-test",
		})
		Expect(err).NotTo(HaveOccurred())

		vecs, err := e.Embed(ctx, []string{"a", "b"})
		Expect(err).NotTo(HaveOccurred())

		Expect(gotAuth).To(Equal("Bearer sk-test"))
		Expect(gotInput).To(Equal([]string{"a", "b"}))
		Expect(vecs).To(Equal([][]float32{{1, 0}, {0, 1}}))
	})

	It("restores order from response indices", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Out-of-order data entries.
			resp := map[string]any{"data": []map[string]any{
				{"index": 1, "embedding": []float32{0, 1}},
				{"index": 0, "embedding": []float32{1, 0}},
			}}
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		e, err := openai.NewEmbedder(openai.EmbedderConfig{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		vecs, err := e.Embed(ctx, []string{"a", "b"})
		Expect(err).NotTo(HaveOccurred())
		Expect(vecs[0]).To(Equal([]float32{1, 0}))
		Expect(vecs[1]).To(Equal([]float32{0, 1}))
	})

	It("surfaces HTTP errors as vector.ErrEmbedding", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()

		e, err := openai.NewEmbedder(openai.EmbedderConfig{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = e.Embed(ctx, []string{"text"})
		Expect(err).To(MatchError(vector.ErrEmbedding))
	})

	It("rejects responses with a count mismatch", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resp := map[string]any{"data": []map[string]any{
				{"index": 0, "embedding": []float32{1}},
			}}
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		e, err := openai.NewEmbedder(openai.EmbedderConfig{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = e.Embed(ctx, []string{"one", "two"})
		Expect(err).To(MatchError(vector.ErrEmbedding))
	})
})
