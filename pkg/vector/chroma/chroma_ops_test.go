package chroma_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/0xdany/RAG-PDF-URLs/pkg/logger"
	"github.com/0xdany/RAG-PDF-URLs/pkg/vector"
	"github.com/0xdany/RAG-PDF-URLs/pkg/vector/chroma"
)

// newFakeChroma starts a server that answers the collection handshake
// and dispatches collection operations to handler.
func newFakeChroma(handler http.HandlerFunc) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "GET" && strings.HasSuffix(r.URL.Path, "/collections/documents") {
			json.NewEncoder(w).Encode(map[string]string{"id": "col-1", "name": "documents"})
			return
		}
		handler(w, r)
	}))
}

var _ = Describe("Driver operations", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("sends contents and metadata alongside embeddings on Add", func() {
		var got struct {
			IDs       []string         `json:"ids"`
			Documents []string         `json:"documents"`
			Metadatas []map[string]any `json:"metadatas"`
		}

		server := newFakeChroma(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(HaveSuffix("/collections/col-1/add"))
			Expect(json.NewDecoder(r.Body).Decode(&got)).To(Succeed())
			w.WriteHeader(http.StatusCreated)
		})
		defer server.Close()

		d, err := chroma.NewDriver(chroma.Config{URL: server.URL}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		err = d.Add(ctx, []vector.Record{
			{
				ID:        "rec-1",
				Content:   "chunk text",
				Metadata:  map[string]any{"source": "a.pdf"},
				Embedding: []float32{1, 0},
			},
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(got.IDs).To(Equal([]string{"rec-1"}))
		Expect(got.Documents).To(Equal([]string{"chunk text"}))
		Expect(got.Metadatas[0]).To(HaveKeyWithValue("source", "a.pdf"))
	})

	It("converts query distances to descending similarity scores", func() {
		server := newFakeChroma(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(HaveSuffix("/collections/col-1/query"))
			json.NewEncoder(w).Encode(map[string]any{
				"ids":       [][]string{{"near", "far"}},
				"distances": [][]float32{{0, 1}},
				"documents": [][]string{{"close text", "far text"}},
				"metadatas": [][]map[string]any{{nil, nil}},
			})
		})
		defer server.Close()

		d, err := chroma.NewDriver(chroma.Config{URL: server.URL}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		results, err := d.Query(ctx, []float32{1, 0}, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))

		Expect(results[0].ID).To(Equal("near"))
		Expect(results[0].Content).To(Equal("close text"))
		Expect(results[0].Score).To(BeNumerically("~", 1.0, 0.001))
		Expect(results[1].Score).To(BeNumerically("~", 0.5, 0.001))
	})

	It("passes the scroll limit through to the get endpoint", func() {
		var gotLimit int
		server := newFakeChroma(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(HaveSuffix("/collections/col-1/get"))
			var body struct {
				Limit int `json:"limit"`
			}
			Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
			gotLimit = body.Limit

			json.NewEncoder(w).Encode(map[string]any{
				"ids":       []string{"rec-1"},
				"documents": []string{"text"},
				"metadatas": []map[string]any{{"source": "a.pdf"}},
			})
		})
		defer server.Close()

		d, err := chroma.NewDriver(chroma.Config{URL: server.URL}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		recs, err := d.Scroll(ctx, 42)
		Expect(err).NotTo(HaveOccurred())
		Expect(gotLimit).To(Equal(42))
		Expect(recs).To(HaveLen(1))
		Expect(recs[0].Content).To(Equal("text"))
	})

	It("reads the count from the count endpoint", func() {
		server := newFakeChroma(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(HaveSuffix("/collections/col-1/count"))
			w.Write([]byte("7"))
		})
		defer server.Close()

		d, err := chroma.NewDriver(chroma.Config{URL: server.URL}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		n, err := d.Count(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(7))
	})
})
