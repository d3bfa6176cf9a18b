// Package loader fetches source PDFs over HTTP and extracts their text
// into documents, one per page.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/0xdany/RAG-PDF-URLs/pkg/document"
)

// ErrLoad is wrapped around fetch and parse failures for a single URL.
var ErrLoad = errors.New("loader: loading document failed")

// PDFLoader downloads PDFs and extracts one document per page.
type PDFLoader struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewPDFLoader creates a loader. A nil logger is not allowed; pass
// logger.Nop() to silence it.
func NewPDFLoader(log *slog.Logger) *PDFLoader {
	return &PDFLoader{
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: log,
	}
}

// Load fetches every URL and returns the extracted documents. A URL
// that fails to download or parse is logged and skipped; the rest of
// the batch still loads. The error is non-nil only when every URL
// failed.
func (l *PDFLoader) Load(ctx context.Context, urls []string) ([]document.Document, error) {
	var docs []document.Document
	var failed int

	for _, url := range urls {
		pages, err := l.loadOne(ctx, url)
		if err != nil {
			failed++
			l.logger.Warn("skipping source", "url", url, "error", err)
			continue
		}
		l.logger.Info("loaded source", "url", url, "pages", len(pages))
		docs = append(docs, pages...)
	}

	if failed > 0 && failed == len(urls) {
		return nil, fmt.Errorf("%w: all %d sources failed", ErrLoad, failed)
	}
	return docs, nil
}

// loadOne downloads a single PDF to a temp file and extracts its pages.
func (l *PDFLoader) loadOne(ctx context.Context, url string) ([]document.Document, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrLoad, err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching: %v", ErrLoad, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetching returned status %d", ErrLoad, resp.StatusCode)
	}

	// The pdf reader needs random access, so spool to a temp file.
	tmp, err := os.CreateTemp("", "ragpdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: creating temp file: %v", ErrLoad, err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return nil, fmt.Errorf("%w: saving temp file: %v", ErrLoad, err)
	}

	docs, err := extractPages(tmp.Name(), url)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// extractPages reads the PDF at path and returns one document per
// non-empty page, tagged with the source URL and page number.
func extractPages(path, source string) ([]document.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening pdf: %v", ErrLoad, err)
	}
	defer f.Close()

	total := reader.NumPage()
	docs := make([]document.Document, 0, total)

	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: extracting page %d: %v", ErrLoad, i, err)
		}
		if text == "" {
			continue
		}

		docs = append(docs, document.Document{
			Content: text,
			Metadata: map[string]any{
				"source":      source,
				"page":        i,
				"total_pages": total,
			},
		})
	}

	return docs, nil
}
