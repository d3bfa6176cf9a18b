// Package ragpdfcmder provides the root ragpdf command.
package ragpdfcmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/0xdany/RAG-PDF-URLs/cmd/ragpdf/ask"
	ingestcmder "github.com/0xdany/RAG-PDF-URLs/cmd/ragpdf/ingest"
	searchcmder "github.com/0xdany/RAG-PDF-URLs/cmd/ragpdf/search"
	servecmder "github.com/0xdany/RAG-PDF-URLs/cmd/ragpdf/serve"
	versioncmder "github.com/0xdany/RAG-PDF-URLs/cmd/ragpdf/version"
)

const ragpdfLongDesc string = `ragpdf answers questions over PDF documents fetched from URLs.

Ingest sources, then search or ask:
  ragpdf ingest <url>...   Fetch, chunk, and index PDFs
  ragpdf search <query>    Retrieve the most similar chunks
  ragpdf ask <query>       Retrieve context and synthesize an answer
  ragpdf serve             Run the HTTP API server`

const ragpdfShortDesc string = "ragpdf - question answering over remote PDFs"

func NewRagpdfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ragpdf",
		Short: ragpdfShortDesc,
		Long:  ragpdfLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing config.toml (default: working directory)")

	// Add subcommands
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
