// Package searchcmder provides the search command for similarity search over indexed chunks.
package searchcmder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/0xdany/RAG-PDF-URLs/cmd/ragpdf/wiring"
	"github.com/0xdany/RAG-PDF-URLs/pkg/config"
	"github.com/0xdany/RAG-PDF-URLs/pkg/dotdir"
	"github.com/0xdany/RAG-PDF-URLs/pkg/logger"
	"github.com/0xdany/RAG-PDF-URLs/pkg/retriever"
	"github.com/0xdany/RAG-PDF-URLs/pkg/utils"
	"github.com/0xdany/RAG-PDF-URLs/pkg/vector"
)

var (
	rankStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type searchCommander struct {
	query string

	topK              int
	embeddingProvider string
	embeddingTarget   string
	embeddingModel    string
	embeddingDims     uint
	vectorProvider    string
	vectorTarget      string

	debug  bool
	cfg    *config.Config
	logger *slog.Logger
}

const searchLongDesc string = `Search the indexed chunks for the most similar matches.

The query is embedded with the configured embedding model and compared against
every stored chunk. Results are printed best match first with their similarity
scores and source locations.

Example:
  ragpdf search "what is multi-head attention"
  ragpdf search "positional encoding" --top-k 10
  ragpdf search "residual connections" --vector-store-provider sqlite --vector-store-target ./ragpdf.db`

const searchShortDesc string = "Search indexed chunks by similarity"

var searchFlags = []string{
	config.FlagTopK,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagVectorProv,
	config.FlagVectorTgt,
}

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			dir, err := dotdir.NewManager().Target(configDir)
			if err != nil {
				return fmt.Errorf("resolving config directory: %w", err)
			}

			v, err := config.InitViper(dir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.DefaultFlags, searchFlags)
			cmder.cfg = config.FromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddIntFlag(cmd, config.DefaultFlags, config.FlagTopK, &cmder.topK)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagEmbeddingProv, &cmder.embeddingProvider)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagEmbeddingTgt, &cmder.embeddingTarget)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddUintFlag(cmd, config.DefaultFlags, config.FlagEmbeddingDims, &cmder.embeddingDims)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagVectorProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagVectorTgt, &cmder.vectorTarget)

	return cmd
}

func (c *searchCommander) run() error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))
	ctx := context.Background()

	ix, err := wiring.NewIndex(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer ix.Close()

	output, err := retriever.Retrieve(ctx, ix, c.query, c.cfg.Retrieval.TopK, c.logger)
	if err != nil {
		return err
	}

	if output.Count == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("\n%s %s\n\n",
		headerStyle.Render("Search results for:"),
		sourceStyle.Render(fmt.Sprintf("%q", output.Query)),
	)

	for i, result := range output.Results {
		printResult(i+1, result)
	}

	return nil
}

func printResult(rank int, result vector.QueryResult) {
	fmt.Printf("  %s  %s  %s\n",
		rankStyle.Render(fmt.Sprintf("#%d", rank)),
		scoreStyle.Render(fmt.Sprintf("score: %.4f", result.Score)),
		sourceStyle.Render(formatSource(result.Metadata)),
	)

	preview := utils.Truncate(strings.ReplaceAll(result.Content, "\n", " "), 160)
	fmt.Printf("  %s\n", previewStyle.Render(preview))
	fmt.Printf("  %s\n\n", dimStyle.Render(result.ID))
}

// formatSource renders the chunk's provenance metadata, e.g. "a.pdf (page 3/12)".
func formatSource(metadata map[string]any) string {
	source, _ := metadata["source"].(string)
	if source == "" {
		return "(unknown source)"
	}

	page := metadata["page"]
	total := metadata["total_pages"]
	if page != nil && total != nil {
		return fmt.Sprintf("%s (page %v/%v)", source, page, total)
	}
	return source
}
