// Package askcmder provides the ask command for retrieval-augmented question answering.
package askcmder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/0xdany/RAG-PDF-URLs/cmd/ragpdf/wiring"
	"github.com/0xdany/RAG-PDF-URLs/pkg/answer"
	"github.com/0xdany/RAG-PDF-URLs/pkg/cliui"
	"github.com/0xdany/RAG-PDF-URLs/pkg/config"
	"github.com/0xdany/RAG-PDF-URLs/pkg/dotdir"
	"github.com/0xdany/RAG-PDF-URLs/pkg/logger"
	"github.com/0xdany/RAG-PDF-URLs/pkg/retriever"
)

var (
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type askCommander struct {
	query string

	topK               int
	embeddingProvider  string
	embeddingTarget    string
	embeddingModel     string
	embeddingDims      uint
	vectorProvider     string
	vectorTarget       string
	generationProvider string
	generationTarget   string
	generationModel    string

	debug  bool
	cfg    *config.Config
	logger *slog.Logger
}

const askLongDesc string = `Answer a question using the indexed chunks as context.

The question is embedded and the closest chunks are retrieved from the vector
store. Their contents are handed to the chat model as context, and the model's
answer is printed. When nothing relevant is stored the model answers from an
empty context.

Example:
  ragpdf ask "how does the decoder attend to the encoder output?"
  ragpdf ask "what optimizer was used?" --top-k 8
  ragpdf ask "summarize the results" --generation-provider openai --generation-model gpt-4o-mini`

const askShortDesc string = "Ask a question over the indexed documents"

var askFlags = []string{
	config.FlagTopK,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagVectorProv,
	config.FlagVectorTgt,
	config.FlagGenerationProv,
	config.FlagGenerationTgt,
	config.FlagGenerationMdl,
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <query>",
		Short: askShortDesc,
		Long:  askLongDesc,
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

			config.BindRegisteredFlags(v, cmd, config.DefaultFlags, askFlags)
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
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagGenerationProv, &cmder.generationProvider)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagGenerationTgt, &cmder.generationTarget)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagGenerationMdl, &cmder.generationModel)

	return cmd
}

func (c *askCommander) run() error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))
	ctx := context.Background()

	ix, err := wiring.NewIndex(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer ix.Close()

	gen, err := wiring.NewGenerator(c.cfg)
	if err != nil {
		return err
	}
	defer gen.Close()

	output, err := retriever.Retrieve(ctx, ix, c.query, c.cfg.Retrieval.TopK, c.logger)
	if err != nil {
		return err
	}

	result, err := answer.Synthesize(ctx, gen, output.Context, c.query, c.logger)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s %s\n", questionStyle.Render("Q:"), questionStyle.Render(c.query))
	fmt.Printf("%s\n", dimStyle.Render(fmt.Sprintf("(%d context chunks)", output.Count)))

	// RenderMarkdown falls back to the raw content on error.
	rendered, _ := cliui.RenderMarkdown(result)
	fmt.Println(rendered)

	return nil
}
