// Package cli wires the matcher components into the docmatch command tree.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/knowledge-engine/docmatch/internal/config"
	"github.com/knowledge-engine/docmatch/internal/corpus"
	"github.com/knowledge-engine/docmatch/internal/extract"
	"github.com/knowledge-engine/docmatch/internal/logger"
)

// Set at build time with -ldflags "-X .../internal/cli.version=..."
var version = "dev"

var (
	configPath string
	logLevel   string

	cfg *config.Config
	log *logrus.Entry
)

var rootCmd = &cobra.Command{
	Use:   "docmatch",
	Short: "Find the most similar known document",
	Long: `docmatch compares an invoice against a directory of known invoices.
Documents are scored on text content (TF-IDF cosine similarity) and on
layout (the line positions of the invoice number, date and amount labels).`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// Execute runs the root command until it finishes or the process is interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg = config.Load()
		err = cfg.Validate()
	}
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err = logger.NewWithOutput(cfg.Log, cmd.ErrOrStderr())
	return err
}

// loadCorpus reads every known document under the configured directory
func loadCorpus(ctx context.Context, registry *extract.Registry) (*corpus.Corpus, error) {
	loader := corpus.NewLoader(
		corpus.NewDirectoryEnumerator(cfg.Corpus.Extensions...),
		registry,
		log,
		cfg.Corpus.SkipUnreadable,
	)
	return loader.Load(ctx, cfg.Corpus.Dir)
}
