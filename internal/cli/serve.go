package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knowledge-engine/docmatch/internal/api"
	"github.com/knowledge-engine/docmatch/internal/engine"
	"github.com/knowledge-engine/docmatch/internal/extract"
	"github.com/knowledge-engine/docmatch/internal/storage"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the matching API over HTTP",
	Long: `Loads the corpus once and serves match requests over HTTP.
Reports are kept when a report directory is configured.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default API_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("addr") {
		cfg.API.Addr = serveAddr
	}

	eng, err := engine.New(cfg.Match, log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	registry := extract.NewDefaultRegistry(cfg.Extract)
	c, err := loadCorpus(ctx, registry)
	if err != nil {
		return err
	}

	var store storage.ReportStorage
	if cfg.Storage.ReportDir != "" {
		fs, err := storage.NewFileStorage(cfg.Storage.ReportDir)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer fs.Close()
		store = fs
	}

	return api.NewServer(eng, c, registry, store, log).Start(ctx, cfg.API)
}
