package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/knowledge-engine/docmatch/internal/engine"
	"github.com/knowledge-engine/docmatch/internal/extract"
	"github.com/knowledge-engine/docmatch/internal/features"
	"github.com/knowledge-engine/docmatch/internal/report"
	"github.com/knowledge-engine/docmatch/internal/storage"
)

const defaultReportDir = "reports"

var (
	matchCorpus  string
	matchJSON    bool
	matchSave    bool
	matchWorkers int
	matchScope   string
)

var matchCmd = &cobra.Command{
	Use:   "match [input]",
	Short: "Match a document against the corpus",
	Long: `Extracts the input document and every document in the corpus directory,
then reports the corpus document with the highest combined content and
structural similarity. The input defaults to INPUT_PATH.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&matchCorpus, "corpus", "c", "", "directory of known documents (default CORPUS_DIR)")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "output the report as JSON")
	matchCmd.Flags().BoolVar(&matchSave, "save", false, "persist the report to the report directory")
	matchCmd.Flags().IntVar(&matchWorkers, "workers", 1, "number of scoring workers")
	matchCmd.Flags().StringVar(&matchScope, "scope", "pair", "IDF scope (pair, corpus)")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	input := cfg.InputPath
	if len(args) == 1 {
		input = args[0]
	}
	if cmd.Flags().Changed("corpus") {
		cfg.Corpus.Dir = matchCorpus
	}
	if cmd.Flags().Changed("workers") {
		cfg.Match.Workers = matchWorkers
	}
	if cmd.Flags().Changed("scope") {
		cfg.Match.IDFScope = matchScope
	}

	eng, err := engine.New(cfg.Match, log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	registry := extract.NewDefaultRegistry(cfg.Extract)

	text, err := registry.Extract(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to extract input: %w", err)
	}
	query := features.NewBundle(filepath.Base(input), text)

	c, err := loadCorpus(ctx, registry)
	if err != nil {
		return err
	}

	rep := report.Build(eng.Match(query, c))

	if matchSave {
		if err := saveReport(rep); err != nil {
			return err
		}
	}

	if matchJSON {
		return report.WriteJSON(cmd.OutOrStdout(), rep)
	}
	return report.WriteText(cmd.OutOrStdout(), rep)
}

func saveReport(rep *report.Report) error {
	dir := cfg.Storage.ReportDir
	if dir == "" {
		dir = defaultReportDir
	}
	store, err := storage.NewFileStorage(dir)
	if err != nil {
		return fmt.Errorf("failed to open report storage: %w", err)
	}
	defer store.Close()

	if err := store.Save(rep); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	log.WithField("report", rep.ID).Infof("Report saved to %s", dir)
	return nil
}

// inspectOutput is the feature bundle plus a keyword count
type inspectOutput struct {
	*features.Bundle
	KeywordCount int `json:"keyword_count"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Print the extracted features of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	registry := extract.NewDefaultRegistry(cfg.Extract)
	text, err := registry.Extract(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to extract input: %w", err)
	}

	b := features.NewBundle(filepath.Base(args[0]), text)
	data, err := json.MarshalIndent(inspectOutput{Bundle: b, KeywordCount: b.Keywords.Len()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
