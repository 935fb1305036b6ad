// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/clinical-briefing/internal/briefing"
	"github.com/pdiddy/clinical-briefing/internal/pipeline"
	"github.com/pdiddy/clinical-briefing/internal/pubmed"
	"github.com/pdiddy/clinical-briefing/pkg/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a saved record file without querying PubMed",
	Long: `Rank runs the filter, scoring, annotation and ranking stages over a YAML
record file (as written by run --record) and prints the ranked papers per
category. No network access and no page rendering.`,
	RunE: runRank,
}

func runRank(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		return fmt.Errorf("--input is required")
	}

	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		cfg.Classifier.Strict = true
	}
	if n, _ := cmd.Flags().GetInt("top-n"); cmd.Flags().Changed("top-n") {
		cfg.Briefing.TopN = n
	}

	fetcher, err := pubmed.LoadFileFetcher(input)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return rankRecords(context.Background(), os.Stdout, cfg, fetcher, jsonOutput)
}

// rankRecords runs the pipeline over fetcher and writes the ranking to w.
func rankRecords(ctx context.Context, w io.Writer, cfg types.PipelineConfig, fetcher pipeline.Fetcher, jsonOutput bool) error {
	processor, err := pipeline.ProcessorFromConfig(cfg)
	if err != nil {
		return err
	}
	res := pipeline.New(cfg, processor, fetcher, pipeline.WithLogger(slog.Default())).Run(ctx)

	if jsonOutput {
		page, err := briefing.NewPage(res, cfg.Briefing)
		if err != nil {
			return err
		}
		return briefing.FormatJSON(w, page)
	}

	briefing.FormatTable(w, res.Categories())
	fmt.Fprintf(w, "\n%d papers ranked\n", res.Total())
	return nil
}

func init() {
	rankCmd.Flags().String("input", "", "YAML record file (categories: {name: [records]})")
	rankCmd.Flags().Bool("json", false, "output the ranked briefing as JSON")
	rankCmd.Flags().Bool("strict", false, "also exclude retrospective and single-center studies")
	rankCmd.Flags().Int("top-n", 0, "size of the highlight list in JSON output")

	rootCmd.AddCommand(rankCmd)
}
