// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/clinical-briefing/internal/briefing"
	"github.com/pdiddy/clinical-briefing/internal/metrics"
	"github.com/pdiddy/clinical-briefing/internal/pipeline"
	"github.com/pdiddy/clinical-briefing/internal/pubmed"
	"github.com/pdiddy/clinical-briefing/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, rank and render today's briefing",
	Long: `Run queries PubMed for every configured category, filters and ranks the
results, and writes index.html and briefing.md to the output directory.

A category whose retrieval fails is rendered empty; the run still succeeds.
Use --input to replay a record file instead of querying PubMed, and --record
to save the fetched records for later replay.`,
	RunE: runBriefing,
}

func runBriefing(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	processor, err := pipeline.ProcessorFromConfig(cfg)
	if err != nil {
		return err
	}

	fetcher, err := newFetcher(cmd, cfg)
	if err != nil {
		return err
	}
	var capture *pubmed.Capture
	if path, _ := cmd.Flags().GetString("record"); path != "" {
		capture = pubmed.NewCapture(fetcher)
		fetcher = capture
	}

	runMetrics := metrics.NewRunMetrics()
	pl := pipeline.New(cfg, processor, fetcher,
		pipeline.WithLogger(slog.Default()),
		pipeline.WithRecorder(runMetrics),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res := pl.Run(ctx)

	page, err := briefing.NewPage(res, cfg.Briefing)
	if err != nil {
		return err
	}

	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	renderErr := briefing.Write(cfg.Briefing.OutputDir, page)
	if metricsFile != "" {
		completed := time.Time{}
		if renderErr == nil {
			completed = time.Now()
		}
		runMetrics.ObserveRun(res.Duration, len(page.Highlights), completed)
		if err := runMetrics.WriteFile(metricsFile); err != nil {
			slog.Warn("metrics not written", "path", metricsFile, "error", err)
		}
	}
	if renderErr != nil {
		return renderErr
	}

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		if err := briefing.Export(path, page); err != nil {
			return err
		}
	}
	if capture != nil {
		path, _ := cmd.Flags().GetString("record")
		if err := capture.Save(path, res.GeneratedAt); err != nil {
			return err
		}
	}

	if failed := res.FailedCategories(); len(failed) > 0 {
		slog.Warn("categories rendered empty after retrieval failure", "categories", failed)
	}
	slog.Info("briefing written",
		"dir", cfg.Briefing.OutputDir,
		"papers", res.Total(),
		"highlights", len(page.Highlights),
		"duration", res.Duration.Round(time.Millisecond),
	)
	fmt.Fprintln(os.Stdout, filepath.Join(cfg.Briefing.OutputDir, briefing.HTMLFile))
	return nil
}

// newFetcher returns a fixture-backed fetcher when --input is set and the
// PubMed client otherwise.
func newFetcher(cmd *cobra.Command, cfg types.PipelineConfig) (pipeline.Fetcher, error) {
	if input, _ := cmd.Flags().GetString("input"); input != "" {
		f, err := pubmed.LoadFileFetcher(input)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return pubmed.New(cfg.Fetch, pubmed.WithLogger(slog.Default())), nil
}

// applyRunFlags overrides config values with flags set on the command line.
func applyRunFlags(cmd *cobra.Command, cfg *types.PipelineConfig) {
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Briefing.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("top-n") {
		cfg.Briefing.TopN, _ = flags.GetInt("top-n")
	}
	if flags.Changed("timezone") {
		cfg.Briefing.Timezone, _ = flags.GetString("timezone")
	}
	if flags.Changed("all-highlights") {
		all, _ := flags.GetBool("all-highlights")
		cfg.Briefing.PracticeChangingOnly = !all
	}
	if flags.Changed("recent-days") {
		cfg.Fetch.RecentDays, _ = flags.GetInt("recent-days")
	}
	if flags.Changed("limit") {
		limit, _ := flags.GetInt("limit")
		for i := range cfg.Categories {
			cfg.Categories[i].Limit = limit
		}
	}
	if flags.Changed("strict") {
		cfg.Classifier.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("api-key") {
		cfg.Fetch.APIKey, _ = flags.GetString("api-key")
	}
	if flags.Changed("email") {
		cfg.Fetch.Email, _ = flags.GetString("email")
	}
}

func init() {
	runCmd.Flags().String("output-dir", "", "directory for index.html and briefing.md (default from config: site)")
	runCmd.Flags().Int("top-n", 0, "size of the cross-category highlight list")
	runCmd.Flags().String("timezone", "", "IANA timezone for the last-updated stamp")
	runCmd.Flags().Bool("all-highlights", false, "do not restrict highlights to practice-changing papers")
	runCmd.Flags().Int("recent-days", 0, "only fetch papers published in the last N days")
	runCmd.Flags().Int("limit", 0, "records to fetch per category")
	runCmd.Flags().Bool("strict", false, "also exclude retrospective and single-center studies")
	runCmd.Flags().String("api-key", "", "NCBI API key (default: .secrets/ncbi-api-key)")
	runCmd.Flags().String("email", "", "contact email sent to NCBI (default: .secrets/ncbi-email)")
	runCmd.Flags().String("input", "", "replay records from a YAML file instead of querying PubMed")
	runCmd.Flags().String("record", "", "save fetched records to a YAML file")
	runCmd.Flags().String("export", "", "also write the briefing as .json or .yaml")
	runCmd.Flags().String("metrics-file", "", "write run metrics in Prometheus text format")

	rootCmd.AddCommand(runCmd)
}
