// Command report runs the data pipeline once and writes the summary report
// without starting the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"ecdash/internal/config"
	"ecdash/internal/dataprocessing"
	"ecdash/internal/exporter"
	"ecdash/internal/infrastructure"
	"ecdash/pkg/contracts/domain"
)

func main() {
	if err := run(); err != nil {
		slog.Error("report failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	ctx := context.Background()
	loader := dataprocessing.NewLoader(paths.DataDir, cfg.Data.GrowthFile, logger)

	dataset, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	summaries := dataprocessing.Summarize(dataset.Growth)
	printSummaries(os.Stdout, summaries, dataset.MissingSchools)

	reportPath := paths.GetReportPath("summary.csv")
	if err := exporter.WriteSummaryCSV(reportPath, summaries); err != nil {
		return fmt.Errorf("failed to write summary report: %w", err)
	}

	jsonPath := paths.GetReportPath("summary.json")
	if err := writeRunJSON(jsonPath, dataset, summaries); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}

	logger.Info("summary report written",
		slog.String("csv_path", reportPath),
		slog.String("json_path", jsonPath),
		slog.Int("schools", len(summaries)),
		slog.Int("specimens", len(dataset.Growth)))

	return nil
}

// writeRunJSON records the run's outcome alongside the CSV so downstream
// scripts do not have to re-derive the best school or the skip list.
func writeRunJSON(path string, dataset *dataprocessing.Dataset, summaries []domain.SchoolSummary) error {
	report := struct {
		LoadedAt       time.Time              `json:"loaded_at"`
		Fingerprint    string                 `json:"fingerprint"`
		Summaries      []domain.SchoolSummary `json:"summaries"`
		BestSchool     domain.School          `json:"best_school,omitempty"`
		MissingSchools []domain.School        `json:"missing_schools,omitempty"`
	}{
		LoadedAt:       dataset.LoadedAt,
		Fingerprint:    dataset.Fingerprint,
		Summaries:      summaries,
		MissingSchools: dataset.MissingSchools,
	}
	if best, ok := domain.BestSchool(summaries); ok {
		report.BestSchool = best.School
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printSummaries(out io.Writer, summaries []domain.SchoolSummary, missing []domain.School) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "School\tEC Target\tSpecimens\tMean Fresh Weight (g)\tMean Leaf Count\tMean Shoot Length (mm)")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%.1f\t%d\t%.2f\t%.2f\t%.2f\n",
			s.School, s.ECTarget, s.Specimens,
			s.MeanFreshWeightG, s.MeanLeafCount, s.MeanShootLengthMM)
	}
	w.Flush()

	if best, ok := domain.BestSchool(summaries); ok {
		fmt.Fprintf(out, "\nBest mean fresh weight: %s (%.2f g at EC %.1f)\n",
			best.School, best.MeanFreshWeightG, best.ECTarget)
	}
	for _, school := range missing {
		fmt.Fprintf(out, "warning: no environment data for %s\n", school)
	}
}
