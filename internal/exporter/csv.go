package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"ecdash/pkg/contracts/domain"
)

// utf8BOM helps Excel and other spreadsheet tools recognize UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// environmentHeader is the exported column order for the environmental table.
var environmentHeader = []string{"time", "temperature", "humidity", "ph", "ec", "school", "target_ec"}

// WriteEnvironmentCSV writes the environmental table as BOM-prefixed UTF-8
// CSV to w.
func WriteEnvironmentCSV(w io.Writer, records []domain.EnvironmentRecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(environmentHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range records {
		row := []string{
			r.Time,
			formatFloat(r.Temperature),
			formatFloat(r.Humidity),
			formatFloat(r.PH),
			formatFloat(r.EC),
			string(r.School),
			formatFloat(r.TargetEC),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes the per-school growth summary as BOM-prefixed CSV
// to path, creating the parent directory if needed. Used by the one-shot
// report command.
func WriteSummaryCSV(path string, summaries []domain.SchoolSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(f)
	header := []string{"school", "ec_target", "specimens",
		"mean_" + domain.ColFreshWeight, "mean_" + domain.ColLeafCount, "mean_" + domain.ColShootLength}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, s := range summaries {
		row := []string{
			string(s.School),
			formatFloat(s.ECTarget),
			strconv.Itoa(s.Specimens),
			formatFloat(s.MeanFreshWeightG),
			formatFloat(s.MeanLeafCount),
			formatFloat(s.MeanShootLengthMM),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
