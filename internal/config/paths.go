package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths centralizes resolved filesystem locations. Relative configured paths
// are resolved against the working directory once, at construction.
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	LogsDir    string
}

// NewPaths resolves the configured paths.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	base, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	return &Paths{
		BaseDir:    base,
		DataDir:    resolve(base, cfg.DataDir),
		ReportsDir: resolve(base, cfg.ReportsDir),
		LogsDir:    resolve(base, cfg.LogsDir),
	}, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// EnsureDirectories creates the output directories. The data directory is
// deliberately not created here: its absence is a load-time error, not
// something to paper over with an empty directory.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetReportPath returns the full path for a report artifact.
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// LogPathResolution logs the resolved paths at startup for debugging.
func (p *Paths) LogPathResolution() {
	slog.Info("resolved application paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("data_dir", p.DataDir),
		slog.String("reports_dir", p.ReportsDir),
		slog.String("logs_dir", p.LogsDir))
}
