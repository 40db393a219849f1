package dataprocessing

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ecdash/internal/config"
	"ecdash/internal/files"
	"ecdash/pkg/contracts/domain"
)

var (
	// ErrDataDirNotFound means the root data directory is absent. Fatal for
	// the whole pipeline.
	ErrDataDirNotFound = errors.New("data directory not found")
	// ErrNoEnvironmentData means not a single school's environmental file
	// could be loaded. Fatal.
	ErrNoEnvironmentData = errors.New("no environmental data could be loaded")
	// ErrGrowthDataNotFound means the growth workbook is absent or
	// unparseable. Fatal; the analysis has no content without it.
	ErrGrowthDataNotFound = errors.New("growth workbook not found")
)

// Dataset is one complete, immutable load of the experiment data. Records
// are never mutated after Load returns; concurrent readers may share a
// Dataset freely.
type Dataset struct {
	Environment        []domain.EnvironmentRecord
	Growth             []domain.GrowthRecord
	GrowthExtraColumns []string

	// MissingSchools lists schools whose environmental file could not be
	// resolved or parsed. The skip is deliberate and non-fatal, but callers
	// can warn instead of silently showing partial data.
	MissingSchools []domain.School

	Fingerprint string
	LoadedAt    time.Time
}

// Loader assembles a Dataset from the flat files in the data directory.
type Loader struct {
	dataDir    string
	growthFile string
	logger     *slog.Logger
}

// NewLoader creates a loader for the given data directory. growthFile is the
// logical (NFC) workbook filename.
func NewLoader(dataDir, growthFile string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		dataDir:    dataDir,
		growthFile: growthFile,
		logger:     logger.With(slog.String("component", "loader")),
	}
}

// Load runs the full pipeline: reconcile filenames, parse every resolvable
// environmental file, parse the growth workbook, and assemble the unified
// tables. Schools whose environmental file cannot be resolved or parsed are
// skipped and recorded in MissingSchools; if that skips all of them the load
// fails with ErrNoEnvironmentData.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	if !files.DirExists(l.dataDir) {
		return nil, fmt.Errorf("%w: %s", ErrDataDirNotFound, l.dataDir)
	}

	ds := &Dataset{LoadedAt: time.Now()}
	fingerprint := sha256.New()

	for _, school := range config.Schools() {
		info, err := files.FindFile(l.dataDir, school.SourceFile)
		if err != nil {
			l.logger.WarnContext(ctx, "environmental file not resolved, school skipped",
				slog.String("school", string(school.Name)),
				slog.String("file", school.SourceFile),
				slog.String("error", err.Error()))
			ds.MissingSchools = append(ds.MissingSchools, school.Name)
			continue
		}
		// Resolved files count toward the fingerprint even if they fail to
		// parse, so a later fix to the file invalidates the cache.
		fmt.Fprintf(fingerprint, "%s|%d|%d\n", info.Name, info.Size, info.ModTime.UnixNano())

		records, err := ParseEnvironmentCSV(info.Path, school)
		if err != nil {
			l.logger.WarnContext(ctx, "environmental file unparseable, school skipped",
				slog.String("school", string(school.Name)),
				slog.String("file", info.Name),
				slog.String("error", err.Error()))
			ds.MissingSchools = append(ds.MissingSchools, school.Name)
			continue
		}

		ds.Environment = append(ds.Environment, records...)
		l.logger.InfoContext(ctx, "environmental file loaded",
			slog.String("school", string(school.Name)),
			slog.Int("rows", len(records)))
	}

	if len(ds.Environment) == 0 {
		return nil, fmt.Errorf("%w: all %d schools skipped", ErrNoEnvironmentData, len(config.Schools()))
	}

	growthInfo, err := files.FindFile(l.dataDir, l.growthFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGrowthDataNotFound, err)
	}
	table, err := ParseGrowthWorkbook(growthInfo.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGrowthDataNotFound, err)
	}
	if len(table.Records) == 0 {
		return nil, fmt.Errorf("%w: workbook %s has no data rows", ErrGrowthDataNotFound, growthInfo.Name)
	}
	ds.Growth = table.Records
	ds.GrowthExtraColumns = table.ExtraColumns
	fmt.Fprintf(fingerprint, "%s|%d|%d\n", growthInfo.Name, growthInfo.Size, growthInfo.ModTime.UnixNano())

	ds.Fingerprint = fmt.Sprintf("%x", fingerprint.Sum(nil))
	l.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("environment_rows", len(ds.Environment)),
		slog.Int("growth_rows", len(ds.Growth)),
		slog.Int("missing_schools", len(ds.MissingSchools)),
		slog.String("fingerprint", ds.Fingerprint[:12]))

	return ds, nil
}

// Fingerprint computes the current content fingerprint of the input files
// without parsing them. A changed fingerprint means a cached Dataset is
// stale. Missing files simply contribute nothing, mirroring Load's skip
// behavior; structural errors surface as an empty string plus the error.
func (l *Loader) Fingerprint() (string, error) {
	if !files.DirExists(l.dataDir) {
		return "", fmt.Errorf("%w: %s", ErrDataDirNotFound, l.dataDir)
	}

	h := sha256.New()
	for _, school := range config.Schools() {
		info, err := files.FindFile(l.dataDir, school.SourceFile)
		if err != nil {
			continue
		}
		fmt.Fprintf(h, "%s|%d|%d\n", info.Name, info.Size, info.ModTime.UnixNano())
	}
	if info, err := files.FindFile(l.dataDir, l.growthFile); err == nil {
		fmt.Fprintf(h, "%s|%d|%d\n", info.Name, info.Size, info.ModTime.UnixNano())
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// FilterEnvironment returns the environmental rows for one school, or every
// row when school is empty. The result shares backing records with the
// Dataset; records are immutable so this is safe.
func (ds *Dataset) FilterEnvironment(school domain.School) []domain.EnvironmentRecord {
	if school == "" {
		return ds.Environment
	}
	var out []domain.EnvironmentRecord
	for _, r := range ds.Environment {
		if r.School == school {
			out = append(out, r)
		}
	}
	return out
}

// FilterGrowth returns the growth rows for one school, or every row when
// school is empty.
func (ds *Dataset) FilterGrowth(school domain.School) []domain.GrowthRecord {
	if school == "" {
		return ds.Growth
	}
	var out []domain.GrowthRecord
	for _, r := range ds.Growth {
		if r.School == school {
			out = append(out, r)
		}
	}
	return out
}
