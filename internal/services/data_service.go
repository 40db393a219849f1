package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"ecdash/internal/config"
	"ecdash/internal/dataprocessing"
	"ecdash/internal/observability/metrics"
	"ecdash/pkg/contracts/domain"
)

// DataService owns the cached dataset and answers every read the dashboard
// makes. A load runs once per session and is memoized on the content
// fingerprint of the input files; concurrent requests hitting a cold or
// stale cache are collapsed into a single pipeline run. The cached Dataset
// is immutable, so readers share it without copying.
type DataService struct {
	loader *dataprocessing.Loader
	logger *slog.Logger

	mu      sync.RWMutex
	dataset *dataprocessing.Dataset

	loadGroup singleflight.Group
}

// NewDataService creates a data service for the configured data directory.
func NewDataService(cfg *config.Config, paths *config.Paths, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "data_service"))

	logger.Info("data service initialized",
		slog.String("data_dir", paths.DataDir),
		slog.String("growth_file", cfg.Data.GrowthFile))

	return &DataService{
		loader: dataprocessing.NewLoader(paths.DataDir, cfg.Data.GrowthFile, logger),
		logger: logger,
	}
}

// Dataset returns the cached dataset, loading or reloading it when the
// cache is cold or the input files changed on disk.
func (s *DataService) Dataset(ctx context.Context) (*dataprocessing.Dataset, error) {
	s.mu.RLock()
	cached := s.dataset
	s.mu.RUnlock()

	if cached != nil {
		current, err := s.loader.Fingerprint()
		if err == nil && current == cached.Fingerprint {
			metrics.DatasetLoadsTotal.WithLabelValues("cached").Inc()
			return cached, nil
		}
		if err != nil {
			// The directory vanished since the last load. Drop the cache and
			// let the reload surface the structural error.
			s.logger.WarnContext(ctx, "input fingerprint unavailable, forcing reload",
				slog.String("error", err.Error()))
		}
	}

	return s.reload(ctx)
}

// Refresh discards the cached dataset and reloads from disk. Forgetting the
// singleflight key first keeps the refresh from joining a load that was
// already in flight when it arrived; the result always reflects the files as
// of the refresh, not before.
func (s *DataService) Refresh(ctx context.Context) (*dataprocessing.Dataset, error) {
	s.mu.Lock()
	s.dataset = nil
	s.mu.Unlock()
	s.loadGroup.Forget("load")
	return s.reload(ctx)
}

func (s *DataService) reload(ctx context.Context) (*dataprocessing.Dataset, error) {
	v, err, shared := s.loadGroup.Do("load", func() (interface{}, error) {
		ds, err := s.loader.Load(ctx)
		if err != nil {
			metrics.DatasetLoadsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		metrics.DatasetLoadsTotal.WithLabelValues("ok").Inc()
		metrics.DatasetRecords.WithLabelValues("environment").Set(float64(len(ds.Environment)))
		metrics.DatasetRecords.WithLabelValues("growth").Set(float64(len(ds.Growth)))

		s.mu.Lock()
		s.dataset = ds
		s.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.DebugContext(ctx, "dataset load shared with concurrent caller")
	}
	return v.(*dataprocessing.Dataset), nil
}

// ResolveSchool validates an optional school filter. An empty filter means
// "everything"; anything else must name a roster school (in either Unicode
// normalization form).
func (s *DataService) ResolveSchool(filter string) (domain.School, error) {
	if filter == "" {
		return "", nil
	}
	cfg, ok := config.SchoolByName(filter)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSchool, filter)
	}
	return cfg.Name, nil
}

// EnvironmentTable is the filtered environmental table plus the schools
// whose files did not resolve, so callers can warn about partial data.
type EnvironmentTable struct {
	Records        []domain.EnvironmentRecord `json:"records"`
	MissingSchools []domain.School            `json:"missing_schools,omitempty"`
}

// Environment returns the environmental table, optionally filtered to one
// school.
func (s *DataService) Environment(ctx context.Context, filter string) (*EnvironmentTable, error) {
	school, err := s.ResolveSchool(filter)
	if err != nil {
		return nil, err
	}
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return &EnvironmentTable{
		Records:        ds.FilterEnvironment(school),
		MissingSchools: ds.MissingSchools,
	}, nil
}

// GrowthTable is the filtered growth table with its pass-through columns.
type GrowthTable struct {
	Records      []domain.GrowthRecord `json:"records"`
	ExtraColumns []string              `json:"extra_columns,omitempty"`
}

// Growth returns the growth table, optionally filtered to one school.
func (s *DataService) Growth(ctx context.Context, filter string) (*GrowthTable, error) {
	school, err := s.ResolveSchool(filter)
	if err != nil {
		return nil, err
	}
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return &GrowthTable{
		Records:      ds.FilterGrowth(school),
		ExtraColumns: ds.GrowthExtraColumns,
	}, nil
}

// SummaryReport couples the per-school growth summaries with the
// best-school designation (maximum mean fresh weight, descriptive only).
type SummaryReport struct {
	Summaries  []domain.SchoolSummary `json:"summaries"`
	BestSchool domain.School          `json:"best_school,omitempty"`
}

// Summary computes the per-school growth summary from the cached dataset.
func (s *DataService) Summary(ctx context.Context) (*SummaryReport, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	summaries := dataprocessing.Summarize(ds.Growth)
	report := &SummaryReport{Summaries: summaries}
	if best, ok := domain.BestSchool(summaries); ok {
		report.BestSchool = best.School
	}
	return report, nil
}

// EnvironmentSummary computes the per-school environmental means.
func (s *DataService) EnvironmentSummary(ctx context.Context) ([]domain.EnvironmentSummary, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return dataprocessing.SummarizeEnvironment(ds.Environment), nil
}

// Overview carries the dashboard's headline metric cards.
type Overview struct {
	TotalSpecimens    int                   `json:"total_specimens"`
	SpecimensBySchool map[domain.School]int `json:"specimens_by_school"`
	MeanTemperature   float64               `json:"mean_temperature"`
	MeanHumidity      float64               `json:"mean_humidity"`
	BestSchool        domain.School         `json:"best_school,omitempty"`
	BestECTarget      float64               `json:"best_ec_target,omitempty"`
	MissingSchools    []domain.School       `json:"missing_schools,omitempty"`
}

// Overview computes the headline numbers for the dashboard's summary cards.
func (s *DataService) Overview(ctx context.Context) (*Overview, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	ov := &Overview{
		TotalSpecimens:    len(ds.Growth),
		SpecimensBySchool: make(map[domain.School]int),
		MissingSchools:    ds.MissingSchools,
	}
	for _, r := range ds.Growth {
		ov.SpecimensBySchool[r.School]++
	}

	var tempSum, humSum float64
	for _, r := range ds.Environment {
		tempSum += r.Temperature
		humSum += r.Humidity
	}
	if n := len(ds.Environment); n > 0 {
		ov.MeanTemperature = tempSum / float64(n)
		ov.MeanHumidity = humSum / float64(n)
	}

	if best, ok := domain.BestSchool(dataprocessing.Summarize(ds.Growth)); ok {
		ov.BestSchool = best.School
		ov.BestECTarget = best.ECTarget
	}

	return ov, nil
}

// Schools returns the static experiment roster.
func (s *DataService) Schools() []domain.SchoolConfig {
	return config.Schools()
}

// Ready reports whether a dataset can be served, loading one if necessary.
// Used by the readiness probe.
func (s *DataService) Ready(ctx context.Context) error {
	_, err := s.Dataset(ctx)
	return err
}
