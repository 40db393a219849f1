package http

import (
	"context"

	"ecdash/internal/dataprocessing"
	"ecdash/internal/services"
	"ecdash/pkg/contracts/domain"
)

// DataServiceInterface is what the handlers need from the data service.
// Kept as an interface so handler tests can substitute a stub.
type DataServiceInterface interface {
	Environment(ctx context.Context, filter string) (*services.EnvironmentTable, error)
	Growth(ctx context.Context, filter string) (*services.GrowthTable, error)
	Summary(ctx context.Context) (*services.SummaryReport, error)
	EnvironmentSummary(ctx context.Context) ([]domain.EnvironmentSummary, error)
	Overview(ctx context.Context) (*services.Overview, error)
	Schools() []domain.SchoolConfig
	Refresh(ctx context.Context) (*dataprocessing.Dataset, error)
	Ready(ctx context.Context) error
}
