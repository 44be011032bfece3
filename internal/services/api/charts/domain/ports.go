package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Series(ctx context.Context, in WindowInput) (SeriesResult, error)
	Metrics(ctx context.Context, in WindowInput) (MetricsResult, error)
}
