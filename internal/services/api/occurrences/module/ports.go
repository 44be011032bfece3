package module

import (
	"context"

	"bluebird/internal/services/api/occurrences/domain"
)

// Ports is what the occurrences module exports to the rest of the API
type Ports struct {
	Service domain.ServicePort
	Views   domain.ViewPort

	// DropOn discards listing state for every user id read from ch
	DropOn func(ctx context.Context, ch <-chan string)
}

func (m *Module) Ports() any {
	return Ports{Service: m.svc, Views: m.views, DropOn: m.views.DropOn}
}
