package ports

import (
	"context"

	"github.com/egov-portal/portal-service/internal/core/domain"
)

type RequestEventPublisher interface {
	PublishStatusChanged(ctx context.Context, evt domain.StatusEvent) error
}
