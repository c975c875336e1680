package ports

import (
	"context"

	"github.com/autochef0332/autochef/internal/core/domain"
)

// ChangeRecorder receives committed mutations for audit and integrations.
type ChangeRecorder interface {
	Record(ctx context.Context, event domain.ChangeEvent) error
}
