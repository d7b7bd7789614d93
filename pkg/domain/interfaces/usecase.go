package interfaces

import (
	"context"

	"github.com/m-mizutani/ossrh-publisher/pkg/domain/model"
)

// PublishUseCase runs one task of the release pipeline
type PublishUseCase interface {
	Run(ctx context.Context, task model.Task) error
}

// Notifier announces release milestones
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
