package interfaces

import (
	"context"

	"github.com/m-mizutani/ossrh-publisher/pkg/domain/model"
)

// CommandRunner runs external commands synchronously
type CommandRunner interface {
	// Run executes cmd and returns its combined stdout and stderr
	Run(ctx context.Context, cmd *model.Command) (string, error)
}
