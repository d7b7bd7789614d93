package process

import (
	"context"
	"os/exec"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/interfaces"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/model"
	"github.com/m-mizutani/ossrh-publisher/pkg/utils/logging"
)

type runner struct {
	dir string
}

// Option configures the runner
type Option func(*runner)

// WithDir sets the working directory of executed commands
func WithDir(dir string) Option {
	return func(r *runner) {
		r.dir = dir
	}
}

// New creates a CommandRunner backed by os/exec
func New(opts ...Option) interfaces.CommandRunner {
	r := &runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the command and returns combined stdout and stderr. No
// timeout is applied here.
func (r *runner) Run(ctx context.Context, cmd *model.Command) (string, error) {
	logger := logging.From(ctx)
	logger.Debug("Running command", "cmd", cmd.String(), "dir", r.dir)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = r.dir

	start := time.Now()
	out, err := c.CombinedOutput()
	output := string(out)

	logger.Debug("Done with command",
		"name", cmd.Name,
		"duration_ms", time.Since(start).Milliseconds(),
		"output_bytes", len(out),
	)

	if err != nil {
		opts := []goerr.Option{
			goerr.V("cmd", cmd.String()),
			goerr.V("output", output),
			goerr.V("cause", err.Error()),
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			opts = append(opts, goerr.V("exit_code", exitErr.ExitCode()))
		}
		return output, goerr.Wrap(model.ErrProcess, "command failed", opts...)
	}

	return output, nil
}
