package process_test

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/model"
	"github.com/m-mizutani/ossrh-publisher/pkg/infra/process"
)

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s is not available", name)
	}
}

func TestRunner_Run(t *testing.T) {
	requireBinary(t, "sh")
	ctx := context.Background()
	runner := process.New()

	t.Run("captures stdout and stderr", func(t *testing.T) {
		out, err := runner.Run(ctx, model.NewCommand("sh", "-c", "echo out; echo err 1>&2"))
		gt.NoError(t, err)
		gt.String(t, out).Contains("out")
		gt.String(t, out).Contains("err")
	})

	t.Run("non-zero exit is a process error", func(t *testing.T) {
		out, err := runner.Run(ctx, model.NewCommand("sh", "-c", "echo broken; exit 3"))
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrProcess))
		gt.String(t, out).Contains("broken")
	})

	t.Run("missing binary is a process error", func(t *testing.T) {
		_, err := runner.Run(ctx, model.NewCommand("ossrh-publisher-no-such-binary"))
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrProcess))
	})

	t.Run("runs in configured directory", func(t *testing.T) {
		dir := t.TempDir()
		out, err := process.New(process.WithDir(dir)).Run(ctx, model.NewCommand("sh", "-c", "pwd"))
		gt.NoError(t, err)
		gt.String(t, out).Contains(dir)
	})
}
