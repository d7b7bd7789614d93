package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/m-mizutani/ossrh-publisher/pkg/cli/config"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/interfaces"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/model"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/types"
	"github.com/m-mizutani/ossrh-publisher/pkg/infra/process"
	"github.com/m-mizutani/ossrh-publisher/pkg/usecase"
	"github.com/m-mizutani/ossrh-publisher/pkg/utils/console"
	"github.com/m-mizutani/ossrh-publisher/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const usageText = "Usage: ossrh-publisher -task [gpg|upload|promote]"

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newApp(os.Stdout, os.Stderr, process.New()).run(ctx, args)
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	runner interfaces.CommandRunner
}

func newApp(stdout, stderr io.Writer, runner interfaces.CommandRunner) *app {
	return &app{stdout: stdout, stderr: stderr, runner: runner}
}

func (a *app) run(ctx context.Context, args []string) error {
	var (
		taskName  string
		loggerCfg = config.Logger{Writer: a.stderr}
		nexusCfg  config.Nexus
		gpgCfg    config.GPG
		release   config.Release
		sentryCfg config.Sentry
		slackCfg  config.Slack
		logger    *slog.Logger
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "task",
			Usage:       "Task to run: gpg (sign artifacts), upload (stage and close), promote (release to Maven Central)",
			Destination: &taskName,
		},
	}
	flags = append(flags, loggerCfg.Flags()...)
	flags = append(flags, nexusCfg.Flags()...)
	flags = append(flags, gpgCfg.Flags()...)
	flags = append(flags, release.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	cmd := &cli.Command{
		Name:      "ossrh-publisher",
		Usage:     "Sign, stage and promote Maven artifacts through Sonatype OSSRH",
		UsageText: usageText,
		Version:   types.Version,
		Flags:     flags,
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}
			logger = logger.With("run_id", uuid.NewString())

			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			return logging.With(ctx, logger), nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			printer := console.New(a.stdout)

			task, err := model.ParseTask(taskName)
			if err != nil {
				printer.Failure("Task not specified or not supported: %q", taskName)
				printer.Println(usageText)
				return err
			}

			if err := release.LoadProjectFile(c.IsSet); err != nil {
				return err
			}
			cfg := config.Build(&release, &nexusCfg, &gpgCfg)

			signer := usecase.NewSigner(a.runner,
				append(gpgCfg.SignerOptions(), usecase.WithSignerPrinter(printer))...)
			staging := usecase.NewStaging(nexusCfg.NewClient(a.runner),
				usecase.WithStagingPrinter(printer),
				usecase.WithNotifier(slackCfg.Notifier()),
			)

			if err := usecase.NewPublish(cfg, signer, staging).Run(ctx, task); err != nil {
				printer.Failure("Task %s failed: %s", task, err.Error())
				sentryCfg.Report(err, map[string]string{"task": string(task)})
				return err
			}

			logging.From(ctx).Info("Task completed", "task", task)
			return nil
		},
	}

	if err := cmd.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}
