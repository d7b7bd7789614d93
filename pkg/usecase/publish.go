package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/interfaces"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/model"
	"github.com/m-mizutani/ossrh-publisher/pkg/utils/logging"
)

type publishUseCase struct {
	cfg     *model.ReleaseConfig
	signer  *Signer
	staging *Staging
}

// NewPublish creates the use case behind the gpg, upload and promote tasks
func NewPublish(cfg *model.ReleaseConfig, signer *Signer, staging *Staging) interfaces.PublishUseCase {
	return &publishUseCase{
		cfg:     cfg,
		signer:  signer,
		staging: staging,
	}
}

// Run validates the configuration the task needs and executes it. Nothing
// external is invoked when validation fails.
func (uc *publishUseCase) Run(ctx context.Context, task model.Task) error {
	logger := logging.From(ctx)

	if err := uc.cfg.Validate(task); err != nil {
		return err
	}

	logger.Info("Running task", "task", task, "config", uc.cfg)

	switch task {
	case model.TaskSign:
		_, err := uc.signer.Sign(ctx, uc.cfg)
		return err

	case model.TaskUpload:
		return uc.upload(ctx)

	case model.TaskPromote:
		return uc.promote(ctx)

	default:
		return goerr.Wrap(model.ErrUnknownTask, "task is not supported", goerr.V("task", task))
	}
}

func (uc *publishUseCase) upload(ctx context.Context) error {
	repo := model.NewStagingRepository()

	if _, err := uc.signer.Sign(ctx, uc.cfg); err != nil {
		return err
	}
	if err := repo.Advance(model.StateSigned); err != nil {
		return err
	}

	if err := uc.staging.Create(ctx, uc.cfg, repo); err != nil {
		return err
	}
	if err := uc.staging.Deploy(ctx, uc.cfg, repo); err != nil {
		return err
	}
	return uc.staging.Close(ctx, uc.cfg, repo)
}

func (uc *publishUseCase) promote(ctx context.Context) error {
	id := uc.cfg.StagingRepoID
	if id == "" {
		marker, err := ReadMarker(uc.cfg.MarkerFile)
		if err != nil {
			return err
		}
		id = marker
		if id != "" {
			logging.From(ctx).Info("Using staging repository id from marker file",
				"repository_id", id, "path", uc.cfg.MarkerFile)
		}
	}

	if id == "" {
		return goerr.Wrap(model.ErrConfiguration, "NEXUS_STAGINGREPOID is not set",
			goerr.V("field", "NEXUS_STAGINGREPOID"),
			goerr.V("marker_file", uc.cfg.MarkerFile),
		)
	}

	return uc.staging.Promote(ctx, uc.cfg, model.RecoverStagingRepository(id))
}
