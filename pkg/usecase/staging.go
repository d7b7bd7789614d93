package usecase

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/interfaces"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/model"
	"github.com/m-mizutani/ossrh-publisher/pkg/infra/nexus"
	"github.com/m-mizutani/ossrh-publisher/pkg/utils/console"
	"github.com/m-mizutani/ossrh-publisher/pkg/utils/logging"
)

// SleepFunc blocks for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Staging drives one staging repository through create, deploy, close and
// promote against Nexus
type Staging struct {
	nexus    interfaces.NexusClient
	notifier interfaces.Notifier
	printer  *console.Printer
	sleep    SleepFunc
}

// StagingOption configures Staging
type StagingOption func(*Staging)

// WithNotifier sets the notifier called after close and promote succeed
func WithNotifier(n interfaces.Notifier) StagingOption {
	return func(s *Staging) {
		s.notifier = n
	}
}

// WithStagingPrinter sets the progress printer
func WithStagingPrinter(p *console.Printer) StagingOption {
	return func(s *Staging) {
		s.printer = p
	}
}

// WithSleep replaces the wait between status polls
func WithSleep(fn SleepFunc) StagingOption {
	return func(s *Staging) {
		s.sleep = fn
	}
}

// NewStaging creates a Staging workflow
func NewStaging(client interfaces.NexusClient, opts ...StagingOption) *Staging {
	s := &Staging{
		nexus:   client,
		printer: console.Discard(),
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a new staging repository and records its id in repo
func (s *Staging) Create(ctx context.Context, cfg *model.ReleaseConfig, repo *model.StagingRepository) error {
	logger := logging.From(ctx)

	if err := repo.CanAdvance(model.StateCreated); err != nil {
		return err
	}

	s.printer.Section("Nexus: Create staging repo")
	s.printer.Println("Starting to create staging repository...")

	body, err := s.nexus.StartStaging(ctx, cfg.StagingProfileID, cfg.Description())
	if err != nil {
		s.printer.Failure("Creating staging repository failed.")
		s.printer.Println(body)
		return goerr.Wrap(model.ErrCreation, "start request failed",
			goerr.V("profile_id", cfg.StagingProfileID),
			goerr.V("cause", err.Error()),
		)
	}

	id, err := nexus.ExtractStagedRepositoryID(body)
	if err != nil {
		s.printer.Failure("Creating staging repository failed.")
		s.printer.Println(body)
		return goerr.Wrap(model.ErrCreation, "staging repository id not found in response",
			goerr.V("profile_id", cfg.StagingProfileID),
			goerr.V("body", body),
		)
	}

	repo.ID = id
	repo.Status = model.StatusOpen
	if err := repo.Advance(model.StateCreated); err != nil {
		return err
	}

	logger.Info("Created staging repository", "repository_id", id, "description", cfg.Description())
	s.printer.Success("Nexus: Creating staging repository completion.")
	s.printer.Printf("staging repository id: %s", id)
	return nil
}

// Deploy uploads every file of every module, companions included, in module
// order. Any failed upload stops the deploy.
func (s *Staging) Deploy(ctx context.Context, cfg *model.ReleaseConfig, repo *model.StagingRepository) error {
	logger := logging.From(ctx)

	if err := repo.RequireID(); err != nil {
		return err
	}
	if err := repo.CanAdvance(model.StateDeployed); err != nil {
		return err
	}

	s.printer.Section("Nexus: Deploy artifacts to staging repo")
	s.printer.Println("Starting to deploy artifacts to staging repository...")

	var uploaded int
	for _, module := range cfg.Modules {
		files, err := listArtifacts(module, filepath.Join(cfg.ArtifactFolder, module))
		if err != nil {
			return goerr.Wrap(err, "failed to list module artifacts", goerr.V("module", module))
		}

		for _, file := range files {
			remote := path.Join(cfg.GroupPath(), module, cfg.ReleaseVersion, file.Name())
			s.printer.Printf("Uploading %s", remote)

			out, err := s.nexus.Upload(ctx, repo.ID, remote, file.Path)
			if err != nil {
				s.printer.Failure("Uploading %s failed.", file.Path)
				s.printer.Println(out)
				return goerr.Wrap(err, "failed to upload artifact",
					goerr.V("repository_id", repo.ID),
					goerr.V("file", file.Path),
					goerr.V("remote_path", remote),
				)
			}
			logger.Debug("Uploaded artifact", "remote_path", remote)
			uploaded++
		}
	}

	if err := repo.Advance(model.StateDeployed); err != nil {
		return err
	}

	logger.Info("Deployed artifacts", "repository_id", repo.ID, "files", uploaded)
	s.printer.Success("Nexus: Deploying completion.")
	return nil
}

// Close triggers Nexus validation and waits for the repository to become
// closed. On timeout the failure messages of the activity feed are reported.
// On success the repository id is written to the marker file.
func (s *Staging) Close(ctx context.Context, cfg *model.ReleaseConfig, repo *model.StagingRepository) error {
	logger := logging.From(ctx)

	if err := repo.RequireID(); err != nil {
		return err
	}
	if err := repo.Advance(model.StateClosing); err != nil {
		return err
	}

	s.printer.Section("Nexus: Verify and Close staging repo")
	s.printer.Printf("Starting to close staging repository %s ...", repo.ID)

	if out, err := s.nexus.FinishStaging(ctx, cfg.StagingProfileID, repo.ID); err != nil {
		s.failClose(repo, "Closing staging repository failed.", out)
		return goerr.Wrap(err, "close request failed", goerr.V("repository_id", repo.ID))
	}

	closed, err := s.poll(ctx, cfg.Close, repo, "close", func(status string) bool {
		return status == string(model.StatusClosed)
	})
	if err != nil {
		s.failClose(repo, "Closing staging repository failed.", "")
		return err
	}

	if !closed {
		s.printer.Println("Querying the close operation result...")
		body, err := s.nexus.GetActivity(ctx, repo.ID)
		if err != nil {
			s.failClose(repo, "Closing staging repository failed.", body)
			return goerr.Wrap(err, "failed to fetch repository activity", goerr.V("repository_id", repo.ID))
		}

		messages := nexus.ExtractFailureMessages(body)
		s.failClose(repo, "Closing staging repository failed.", "See failure messages:\n"+strings.Join(messages, "\n\n"))
		return goerr.Wrap(model.ErrCloseTimeout, "staging repository was not closed",
			goerr.V("repository_id", repo.ID),
			goerr.V("max_pollings", cfg.Close.MaxPollings),
			goerr.V("failure_messages", messages),
		)
	}

	if err := repo.Advance(model.StateClosed); err != nil {
		return err
	}

	if err := writeMarker(cfg.MarkerFile, repo.ID); err != nil {
		return err
	}

	stagingURL := strings.TrimRight(cfg.ContentURL, "/") + "/repositories/" + repo.ID
	logger.Info("Closed staging repository", "repository_id", repo.ID, "url", stagingURL)
	s.printer.Success("Nexus: Staging completion.")
	s.printer.Println("Below is the staging repository url, you could use it to test deployment.")
	s.printer.Println(stagingURL)

	s.notify(ctx, "Staging repository "+repo.ID+" of "+cfg.Description()+" is closed: "+stagingURL)
	return nil
}

func (s *Staging) failClose(repo *model.StagingRepository, banner, detail string) {
	repo.State = model.StateCloseFailed
	s.printer.Failure(banner)
	if detail != "" {
		s.printer.Println(detail)
	}
}

// Promote releases a closed repository and waits until Nexus no longer
// reports it as closed. Any status other than closed counts as released.
func (s *Staging) Promote(ctx context.Context, cfg *model.ReleaseConfig, repo *model.StagingRepository) error {
	logger := logging.From(ctx)

	if err := repo.RequireID(); err != nil {
		return err
	}
	if err := repo.Advance(model.StatePromoting); err != nil {
		return err
	}

	s.printer.Section("Nexus: Promote")
	s.printer.Printf("Starting to promote staging repository %s ...", repo.ID)

	out, err := s.nexus.PromoteStaging(ctx, cfg.StagingProfileID, repo.ID)
	if err != nil {
		s.failPromote(repo, out)
		return goerr.Wrap(err, "promote request failed", goerr.V("repository_id", repo.ID))
	}
	if code, ok := nexus.ExtractHTTPStatus(out); ok && (code < 200 || code >= 300) {
		s.failPromote(repo, out)
		return goerr.Wrap(model.ErrProcess, "promote request was rejected",
			goerr.V("repository_id", repo.ID),
			goerr.V("status_code", code),
			goerr.V("body", out),
		)
	}
	logger.Debug("Promote requested", "repository_id", repo.ID, "response", out)

	released, err := s.poll(ctx, cfg.Promote, repo, "release", func(status string) bool {
		return status != string(model.StatusClosed)
	})
	if err != nil {
		s.failPromote(repo, "")
		return err
	}

	publicURL := strings.TrimRight(cfg.ContentURL, "/") + "/groups/public/" + cfg.GroupPath()
	s.printer.Println("Below is the public repository url, you could manually validate it.")
	s.printer.Println(publicURL)

	if !released {
		s.failPromote(repo, "")
		return goerr.Wrap(model.ErrPromoteTimeout, "staging repository is still closed",
			goerr.V("repository_id", repo.ID),
			goerr.V("max_pollings", cfg.Promote.MaxPollings),
		)
	}

	if err := repo.Advance(model.StateReleased); err != nil {
		return err
	}

	logger.Info("Promoted staging repository", "repository_id", repo.ID, "status", repo.Status)
	s.printer.Success("Nexus: Promote succeeded.")

	s.notify(ctx, "Staging repository "+repo.ID+" is promoted: "+publicURL)
	return nil
}

func (s *Staging) failPromote(repo *model.StagingRepository, detail string) {
	repo.State = model.StatePromoteFailed
	s.printer.Failure("Nexus: Promote failed.")
	if detail != "" {
		s.printer.Println(detail)
	}
}

// poll fetches the repository status at most policy.MaxPollings times and
// sleeps policy.Interval between attempts. It returns true as soon as done
// accepts the status, false when the bound is exhausted.
func (s *Staging) poll(ctx context.Context, policy model.PollingPolicy, repo *model.StagingRepository, operation string, done func(status string) bool) (bool, error) {
	logger := logging.From(ctx)

	for i := 0; i < policy.MaxPollings; i++ {
		s.printer.Printf("Polling the %s operation finished or not... (%d/%d)", operation, i+1, policy.MaxPollings)

		body, err := s.nexus.GetRepository(ctx, repo.ID)
		if err != nil {
			return false, goerr.Wrap(err, "failed to get repository status",
				goerr.V("repository_id", repo.ID), goerr.V("attempt", i+1))
		}

		status, err := nexus.ExtractStatus(body)
		if err != nil {
			return false, goerr.Wrap(err, "failed to read repository status",
				goerr.V("repository_id", repo.ID), goerr.V("attempt", i+1))
		}
		repo.Status = model.ParseStatus(status)

		logger.Debug("Polled repository status",
			"repository_id", repo.ID,
			"operation", operation,
			"attempt", i+1,
			"status", status,
		)
		s.printer.Println(status)

		if done(status) {
			return true, nil
		}

		if i+1 < policy.MaxPollings {
			if err := s.sleep(ctx, policy.Interval); err != nil {
				return false, goerr.Wrap(err, "polling interrupted", goerr.V("repository_id", repo.ID))
			}
		}
	}

	return false, nil
}

func (s *Staging) notify(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, message); err != nil {
		logging.From(ctx).Warn("Failed to send notification", "error", err)
	}
}

func writeMarker(markerFile, id string) error {
	if markerFile == "" {
		return nil
	}
	if err := os.WriteFile(markerFile, []byte(id), 0644); err != nil {
		return goerr.Wrap(err, "failed to write staging repository marker file", goerr.V("path", markerFile))
	}
	return nil
}

// ReadMarker returns the repository id stored by a previous close, or an
// empty string when the marker file does not exist
func ReadMarker(markerFile string) (string, error) {
	if markerFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(markerFile)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", goerr.Wrap(err, "failed to read staging repository marker file", goerr.V("path", markerFile))
	}
	return strings.TrimSpace(string(data)), nil
}
