package usecase

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/interfaces"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/model"
	"github.com/m-mizutani/ossrh-publisher/pkg/utils/console"
	"github.com/m-mizutani/ossrh-publisher/pkg/utils/logging"
)

var (
	md5Pattern  = regexp.MustCompile(`[a-z0-9]{32}`)
	sha1Pattern = regexp.MustCompile(`[a-z0-9]{40}`)
)

// Signer writes checksum and detached signature companions for every
// artifact of the configured modules
type Signer struct {
	runner  interfaces.CommandRunner
	printer *console.Printer
	md5sum  string
	sha1sum string
	gpg     string
	keyID   string
}

// SignerOption configures a Signer
type SignerOption func(*Signer)

// WithSignerPrinter sets the progress printer
func WithSignerPrinter(p *console.Printer) SignerOption {
	return func(s *Signer) {
		s.printer = p
	}
}

// WithBinaries overrides the md5sum, sha1sum and gpg binaries
func WithBinaries(md5sum, sha1sum, gpg string) SignerOption {
	return func(s *Signer) {
		if md5sum != "" {
			s.md5sum = md5sum
		}
		if sha1sum != "" {
			s.sha1sum = sha1sum
		}
		if gpg != "" {
			s.gpg = gpg
		}
	}
}

// WithKeyID selects the gpg signing key instead of the default key
func WithKeyID(keyID string) SignerOption {
	return func(s *Signer) {
		s.keyID = keyID
	}
}

// NewSigner creates a Signer
func NewSigner(runner interfaces.CommandRunner, opts ...SignerOption) *Signer {
	s := &Signer{
		runner:  runner,
		printer: console.Discard(),
		md5sum:  "md5sum",
		sha1sum: "sha1sum",
		gpg:     "gpg",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign removes stale companions of every module and regenerates the full set
// for each remaining file. The first failure aborts the run.
func (s *Signer) Sign(ctx context.Context, cfg *model.ReleaseConfig) ([]*model.ArtifactFile, error) {
	logger := logging.From(ctx)

	s.printer.Section("Checksum and gpg sign")
	s.printer.Println("Starting to calculate checksum and gpg sign...")

	var signed []*model.ArtifactFile
	for _, module := range cfg.Modules {
		modulePath := filepath.Join(cfg.ArtifactFolder, module)

		if err := removeCompanions(modulePath); err != nil {
			return nil, goerr.Wrap(err, "failed to remove old companion files", goerr.V("module", module))
		}

		artifacts, err := listArtifacts(module, modulePath)
		if err != nil {
			return nil, goerr.Wrap(model.ErrSigning, "failed to list module artifacts",
				goerr.V("module", module), goerr.V("cause", err.Error()))
		}

		for _, artifact := range artifacts {
			if err := s.signFile(ctx, cfg, artifact); err != nil {
				return nil, err
			}
			logger.Debug("Signed artifact", "module", module, "file", artifact.Name())
			signed = append(signed, artifact)
		}
		logger.Info("Signed module", "module", module, "artifacts", len(artifacts))
	}

	s.printer.Success("Checksum and gpg sign finished.")
	return signed, nil
}

func (s *Signer) signFile(ctx context.Context, cfg *model.ReleaseConfig, artifact *model.ArtifactFile) error {
	if err := s.writeChecksum(ctx, s.md5sum, md5Pattern, artifact.Path, artifact.MD5Path()); err != nil {
		return err
	}
	if err := s.writeChecksum(ctx, s.sha1sum, sha1Pattern, artifact.Path, artifact.SHA1Path()); err != nil {
		return err
	}

	args := []string{"--batch", "--yes", "--pinentry-mode", "loopback", "--passphrase", cfg.GPGPassphrase}
	if s.keyID != "" {
		args = append(args, "--local-user", s.keyID)
	}
	args = append(args, "-ab", artifact.Path)

	cmd := model.NewCommand(s.gpg, args...).WithSecret(cfg.GPGPassphrase)
	if out, err := s.runner.Run(ctx, cmd); err != nil {
		return goerr.Wrap(model.ErrSigning, "gpg signing failed",
			goerr.V("file", artifact.Path),
			goerr.V("cmd", cmd.String()),
			goerr.V("output", out),
			goerr.V("cause", err.Error()),
		)
	}
	return nil
}

func (s *Signer) writeChecksum(ctx context.Context, bin string, pattern *regexp.Regexp, src, dst string) error {
	cmd := model.NewCommand(bin, src)
	out, err := s.runner.Run(ctx, cmd)
	if err != nil {
		return goerr.Wrap(model.ErrSigning, "checksum command failed",
			goerr.V("cmd", cmd.String()),
			goerr.V("output", out),
			goerr.V("cause", err.Error()),
		)
	}

	sum := pattern.FindString(out)
	if sum == "" {
		return goerr.Wrap(model.ErrSigning, "checksum not found in command output",
			goerr.V("cmd", cmd.String()),
			goerr.V("output", out),
		)
	}

	if err := os.WriteFile(dst, []byte(sum), 0644); err != nil {
		return goerr.Wrap(model.ErrSigning, "failed to write checksum file",
			goerr.V("path", dst), goerr.V("cause", err.Error()))
	}
	return nil
}

func removeCompanions(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return goerr.Wrap(model.ErrSigning, "failed to read module directory",
			goerr.V("dir", dir), goerr.V("cause", err.Error()))
	}

	for _, entry := range entries {
		if entry.IsDir() || !model.IsCompanion(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			return goerr.Wrap(model.ErrSigning, "failed to remove companion file",
				goerr.V("path", path), goerr.V("cause", err.Error()))
		}
	}
	return nil
}

// listArtifacts returns regular files of dir in name order
func listArtifacts(module, dir string) ([]*model.ArtifactFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var artifacts []*model.ArtifactFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		artifacts = append(artifacts, &model.ArtifactFile{
			Module: module,
			Path:   filepath.Join(dir, entry.Name()),
		})
	}
	return artifacts, nil
}
