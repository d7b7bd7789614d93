package nexus

import (
	"bytes"
	"context"
	"encoding/xml"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/interfaces"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/model"
)

// config holds internal client configuration
type config struct {
	serviceURL string
	curl       string
	insecure   bool
}

// Option is a functional option for the client
type Option func(*config)

// WithServiceURL sets the Nexus REST base URL, e.g. https://oss.sonatype.org/service/local
func WithServiceURL(url string) Option {
	return func(c *config) {
		c.serviceURL = strings.TrimRight(url, "/")
	}
}

// WithCurl sets the curl binary
func WithCurl(path string) Option {
	return func(c *config) {
		c.curl = path
	}
}

// WithInsecure disables TLS verification (curl -k)
func WithInsecure(insecure bool) Option {
	return func(c *config) {
		c.insecure = insecure
	}
}

type client struct {
	runner   interfaces.CommandRunner
	cfg      *config
	user     string
	password string
}

// NewClient creates a NexusClient that reaches the staging API through curl
func NewClient(runner interfaces.CommandRunner, user, password string, opts ...Option) interfaces.NexusClient {
	cfg := &config{
		serviceURL: model.DefaultServiceURL,
		curl:       "curl",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &client{
		runner:   runner,
		cfg:      cfg,
		user:     user,
		password: password,
	}
}

func (c *client) command(args ...string) *model.Command {
	base := []string{"-sS", "-u", c.user + ":" + c.password}
	if c.cfg.insecure {
		base = append(base, "-k")
	}
	return model.NewCommand(c.cfg.curl, append(base, args...)...).WithSecret(c.user, c.password)
}

func (c *client) postXML(ctx context.Context, url, body string, extra ...string) (string, error) {
	args := append([]string{}, extra...)
	args = append(args,
		"-X", "POST",
		"-d", body,
		"-H", "Content-Type: application/xml",
		url,
	)
	return c.runner.Run(ctx, c.command(args...))
}

func (c *client) getXML(ctx context.Context, url string) (string, error) {
	return c.runner.Run(ctx, c.command(
		"-X", "GET",
		"-H", "Content-Type:application/xml",
		url,
	))
}

func (c *client) profileURL(profileID, action string) string {
	return c.cfg.serviceURL + "/staging/profiles/" + profileID + "/" + action
}

func (c *client) repositoryURL(repositoryID string) string {
	return c.cfg.serviceURL + "/staging/repository/" + repositoryID
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s)) // bytes.Buffer never fails
	return buf.String()
}

func descriptionRequest(description string) string {
	return "<promoteRequest><data><description>" + escape(description) +
		"</description></data></promoteRequest>"
}

func repositoryRequest(repositoryID string) string {
	return "<promoteRequest><data><stagedRepositoryId>" + escape(repositoryID) +
		"</stagedRepositoryId></data></promoteRequest>"
}

// StartStaging creates a staging repository in the profile
func (c *client) StartStaging(ctx context.Context, profileID, description string) (string, error) {
	return c.postXML(ctx, c.profileURL(profileID, "start"), descriptionRequest(description))
}

// FinishStaging closes the staging repository
func (c *client) FinishStaging(ctx context.Context, profileID, repositoryID string) (string, error) {
	return c.postXML(ctx, c.profileURL(profileID, "finish"), repositoryRequest(repositoryID))
}

// PromoteStaging releases the staging repository. Headers are included in
// the output so the caller can check the HTTP status.
func (c *client) PromoteStaging(ctx context.Context, profileID, repositoryID string) (string, error) {
	return c.postXML(ctx, c.profileURL(profileID, "promote"), repositoryRequest(repositoryID), "-i")
}

// GetRepository fetches the repository status document
func (c *client) GetRepository(ctx context.Context, repositoryID string) (string, error) {
	return c.getXML(ctx, c.repositoryURL(repositoryID))
}

// GetActivity fetches the repository activity feed
func (c *client) GetActivity(ctx context.Context, repositoryID string) (string, error) {
	return c.getXML(ctx, c.repositoryURL(repositoryID)+"/activity")
}

// Upload sends localPath to remotePath inside the staging repository. HTTP
// errors make curl exit non-zero.
func (c *client) Upload(ctx context.Context, repositoryID, remotePath, localPath string) (string, error) {
	if repositoryID == "" {
		return "", goerr.Wrap(model.ErrConfiguration, "staging repository id is required for upload")
	}

	url := c.cfg.serviceURL + "/staging/deployByRepositoryId/" + repositoryID + "/" + strings.TrimLeft(remotePath, "/")
	return c.runner.Run(ctx, c.command("--fail", "--upload-file", localPath, url))
}
