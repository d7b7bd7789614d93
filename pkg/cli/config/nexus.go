package config

import (
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/interfaces"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/model"
	"github.com/m-mizutani/ossrh-publisher/pkg/infra/nexus"
	"github.com/urfave/cli/v3"
)

// Nexus holds Nexus OSSRH credentials and endpoints
type Nexus struct {
	User             string
	Password         string `masq:"secret"`
	StagingProfileID string
	StagingRepoID    string
	ServiceURL       string
	ContentURL       string
	Insecure         bool
	Curl             string
}

// Flags returns CLI flags for Nexus configuration
func (c *Nexus) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "nexus-user",
			Usage:       "OSSRH user name",
			Destination: &c.User,
			Sources:     cli.EnvVars("NEXUS_OSSRHUSER"),
		},
		&cli.StringFlag{
			Name:        "nexus-password",
			Usage:       "OSSRH password",
			Destination: &c.Password,
			Sources:     cli.EnvVars("NEXUS_OSSRHPASS"),
		},
		&cli.StringFlag{
			Name:        "staging-profile-id",
			Usage:       "Nexus staging profile id",
			Destination: &c.StagingProfileID,
			Sources:     cli.EnvVars("NEXUS_STAGINGPROFILEID"),
		},
		&cli.StringFlag{
			Name:        "staging-repo-id",
			Usage:       "Staging repository to promote. Read from the marker file when empty",
			Destination: &c.StagingRepoID,
			Sources:     cli.EnvVars("NEXUS_STAGINGREPOID"),
		},
		&cli.StringFlag{
			Name:        "nexus-url",
			Usage:       "Nexus REST service base URL",
			Value:       model.DefaultServiceURL,
			Destination: &c.ServiceURL,
			Sources:     cli.EnvVars("OSSRH_NEXUS_URL"),
		},
		&cli.StringFlag{
			Name:        "nexus-content-url",
			Usage:       "Nexus content base URL, used for printed repository links",
			Value:       model.DefaultContentURL,
			Destination: &c.ContentURL,
			Sources:     cli.EnvVars("OSSRH_NEXUS_CONTENT_URL"),
		},
		&cli.BoolFlag{
			Name:        "insecure",
			Usage:       "Skip TLS verification (curl -k)",
			Destination: &c.Insecure,
			Sources:     cli.EnvVars("OSSRH_INSECURE"),
		},
		&cli.StringFlag{
			Name:        "curl",
			Usage:       "curl binary",
			Value:       "curl",
			Destination: &c.Curl,
			Sources:     cli.EnvVars("OSSRH_CURL"),
		},
	}
}

// NewClient creates a Nexus client running curl through runner
func (c *Nexus) NewClient(runner interfaces.CommandRunner) interfaces.NexusClient {
	return nexus.NewClient(runner, c.User, c.Password,
		nexus.WithServiceURL(c.ServiceURL),
		nexus.WithCurl(c.Curl),
		nexus.WithInsecure(c.Insecure),
	)
}
