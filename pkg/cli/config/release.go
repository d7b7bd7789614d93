package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/model"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Release holds the project and artifact configuration
type Release struct {
	ArtifactFolder string
	ReleaseVersion string
	GroupID        string
	ProjectName    string
	Modules        []string
	MarkerFile     string
	ProjectFile    string

	ClosePollings   int
	CloseInterval   time.Duration
	PromotePollings int
	PromoteInterval time.Duration
}

// ProjectFile is the TOML project descriptor. Non-empty values override the
// flag defaults but not flags given explicitly.
type ProjectFile struct {
	GroupID     string   `toml:"group_id"`
	ProjectName string   `toml:"project_name"`
	Modules     []string `toml:"modules"`
}

// Flags returns CLI flags for release configuration
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "artifact-folder",
			Usage:       "Folder with one sub directory of *.jar/*.pom files per module",
			Destination: &c.ArtifactFolder,
			Sources:     cli.EnvVars("artifactFolder"),
		},
		&cli.StringFlag{
			Name:        "release-version",
			Usage:       "Version of the artifacts",
			Destination: &c.ReleaseVersion,
			Sources:     cli.EnvVars("releaseVersion"),
		},
		&cli.StringFlag{
			Name:        "group-id",
			Usage:       "Maven group id",
			Value:       "com.microsoft.java",
			Destination: &c.GroupID,
			Sources:     cli.EnvVars("OSSRH_GROUP_ID"),
		},
		&cli.StringFlag{
			Name:        "project-name",
			Usage:       "Project name used in the staging repository description",
			Value:       "java-debug",
			Destination: &c.ProjectName,
			Sources:     cli.EnvVars("OSSRH_PROJECT_NAME"),
		},
		&cli.StringSliceFlag{
			Name:        "module",
			Usage:       "Module directory under the artifact folder, in upload order",
			Value:       []string{"java-debug-parent", "com.microsoft.java.debug.core", "com.microsoft.java.debug.plugin"},
			Destination: &c.Modules,
			Sources:     cli.EnvVars("OSSRH_MODULES"),
		},
		&cli.StringFlag{
			Name:        "marker-file",
			Usage:       "File recording the closed staging repository id",
			Value:       model.DefaultMarkerFile,
			Destination: &c.MarkerFile,
			Sources:     cli.EnvVars("OSSRH_MARKER_FILE"),
		},
		&cli.StringFlag{
			Name:        "project-file",
			Usage:       "TOML project descriptor (group_id, project_name, modules)",
			Destination: &c.ProjectFile,
			Sources:     cli.EnvVars("OSSRH_PROJECT_FILE"),
		},
		&cli.IntFlag{
			Name:        "close-pollings",
			Usage:       "Maximum status polls while waiting for close",
			Value:       model.DefaultMaxPollings,
			Destination: &c.ClosePollings,
			Sources:     cli.EnvVars("OSSRH_CLOSE_POLLINGS"),
		},
		&cli.DurationFlag{
			Name:        "close-interval",
			Usage:       "Wait between close status polls",
			Value:       model.DefaultPollingInterval,
			Destination: &c.CloseInterval,
			Sources:     cli.EnvVars("OSSRH_CLOSE_INTERVAL"),
		},
		&cli.IntFlag{
			Name:        "promote-pollings",
			Usage:       "Maximum status polls while waiting for release",
			Value:       model.DefaultMaxPollings,
			Destination: &c.PromotePollings,
			Sources:     cli.EnvVars("OSSRH_PROMOTE_POLLINGS"),
		},
		&cli.DurationFlag{
			Name:        "promote-interval",
			Usage:       "Wait between release status polls",
			Value:       model.DefaultPollingInterval,
			Destination: &c.PromoteInterval,
			Sources:     cli.EnvVars("OSSRH_PROMOTE_INTERVAL"),
		},
	}
}

// LoadProjectFile applies the project descriptor. isSet reports whether a
// flag was given explicitly.
func (c *Release) LoadProjectFile(isSet func(name string) bool) error {
	if c.ProjectFile == "" {
		return nil
	}

	data, err := os.ReadFile(c.ProjectFile)
	if err != nil {
		return goerr.Wrap(err, "failed to read project file", goerr.V("path", c.ProjectFile))
	}

	var pf ProjectFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return goerr.Wrap(err, "failed to parse project file", goerr.V("path", c.ProjectFile))
	}

	if pf.GroupID != "" && !isSet("group-id") {
		c.GroupID = pf.GroupID
	}
	if pf.ProjectName != "" && !isSet("project-name") {
		c.ProjectName = pf.ProjectName
	}
	if len(pf.Modules) > 0 && !isSet("module") {
		c.Modules = pf.Modules
	}
	return nil
}

// Build assembles the immutable release configuration
func Build(release *Release, nexus *Nexus, gpg *GPG) *model.ReleaseConfig {
	return &model.ReleaseConfig{
		User:             nexus.User,
		Password:         nexus.Password,
		StagingProfileID: nexus.StagingProfileID,
		StagingRepoID:    nexus.StagingRepoID,
		GPGPassphrase:    gpg.Passphrase,
		GroupID:          release.GroupID,
		ProjectName:      release.ProjectName,
		Modules:          release.Modules,
		ReleaseVersion:   release.ReleaseVersion,
		ArtifactFolder:   release.ArtifactFolder,
		ServiceURL:       nexus.ServiceURL,
		ContentURL:       nexus.ContentURL,
		MarkerFile:       release.MarkerFile,
		Insecure:         nexus.Insecure,
		Close: model.PollingPolicy{
			MaxPollings: release.ClosePollings,
			Interval:    release.CloseInterval,
		},
		Promote: model.PollingPolicy{
			MaxPollings: release.PromotePollings,
			Interval:    release.PromoteInterval,
		},
	}
}
