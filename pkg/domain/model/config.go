package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Task is a unit of work selected on the command line
type Task string

const (
	TaskSign    Task = "gpg"
	TaskUpload  Task = "upload"
	TaskPromote Task = "promote"
)

// Tasks lists every supported task in usage order
var Tasks = []Task{TaskSign, TaskUpload, TaskPromote}

// ParseTask converts a command line value into a Task
func ParseTask(s string) (Task, error) {
	for _, t := range Tasks {
		if string(t) == s {
			return t, nil
		}
	}
	return "", goerr.Wrap(ErrUnknownTask, "task is not supported", goerr.V("task", s))
}

// PollingPolicy bounds a status polling loop
type PollingPolicy struct {
	MaxPollings int
	Interval    time.Duration
}

const (
	DefaultMaxPollings     = 10
	DefaultPollingInterval = 6 * time.Second
	DefaultMarkerFile      = ".stagingRepoId"
	DefaultServiceURL      = "https://oss.sonatype.org/service/local"
	DefaultContentURL      = "https://oss.sonatype.org/content"
)

// DefaultPollingPolicy returns the policy used for both close and promote
func DefaultPollingPolicy() PollingPolicy {
	return PollingPolicy{
		MaxPollings: DefaultMaxPollings,
		Interval:    DefaultPollingInterval,
	}
}

// ReleaseConfig holds every value gathered at startup. It is not modified
// after construction; the staging repository id created during a run is
// passed around explicitly.
type ReleaseConfig struct {
	User             string
	Password         string `masq:"secret"`
	StagingProfileID string
	StagingRepoID    string
	GPGPassphrase    string `masq:"secret"`
	GroupID          string
	ProjectName      string
	Modules          []string
	ReleaseVersion   string
	ArtifactFolder   string

	ServiceURL string
	ContentURL string
	MarkerFile string
	Insecure   bool

	Close   PollingPolicy
	Promote PollingPolicy
}

// GroupPath converts the group id into a repository path, e.g. com/example
func (c *ReleaseConfig) GroupPath() string {
	return strings.ReplaceAll(c.GroupID, ".", "/")
}

// Description is the staging repository description sent on creation
func (c *ReleaseConfig) Description() string {
	return c.ProjectName + "-" + c.ReleaseVersion
}

type requiredField struct {
	name  string
	value func(c *ReleaseConfig) string
}

var (
	fieldArtifactFolder = requiredField{"artifactFolder", func(c *ReleaseConfig) string { return c.ArtifactFolder }}
	fieldGPGPass        = requiredField{"GPGPASS", func(c *ReleaseConfig) string { return c.GPGPassphrase }}
	fieldReleaseVersion = requiredField{"releaseVersion", func(c *ReleaseConfig) string { return c.ReleaseVersion }}
	fieldUser           = requiredField{"NEXUS_OSSRHUSER", func(c *ReleaseConfig) string { return c.User }}
	fieldPassword       = requiredField{"NEXUS_OSSRHPASS", func(c *ReleaseConfig) string { return c.Password }}
	fieldProfileID      = requiredField{"NEXUS_STAGINGPROFILEID", func(c *ReleaseConfig) string { return c.StagingProfileID }}
)

var requiredFields = map[Task][]requiredField{
	TaskSign:    {fieldArtifactFolder, fieldGPGPass},
	TaskUpload:  {fieldReleaseVersion, fieldArtifactFolder, fieldUser, fieldPassword, fieldProfileID, fieldGPGPass},
	TaskPromote: {fieldUser, fieldPassword, fieldProfileID},
}

// Validate checks that every field the task needs is set. The staging
// repository id of the promote task is resolved later because it may come
// from the marker file.
func (c *ReleaseConfig) Validate(task Task) error {
	fields, ok := requiredFields[task]
	if !ok {
		return goerr.Wrap(ErrUnknownTask, "task is not supported", goerr.V("task", task))
	}

	for _, f := range fields {
		if f.value(c) == "" {
			return goerr.Wrap(ErrConfiguration, f.name+" is not set", goerr.V("field", f.name), goerr.V("task", task))
		}
	}

	if task != TaskPromote && len(c.Modules) == 0 {
		return goerr.Wrap(ErrConfiguration, "modules is not set", goerr.V("field", "modules"), goerr.V("task", task))
	}

	return nil
}
