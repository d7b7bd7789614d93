package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/model"
)

func fullConfig() *model.ReleaseConfig {
	return &model.ReleaseConfig{
		User:             "deployer",
		Password:         "s3cret",
		StagingProfileID: "abc123",
		GPGPassphrase:    "passphrase",
		GroupID:          "com.example",
		ProjectName:      "example",
		Modules:          []string{"example-parent", "com.example.core"},
		ReleaseVersion:   "1.0.0",
		ArtifactFolder:   "/tmp/artifacts",
	}
}

func TestParseTask(t *testing.T) {
	for _, task := range []string{"gpg", "upload", "promote"} {
		got, err := model.ParseTask(task)
		gt.NoError(t, err)
		gt.Value(t, string(got)).Equal(task)
	}

	for _, task := range []string{"", "deploy", "GPG"} {
		_, err := model.ParseTask(task)
		gt.True(t, errors.Is(err, model.ErrUnknownTask))
	}
}

func TestReleaseConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		task   model.Task
		modify func(c *model.ReleaseConfig)
		field  string
	}{
		{name: "gpg ok", task: model.TaskSign},
		{name: "gpg without passphrase", task: model.TaskSign, modify: func(c *model.ReleaseConfig) { c.GPGPassphrase = "" }, field: "GPGPASS"},
		{name: "gpg without artifact folder", task: model.TaskSign, modify: func(c *model.ReleaseConfig) { c.ArtifactFolder = "" }, field: "artifactFolder"},
		{name: "gpg ignores nexus credentials", task: model.TaskSign, modify: func(c *model.ReleaseConfig) { c.User = ""; c.Password = "" }},
		{name: "upload ok", task: model.TaskUpload},
		{name: "upload without version", task: model.TaskUpload, modify: func(c *model.ReleaseConfig) { c.ReleaseVersion = "" }, field: "releaseVersion"},
		{name: "upload without user", task: model.TaskUpload, modify: func(c *model.ReleaseConfig) { c.User = "" }, field: "NEXUS_OSSRHUSER"},
		{name: "upload without password", task: model.TaskUpload, modify: func(c *model.ReleaseConfig) { c.Password = "" }, field: "NEXUS_OSSRHPASS"},
		{name: "upload without profile", task: model.TaskUpload, modify: func(c *model.ReleaseConfig) { c.StagingProfileID = "" }, field: "NEXUS_STAGINGPROFILEID"},
		{name: "upload without modules", task: model.TaskUpload, modify: func(c *model.ReleaseConfig) { c.Modules = nil }, field: "modules"},
		{name: "promote ok", task: model.TaskPromote, modify: func(c *model.ReleaseConfig) { c.ArtifactFolder = ""; c.GPGPassphrase = "" }},
		{name: "promote without profile", task: model.TaskPromote, modify: func(c *model.ReleaseConfig) { c.StagingProfileID = "" }, field: "NEXUS_STAGINGPROFILEID"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := fullConfig()
			if tc.modify != nil {
				tc.modify(cfg)
			}

			err := cfg.Validate(tc.task)
			if tc.field == "" {
				gt.NoError(t, err)
				return
			}
			gt.True(t, errors.Is(err, model.ErrConfiguration))
			gt.String(t, err.Error()).Contains(tc.field)
		})
	}

	t.Run("missing modules names the field", func(t *testing.T) {
		cfg := fullConfig()
		cfg.Modules = nil
		err := cfg.Validate(model.TaskUpload)
		gt.True(t, errors.Is(err, model.ErrConfiguration))
		gt.Value(t, err.Error()).Equal("modules is not set: required configuration is missing")
	})

	t.Run("unknown task", func(t *testing.T) {
		err := fullConfig().Validate(model.Task("deploy"))
		gt.True(t, errors.Is(err, model.ErrUnknownTask))
	})
}

func TestReleaseConfig_Paths(t *testing.T) {
	cfg := fullConfig()
	gt.Value(t, cfg.GroupPath()).Equal("com/example")
	gt.Value(t, cfg.Description()).Equal("example-1.0.0")
}
