package usecase_test

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/model"
)

// MockNexusClient is a mock implementation of NexusClient
type MockNexusClient struct {
	startFunc      func(ctx context.Context, profileID, description string) (string, error)
	finishFunc     func(ctx context.Context, profileID, repositoryID string) (string, error)
	promoteFunc    func(ctx context.Context, profileID, repositoryID string) (string, error)
	repositoryFunc func(ctx context.Context, repositoryID string) (string, error)
	activityFunc   func(ctx context.Context, repositoryID string) (string, error)
	uploadFunc     func(ctx context.Context, repositoryID, remotePath, localPath string) (string, error)

	calls   []string
	uploads []string
}

func (m *MockNexusClient) StartStaging(ctx context.Context, profileID, description string) (string, error) {
	m.calls = append(m.calls, "start")
	if m.startFunc != nil {
		return m.startFunc(ctx, profileID, description)
	}
	return "", errors.New("mock not configured")
}

func (m *MockNexusClient) FinishStaging(ctx context.Context, profileID, repositoryID string) (string, error) {
	m.calls = append(m.calls, "finish")
	if m.finishFunc != nil {
		return m.finishFunc(ctx, profileID, repositoryID)
	}
	return "", nil
}

func (m *MockNexusClient) PromoteStaging(ctx context.Context, profileID, repositoryID string) (string, error) {
	m.calls = append(m.calls, "promote")
	if m.promoteFunc != nil {
		return m.promoteFunc(ctx, profileID, repositoryID)
	}
	return "HTTP/2 201 \r\n\r\n", nil
}

func (m *MockNexusClient) GetRepository(ctx context.Context, repositoryID string) (string, error) {
	m.calls = append(m.calls, "repository")
	if m.repositoryFunc != nil {
		return m.repositoryFunc(ctx, repositoryID)
	}
	return "", errors.New("mock not configured")
}

func (m *MockNexusClient) GetActivity(ctx context.Context, repositoryID string) (string, error) {
	m.calls = append(m.calls, "activity")
	if m.activityFunc != nil {
		return m.activityFunc(ctx, repositoryID)
	}
	return "<list/>", nil
}

func (m *MockNexusClient) Upload(ctx context.Context, repositoryID, remotePath, localPath string) (string, error) {
	m.calls = append(m.calls, "upload")
	m.uploads = append(m.uploads, remotePath)
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, repositoryID, remotePath, localPath)
	}
	return "", nil
}

func (m *MockNexusClient) count(call string) int {
	var n int
	for _, c := range m.calls {
		if c == call {
			n++
		}
	}
	return n
}

// statusSequence returns a repositoryFunc replying with statuses in order,
// repeating the last one
func statusSequence(statuses ...string) func(ctx context.Context, repositoryID string) (string, error) {
	var i int
	return func(ctx context.Context, repositoryID string) (string, error) {
		status := statuses[min(i, len(statuses)-1)]
		i++
		return "<stagingProfileRepository><repositoryId>" + repositoryID +
			"</repositoryId><type>" + status + "</type></stagingProfileRepository>", nil
	}
}

// MockRunner emulates md5sum, sha1sum and gpg on the local filesystem
type MockRunner struct {
	runFunc func(ctx context.Context, cmd *model.Command) (string, error)
	calls   []*model.Command
}

func (m *MockRunner) Run(ctx context.Context, cmd *model.Command) (string, error) {
	m.calls = append(m.calls, cmd)
	if m.runFunc != nil {
		return m.runFunc(ctx, cmd)
	}
	return fakeTools(cmd)
}

func fakeTools(cmd *model.Command) (string, error) {
	file := cmd.Args[len(cmd.Args)-1]
	switch cmd.Name {
	case "md5sum":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		sum := md5.Sum(data)
		return hex.EncodeToString(sum[:]) + "  " + file + "\n", nil
	case "sha1sum":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		sum := sha1.Sum(data)
		return hex.EncodeToString(sum[:]) + "  " + file + "\n", nil
	case "gpg":
		return "", os.WriteFile(file+".asc", []byte("-----BEGIN PGP SIGNATURE-----\n"+filepath.Base(file)+"\n"), 0644)
	}
	return "", errors.New("unexpected command: " + cmd.Name)
}

func (m *MockRunner) count(name string) int {
	var n int
	for _, c := range m.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

func noSleep(ctx context.Context, d time.Duration) error {
	return nil
}

// setupArtifacts creates one directory per module with a jar and a pom
func setupArtifacts(t *testing.T, modules ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, module := range modules {
		dir := filepath.Join(root, module)
		gt.NoError(t, os.MkdirAll(dir, 0755))
		gt.NoError(t, os.WriteFile(filepath.Join(dir, module+"-1.0.0.jar"), []byte("jar of "+module), 0644))
		gt.NoError(t, os.WriteFile(filepath.Join(dir, module+"-1.0.0.pom"), []byte("<project>"+module+"</project>"), 0644))
	}
	return root
}

func newConfig(root string, modules ...string) *model.ReleaseConfig {
	return &model.ReleaseConfig{
		User:             "deployer",
		Password:         "s3cret",
		StagingProfileID: "abc123",
		GPGPassphrase:    "gpg-s3cret",
		GroupID:          "com.example",
		ProjectName:      "example",
		Modules:          modules,
		ReleaseVersion:   "1.0.0",
		ArtifactFolder:   root,
		ContentURL:       model.DefaultContentURL,
		MarkerFile:       filepath.Join(root, model.DefaultMarkerFile),
		Close:            model.DefaultPollingPolicy(),
		Promote:          model.DefaultPollingPolicy(),
	}
}

func readDir(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	gt.NoError(t, err)

	files := map[string]string{}
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		gt.NoError(t, err)
		files[e.Name()] = strings.TrimSpace(string(data))
	}
	return files
}
