package interfaces

import (
	"context"
)

// NexusClient issues requests against the Nexus staging API and returns raw
// response bodies
type NexusClient interface {
	// StartStaging creates a staging repository in the profile
	StartStaging(ctx context.Context, profileID, description string) (string, error)

	// FinishStaging closes the staging repository
	FinishStaging(ctx context.Context, profileID, repositoryID string) (string, error)

	// PromoteStaging releases the staging repository. The response includes
	// HTTP headers.
	PromoteStaging(ctx context.Context, profileID, repositoryID string) (string, error)

	// GetRepository fetches the repository status document
	GetRepository(ctx context.Context, repositoryID string) (string, error)

	// GetActivity fetches the repository activity feed
	GetActivity(ctx context.Context, repositoryID string) (string, error)

	// Upload uploads a local file to remotePath under the repository
	Upload(ctx context.Context, repositoryID, remotePath, localPath string) (string, error)
}
