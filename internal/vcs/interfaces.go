package vcs

import (
	"context"

	"readmeforge/internal/models"
)

// RepositoryClient defines everything readmeforge needs from a version
// control provider, both the read path used to build a snapshot and the
// write path used to open a pull request.
type RepositoryClient interface {
	// GetRepository gets the repository facts (name, stars, license, default branch).
	GetRepository(ctx context.Context) (*models.RepositoryMetadata, error)
	// ListLanguages gets bytes of code per language.
	ListLanguages(ctx context.Context) (map[string]int64, error)
	// GetTree walks the tree of the given ref recursively, split into files and directories.
	GetTree(ctx context.Context, ref string) (*models.RepositoryTree, error)
	// GetFileContent gets the decoded content of one file at the given ref.
	GetFileContent(ctx context.Context, path, ref string) (string, error)
	// GetRef resolves a branch name to its commit SHA.
	GetRef(ctx context.Context, branch string) (string, error)
	// CreateRef creates a new branch pointing at the given SHA.
	CreateRef(ctx context.Context, branch, sha string) error
	// DeleteRef deletes a branch.
	DeleteRef(ctx context.Context, branch string) error
	// GetFileSHA gets the blob SHA of a file, needed to update it in place.
	GetFileSHA(ctx context.Context, path, ref string) (string, error)
	// CreateOrUpdateFile commits content to path on the given branch. An empty
	// sha creates the file, a non-empty one replaces that blob.
	CreateOrUpdateFile(ctx context.Context, branch, path, message, content, sha string) error
	// CreatePullRequest opens a pull request from head into base.
	CreatePullRequest(ctx context.Context, title, body, head, base string) (*models.PullRequestResult, error)
	// GetAuthenticatedUser gets the login of the token's owner.
	GetAuthenticatedUser(ctx context.Context) (string, error)
}
