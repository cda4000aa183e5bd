package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"readmeforge/internal/models"
)

type MockVCSClient struct {
	mock.Mock
}

func (m *MockVCSClient) GetRepository(ctx context.Context) (*models.RepositoryMetadata, error) {
	args := m.Called(ctx)
	meta, _ := args.Get(0).(*models.RepositoryMetadata)
	return meta, args.Error(1)
}

func (m *MockVCSClient) ListLanguages(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	languages, _ := args.Get(0).(map[string]int64)
	return languages, args.Error(1)
}

func (m *MockVCSClient) GetTree(ctx context.Context, ref string) (*models.RepositoryTree, error) {
	args := m.Called(ctx, ref)
	tree, _ := args.Get(0).(*models.RepositoryTree)
	return tree, args.Error(1)
}

func (m *MockVCSClient) GetFileContent(ctx context.Context, path, ref string) (string, error) {
	args := m.Called(ctx, path, ref)
	return args.String(0), args.Error(1)
}

func (m *MockVCSClient) GetRef(ctx context.Context, branch string) (string, error) {
	args := m.Called(ctx, branch)
	return args.String(0), args.Error(1)
}

func (m *MockVCSClient) CreateRef(ctx context.Context, branch, sha string) error {
	args := m.Called(ctx, branch, sha)
	return args.Error(0)
}

func (m *MockVCSClient) DeleteRef(ctx context.Context, branch string) error {
	args := m.Called(ctx, branch)
	return args.Error(0)
}

func (m *MockVCSClient) GetFileSHA(ctx context.Context, path, ref string) (string, error) {
	args := m.Called(ctx, path, ref)
	return args.String(0), args.Error(1)
}

func (m *MockVCSClient) CreateOrUpdateFile(ctx context.Context, branch, path, message, content, sha string) error {
	args := m.Called(ctx, branch, path, message, content, sha)
	return args.Error(0)
}

func (m *MockVCSClient) CreatePullRequest(ctx context.Context, title, body, head, base string) (*models.PullRequestResult, error) {
	args := m.Called(ctx, title, body, head, base)
	result, _ := args.Get(0).(*models.PullRequestResult)
	return result, args.Error(1)
}

func (m *MockVCSClient) GetAuthenticatedUser(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockReadmeGenerator struct {
	mock.Mock
}

func (m *MockReadmeGenerator) GenerateReadme(ctx context.Context, prompt string) (string, *models.TokenUsage, error) {
	args := m.Called(ctx, prompt)
	usage, _ := args.Get(1).(*models.TokenUsage)
	return args.String(0), usage, args.Error(2)
}

type MockSnapshotAggregator struct {
	mock.Mock
}

func (m *MockSnapshotAggregator) Aggregate(ctx context.Context, progress func(models.StageEvent)) (*models.RepositorySnapshot, error) {
	args := m.Called(ctx, progress)
	snapshot, _ := args.Get(0).(*models.RepositorySnapshot)
	return snapshot, args.Error(1)
}
