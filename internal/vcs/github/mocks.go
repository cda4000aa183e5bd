package github

import (
	"context"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
)

type MockRepositoriesService struct {
	mock.Mock
}

func (m *MockRepositoriesService) Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error) {
	args := m.Called(ctx, owner, repo)
	repository, _ := args.Get(0).(*github.Repository)
	resp, _ := args.Get(1).(*github.Response)
	return repository, resp, args.Error(2)
}

func (m *MockRepositoriesService) ListLanguages(ctx context.Context, owner, repo string) (map[string]int, *github.Response, error) {
	args := m.Called(ctx, owner, repo)
	languages, _ := args.Get(0).(map[string]int)
	resp, _ := args.Get(1).(*github.Response)
	return languages, resp, args.Error(2)
}

func (m *MockRepositoriesService) GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error) {
	args := m.Called(ctx, owner, repo, path, opts)
	file, _ := args.Get(0).(*github.RepositoryContent)
	dir, _ := args.Get(1).([]*github.RepositoryContent)
	resp, _ := args.Get(2).(*github.Response)
	return file, dir, resp, args.Error(3)
}

func (m *MockRepositoriesService) CreateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error) {
	args := m.Called(ctx, owner, repo, path, opts)
	content, _ := args.Get(0).(*github.RepositoryContentResponse)
	resp, _ := args.Get(1).(*github.Response)
	return content, resp, args.Error(2)
}

func (m *MockRepositoriesService) UpdateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error) {
	args := m.Called(ctx, owner, repo, path, opts)
	content, _ := args.Get(0).(*github.RepositoryContentResponse)
	resp, _ := args.Get(1).(*github.Response)
	return content, resp, args.Error(2)
}

type MockGitService struct {
	mock.Mock
}

func (m *MockGitService) GetTree(ctx context.Context, owner, repo, sha string, recursive bool) (*github.Tree, *github.Response, error) {
	args := m.Called(ctx, owner, repo, sha, recursive)
	tree, _ := args.Get(0).(*github.Tree)
	resp, _ := args.Get(1).(*github.Response)
	return tree, resp, args.Error(2)
}

func (m *MockGitService) GetRef(ctx context.Context, owner, repo, ref string) (*github.Reference, *github.Response, error) {
	args := m.Called(ctx, owner, repo, ref)
	reference, _ := args.Get(0).(*github.Reference)
	resp, _ := args.Get(1).(*github.Response)
	return reference, resp, args.Error(2)
}

func (m *MockGitService) CreateRef(ctx context.Context, owner, repo string, ref github.CreateRef) (*github.Reference, *github.Response, error) {
	args := m.Called(ctx, owner, repo, ref)
	reference, _ := args.Get(0).(*github.Reference)
	resp, _ := args.Get(1).(*github.Response)
	return reference, resp, args.Error(2)
}

func (m *MockGitService) DeleteRef(ctx context.Context, owner, repo, ref string) (*github.Response, error) {
	args := m.Called(ctx, owner, repo, ref)
	resp, _ := args.Get(0).(*github.Response)
	return resp, args.Error(1)
}

type MockPullRequestsService struct {
	mock.Mock
}

func (m *MockPullRequestsService) Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, pull)
	pr, _ := args.Get(0).(*github.PullRequest)
	resp, _ := args.Get(1).(*github.Response)
	return pr, resp, args.Error(2)
}

type MockUsersService struct {
	mock.Mock
}

func (m *MockUsersService) Get(ctx context.Context, user string) (*github.User, *github.Response, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*github.User)
	resp, _ := args.Get(1).(*github.Response)
	return u, resp, args.Error(2)
}
