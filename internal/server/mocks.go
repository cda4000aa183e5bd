package server

import (
	"context"

	"github.com/stretchr/testify/mock"

	"readmeforge/internal/models"
	"readmeforge/internal/session"
)

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, login, token string) (*session.Session, error) {
	args := m.Called(ctx, login, token)
	sess, _ := args.Get(0).(*session.Session)
	return sess, args.Error(1)
}

func (m *MockSessionStore) Lookup(ctx context.Context, id string) (*session.Session, error) {
	args := m.Called(ctx, id)
	sess, _ := args.Get(0).(*session.Session)
	return sess, args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

type MockReadmeGenerator struct {
	mock.Mock
}

func (m *MockReadmeGenerator) GenerateReadme(ctx context.Context, opts models.GenerationOptions, progress func(models.StageEvent)) (*models.ReadmeResult, error) {
	args := m.Called(ctx, opts, progress)
	result, _ := args.Get(0).(*models.ReadmeResult)
	return result, args.Error(1)
}

type MockPullRequestOpener struct {
	mock.Mock
}

func (m *MockPullRequestOpener) OpenPullRequest(ctx context.Context, readme, base string) (*models.PullRequestResult, error) {
	args := m.Called(ctx, readme, base)
	result, _ := args.Get(0).(*models.PullRequestResult)
	return result, args.Error(1)
}
