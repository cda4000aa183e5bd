package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainErrors "readmeforge/internal/errors"
	"readmeforge/internal/models"
)

func aggregatorFixture() (*AggregatorService, *MockVCSClient) {
	mockVCS := new(MockVCSClient)
	service := NewAggregatorService(WithAggregatorVCSClient(mockVCS))
	return service, mockVCS
}

func testMetadata() *models.RepositoryMetadata {
	return &models.RepositoryMetadata{
		Name:          "widget",
		FullName:      "acme/widget",
		Owner:         "acme",
		DefaultBranch: "main",
		License:       "MIT",
		Stars:         10,
	}
}

func TestAggregatorService_Aggregate(t *testing.T) {
	t.Run("should announce the stages in order", func(t *testing.T) {
		service, mockVCS := aggregatorFixture()
		mockVCS.On("GetRepository", mock.Anything).Return(testMetadata(), nil)
		mockVCS.On("ListLanguages", mock.Anything).Return(map[string]int64{"Go": 500}, nil)
		mockVCS.On("GetTree", mock.Anything, "main").Return(&models.RepositoryTree{Files: []string{"go.mod"}}, nil)
		mockVCS.On("GetFileContent", mock.Anything, "go.mod", "main").Return("module acme/widget\n", nil)

		var stages []models.StageEventType
		snapshot, err := service.Aggregate(context.Background(), func(event models.StageEvent) {
			stages = append(stages, event.Type)
		})

		require.NoError(t, err)
		assert.Equal(t, []models.StageEventType{
			models.StageRepoMetadata,
			models.StageLanguages,
			models.StageFileTree,
			models.StageConfigFiles,
			models.StageAssemble,
		}, stages)
		assert.Equal(t, "acme/widget", snapshot.FullName)
		assert.Equal(t, map[string]int64{"Go": 500}, snapshot.Languages)
	})

	t.Run("should report how many manifests it is about to fetch", func(t *testing.T) {
		service, mockVCS := aggregatorFixture()
		mockVCS.On("GetRepository", mock.Anything).Return(testMetadata(), nil)
		mockVCS.On("ListLanguages", mock.Anything).Return(map[string]int64{"Go": 500}, nil)
		mockVCS.On("GetTree", mock.Anything, "main").
			Return(&models.RepositoryTree{Files: []string{"go.mod", "Makefile", "main.go"}}, nil)
		mockVCS.On("GetFileContent", mock.Anything, mock.Anything, "main").Return("content", nil)

		var configEvent models.StageEvent
		_, err := service.Aggregate(context.Background(), func(event models.StageEvent) {
			if event.Type == models.StageConfigFiles {
				configEvent = event
			}
		})

		require.NoError(t, err)
		assert.Equal(t, 2, configEvent.Data["count"], "main.go is not a manifest")
	})

	t.Run("should fail when metadata cannot be fetched", func(t *testing.T) {
		service, mockVCS := aggregatorFixture()
		mockVCS.On("GetRepository", mock.Anything).Return(nil, domainErrors.ErrRepoNotFound)

		snapshot, err := service.Aggregate(context.Background(), nil)

		assert.Nil(t, snapshot)
		assert.ErrorIs(t, err, domainErrors.ErrRepoNotFound)
		mockVCS.AssertNumberOfCalls(t, "ListLanguages", 0)
	})

	t.Run("should fail when languages cannot be fetched", func(t *testing.T) {
		service, mockVCS := aggregatorFixture()
		mockVCS.On("GetRepository", mock.Anything).Return(testMetadata(), nil)
		mockVCS.On("ListLanguages", mock.Anything).Return(nil, domainErrors.ErrServerUnavailable)

		snapshot, err := service.Aggregate(context.Background(), nil)

		assert.Nil(t, snapshot)
		assert.ErrorIs(t, err, domainErrors.ErrServerUnavailable)
		mockVCS.AssertNumberOfCalls(t, "GetTree", 0)
	})

	t.Run("should continue with an empty tree when the listing fails", func(t *testing.T) {
		service, mockVCS := aggregatorFixture()
		mockVCS.On("GetRepository", mock.Anything).Return(testMetadata(), nil)
		mockVCS.On("ListLanguages", mock.Anything).Return(map[string]int64{"Go": 500}, nil)
		mockVCS.On("GetTree", mock.Anything, "main").Return(nil, domainErrors.ErrServerUnavailable)

		snapshot, err := service.Aggregate(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, snapshot.Files)
		assert.Empty(t, snapshot.Directories)
		assert.Empty(t, snapshot.ConfigFiles)
		mockVCS.AssertNumberOfCalls(t, "GetFileContent", 0)
	})

	t.Run("should keep partial results when a manifest fetch fails", func(t *testing.T) {
		service, mockVCS := aggregatorFixture()
		mockVCS.On("GetRepository", mock.Anything).Return(testMetadata(), nil)
		mockVCS.On("ListLanguages", mock.Anything).Return(map[string]int64{"Go": 500}, nil)
		mockVCS.On("GetTree", mock.Anything, "main").
			Return(&models.RepositoryTree{Files: []string{"go.mod", "package.json", "Makefile"}}, nil)
		mockVCS.On("GetFileContent", mock.Anything, "go.mod", "main").Return("module acme/widget\n", nil)
		mockVCS.On("GetFileContent", mock.Anything, "package.json", "main").Return("", domainErrors.ErrRateLimited)
		mockVCS.On("GetFileContent", mock.Anything, "Makefile", "main").Return("build:\n\tgo build ./...\n", nil)

		snapshot, err := service.Aggregate(context.Background(), nil)

		require.NoError(t, err)
		assert.Len(t, snapshot.ConfigFiles, 2)
		assert.Contains(t, snapshot.ConfigFiles, "go.mod")
		assert.Contains(t, snapshot.ConfigFiles, "Makefile")
		assert.Len(t, snapshot.ConfigErrors, 1)
		assert.Contains(t, snapshot.ConfigErrors, "package.json")
	})

	t.Run("should truncate oversized manifests", func(t *testing.T) {
		service, mockVCS := aggregatorFixture()
		mockVCS.On("GetRepository", mock.Anything).Return(testMetadata(), nil)
		mockVCS.On("ListLanguages", mock.Anything).Return(map[string]int64{"Go": 500}, nil)
		mockVCS.On("GetTree", mock.Anything, "main").Return(&models.RepositoryTree{Files: []string{"Makefile"}}, nil)
		mockVCS.On("GetFileContent", mock.Anything, "Makefile", "main").
			Return(strings.Repeat("x", maxConfigChars+500), nil)

		snapshot, err := service.Aggregate(context.Background(), nil)

		require.NoError(t, err)
		content := snapshot.ConfigFiles["Makefile"]
		assert.True(t, strings.HasSuffix(content, truncationMarker))
		assert.Len(t, []rune(content), maxConfigChars+len([]rune(truncationMarker)))
	})

	t.Run("should cap the tree and flag the snapshot as truncated", func(t *testing.T) {
		service, mockVCS := aggregatorFixture()
		files := make([]string, 0, 200)
		for i := 0; i < 200; i++ {
			files = append(files, fmt.Sprintf("pkg/file_%03d.go", i))
		}
		dirs := make([]string, 0, 80)
		for i := 0; i < 80; i++ {
			dirs = append(dirs, fmt.Sprintf("pkg/sub_%02d", i))
		}
		mockVCS.On("GetRepository", mock.Anything).Return(testMetadata(), nil)
		mockVCS.On("ListLanguages", mock.Anything).Return(map[string]int64{"Go": 500}, nil)
		mockVCS.On("GetTree", mock.Anything, "main").
			Return(&models.RepositoryTree{Files: files, Directories: dirs}, nil)

		snapshot, err := service.Aggregate(context.Background(), nil)

		require.NoError(t, err)
		assert.Len(t, snapshot.Files, maxSnapshotFiles)
		assert.Len(t, snapshot.Directories, maxSnapshotDirs)
		assert.True(t, snapshot.Truncated)
	})

	t.Run("should carry github's own truncation flag", func(t *testing.T) {
		service, mockVCS := aggregatorFixture()
		mockVCS.On("GetRepository", mock.Anything).Return(testMetadata(), nil)
		mockVCS.On("ListLanguages", mock.Anything).Return(map[string]int64{"Go": 500}, nil)
		mockVCS.On("GetTree", mock.Anything, "main").
			Return(&models.RepositoryTree{Files: []string{"main.go"}, Truncated: true}, nil)

		snapshot, err := service.Aggregate(context.Background(), nil)

		require.NoError(t, err)
		assert.True(t, snapshot.Truncated)
	})

	t.Run("should parse dependencies out of the fetched manifests", func(t *testing.T) {
		service, mockVCS := aggregatorFixture()
		goMod := "module acme/widget\n\ngo 1.24.0\n\nrequire (\n\tgithub.com/gofiber/fiber/v2 v2.52.6\n\tgithub.com/stretchr/testify v1.10.0\n)\n"
		mockVCS.On("GetRepository", mock.Anything).Return(testMetadata(), nil)
		mockVCS.On("ListLanguages", mock.Anything).Return(map[string]int64{"Go": 500}, nil)
		mockVCS.On("GetTree", mock.Anything, "main").Return(&models.RepositoryTree{Files: []string{"go.mod"}}, nil)
		mockVCS.On("GetFileContent", mock.Anything, "go.mod", "main").Return(goMod, nil)

		snapshot, err := service.Aggregate(context.Background(), nil)

		require.NoError(t, err)
		assert.Contains(t, snapshot.Dependencies, "github.com/gofiber/fiber/v2")
		assert.Contains(t, snapshot.Dependencies, "github.com/stretchr/testify")
	})

	t.Run("should redact credentials from recorded fetch errors", func(t *testing.T) {
		service, mockVCS := aggregatorFixture()
		leaky := errors.New("403 forbidden: token ghp_" + strings.Repeat("a", 36) + " rejected")
		mockVCS.On("GetRepository", mock.Anything).Return(testMetadata(), nil)
		mockVCS.On("ListLanguages", mock.Anything).Return(map[string]int64{"Go": 500}, nil)
		mockVCS.On("GetTree", mock.Anything, "main").Return(&models.RepositoryTree{Files: []string{"go.mod"}}, nil)
		mockVCS.On("GetFileContent", mock.Anything, "go.mod", "main").Return("", leaky)

		snapshot, err := service.Aggregate(context.Background(), nil)

		require.NoError(t, err)
		recorded := snapshot.ConfigErrors["go.mod"]
		assert.Contains(t, recorded, "[REDACTED]")
		assert.NotContains(t, recorded, "ghp_")
	})
}
