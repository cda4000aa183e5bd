package services

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	domainErrors "readmeforge/internal/errors"
	"readmeforge/internal/logger"
	"readmeforge/internal/manifest"
	"readmeforge/internal/models"
	"readmeforge/internal/regex"
)

// aggregatorVCSClient defines the read operations the aggregator needs from
// a VCS provider.
type aggregatorVCSClient interface {
	GetRepository(ctx context.Context) (*models.RepositoryMetadata, error)
	ListLanguages(ctx context.Context) (map[string]int64, error)
	GetTree(ctx context.Context, ref string) (*models.RepositoryTree, error)
	GetFileContent(ctx context.Context, path, ref string) (string, error)
}

const (
	// Caps keep the snapshot, and with it the compiled prompt, bounded on
	// monorepo-sized trees.
	maxSnapshotFiles = 150
	maxSnapshotDirs  = 50

	// maxConfigChars bounds each manifest before it enters the snapshot.
	maxConfigChars   = 2000
	truncationMarker = "\n(truncated)"

	configFetchWorkers = 4
)

// AggregatorService assembles a repository snapshot out of several GitHub
// reads. Metadata and languages are required, everything after that is
// best effort.
type AggregatorService struct {
	vcsClient aggregatorVCSClient
	analyzers *manifest.AnalyzerRegistry
}

type AggregatorOption func(*AggregatorService)

func WithAggregatorVCSClient(vcs aggregatorVCSClient) AggregatorOption {
	return func(s *AggregatorService) {
		s.vcsClient = vcs
	}
}

func WithAnalyzerRegistry(registry *manifest.AnalyzerRegistry) AggregatorOption {
	return func(s *AggregatorService) {
		s.analyzers = registry
	}
}

func NewAggregatorService(opts ...AggregatorOption) *AggregatorService {
	s := &AggregatorService{
		analyzers: manifest.NewAnalyzerRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Aggregate walks the pipeline stages in order and announces each one
// through progress before running it. The returned snapshot is complete as
// far as the repository allowed: a missing tree or unreadable manifests
// degrade it instead of failing it.
func (s *AggregatorService) Aggregate(ctx context.Context, progress func(models.StageEvent)) (*models.RepositorySnapshot, error) {
	log := logger.FromContext(ctx)

	if s.vcsClient == nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeInternal, "aggregator has no VCS client", nil)
	}

	emit(progress, models.StageEvent{Type: models.StageRepoMetadata, Message: "Fetching repository metadata"})
	meta, err := s.vcsClient.GetRepository(ctx)
	if err != nil {
		return nil, err
	}

	emit(progress, models.StageEvent{Type: models.StageLanguages, Message: "Fetching language breakdown"})
	languages, err := s.vcsClient.ListLanguages(ctx)
	if err != nil {
		return nil, err
	}

	emit(progress, models.StageEvent{Type: models.StageFileTree, Message: "Listing the file tree"})
	tree, err := s.vcsClient.GetTree(ctx, meta.DefaultBranch)
	if err != nil {
		log.Warn("file tree unavailable, continuing without it",
			"ref", meta.DefaultBranch,
			"error", regex.Redact(err.Error()))
		tree = &models.RepositoryTree{}
	}

	wanted := manifest.Select(tree.Files)
	emit(progress, models.StageEvent{
		Type:    models.StageConfigFiles,
		Message: "Fetching manifest files",
		Data:    map[string]interface{}{"count": len(wanted)},
	})
	configs, configErrs := s.fetchConfigFiles(ctx, wanted, meta.DefaultBranch)

	emit(progress, models.StageEvent{Type: models.StageAssemble, Message: "Assembling the snapshot"})
	snapshot := &models.RepositorySnapshot{
		RepositoryMetadata: *meta,
		Languages:          languages,
		ConfigFiles:        configs,
		ConfigErrors:       configErrs,
		Dependencies:       s.analyzers.Dependencies(configs),
	}
	applyTreeCaps(snapshot, tree)

	log.Info("snapshot assembled",
		"full_name", meta.FullName,
		"files", len(snapshot.Files),
		"directories", len(snapshot.Directories),
		"config_files", len(configs),
		"truncated", snapshot.Truncated)
	return snapshot, nil
}

// fetchConfigFiles pulls the selected manifests in parallel. A file that
// cannot be read is recorded and skipped, never fatal.
func (s *AggregatorService) fetchConfigFiles(ctx context.Context, paths []string, ref string) (map[string]string, map[string]string) {
	log := logger.FromContext(ctx)

	configs := make(map[string]string, len(paths))
	configErrs := make(map[string]string)
	if len(paths) == 0 {
		return configs, configErrs
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(configFetchWorkers)

	for _, path := range paths {
		g.Go(func() error {
			content, err := s.vcsClient.GetFileContent(gctx, path, ref)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("manifest fetch failed",
					"path", path,
					"error", regex.Redact(err.Error()))
				configErrs[path] = regex.Redact(err.Error())
				return nil
			}
			configs[path] = truncateConfig(content)
			return nil
		})
	}
	_ = g.Wait()

	return configs, configErrs
}

// truncateConfig cuts a manifest down to maxConfigChars runes and marks
// the cut.
func truncateConfig(content string) string {
	runes := []rune(content)
	if len(runes) <= maxConfigChars {
		return content
	}
	return string(runes[:maxConfigChars]) + truncationMarker
}

// applyTreeCaps copies the tree into the snapshot, bounded by the file and
// directory caps. Dropping entries flips the truncation flag so the prompt
// can say the layout is partial.
func applyTreeCaps(snapshot *models.RepositorySnapshot, tree *models.RepositoryTree) {
	snapshot.Truncated = tree.Truncated

	files := tree.Files
	if len(files) > maxSnapshotFiles {
		files = files[:maxSnapshotFiles]
		snapshot.Truncated = true
	}
	dirs := tree.Directories
	if len(dirs) > maxSnapshotDirs {
		dirs = dirs[:maxSnapshotDirs]
		snapshot.Truncated = true
	}

	snapshot.Files = append([]string(nil), files...)
	snapshot.Directories = append([]string(nil), dirs...)
}

func emit(progress func(models.StageEvent), event models.StageEvent) {
	if progress != nil {
		progress(event)
	}
}
