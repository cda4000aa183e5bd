package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainErrors "readmeforge/internal/errors"
	"readmeforge/internal/logger"
	"readmeforge/internal/models"
)

// prWorkflowVCSClient defines the write operations the PR workflow needs
// from a VCS provider.
type prWorkflowVCSClient interface {
	GetRef(ctx context.Context, branch string) (string, error)
	CreateRef(ctx context.Context, branch, sha string) error
	DeleteRef(ctx context.Context, branch string) error
	GetFileSHA(ctx context.Context, path, ref string) (string, error)
	CreateOrUpdateFile(ctx context.Context, branch, path, message, content, sha string) error
	CreatePullRequest(ctx context.Context, title, body, head, base string) (*models.PullRequestResult, error)
}

const (
	readmePath = "README.md"

	defaultBaseBranch = "main"

	prTitle = "docs: update README"
	prBody  = "This pull request replaces `README.md` with freshly generated content.\n\n" +
		"Review the text before merging, generated copy can miss project-specific context."
)

// PRWorkflowService publishes a generated README as a pull request. The
// steps run strictly in order; only the file write gets a compensating
// cleanup, everything before it leaves nothing behind.
type PRWorkflowService struct {
	vcsClient prWorkflowVCSClient
	now       func() time.Time
	newSuffix func() string
}

type PRWorkflowOption func(*PRWorkflowService)

func WithWorkflowVCSClient(vcs prWorkflowVCSClient) PRWorkflowOption {
	return func(s *PRWorkflowService) {
		s.vcsClient = vcs
	}
}

// WithWorkflowClock fixes the timestamp used in branch names.
func WithWorkflowClock(now func() time.Time) PRWorkflowOption {
	return func(s *PRWorkflowService) {
		s.now = now
	}
}

// WithWorkflowSuffix fixes the random part of branch names.
func WithWorkflowSuffix(suffix func() string) PRWorkflowOption {
	return func(s *PRWorkflowService) {
		s.newSuffix = suffix
	}
}

func NewPRWorkflowService(opts ...PRWorkflowOption) *PRWorkflowService {
	s := &PRWorkflowService{
		now:       time.Now,
		newSuffix: defaultSuffix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultSuffix() string {
	return uuid.NewString()[:8]
}

func (s *PRWorkflowService) branchName() string {
	return fmt.Sprintf("readme-update-%d-%s", s.now().UnixMilli(), s.newSuffix())
}

// OpenPullRequest commits the README to a fresh branch and opens a pull
// request against base. A name collision on the working branch is surfaced
// to the caller instead of retried: the timestamped names make collisions
// a sign of clock trouble, not of normal use.
func (s *PRWorkflowService) OpenPullRequest(ctx context.Context, readme, base string) (*models.PullRequestResult, error) {
	log := logger.FromContext(ctx)

	if base == "" {
		base = defaultBaseBranch
	}

	baseSHA, err := s.vcsClient.GetRef(ctx, base)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUnauthorized) {
			return nil, domainErrors.ErrSessionExpired.WithError(err)
		}
		return nil, err
	}
	log.Debug("resolved base branch", "base", base, "sha", baseSHA)

	branch := s.branchName()
	if err := s.vcsClient.CreateRef(ctx, branch, baseSHA); err != nil {
		return nil, err
	}
	log.Debug("working branch created", "branch", branch)

	// Any probe failure means "write a fresh file": a wrong guess here
	// surfaces later as a write conflict, not as a lost update.
	sha, err := s.vcsClient.GetFileSHA(ctx, readmePath, branch)
	if err != nil {
		log.Debug("no existing README found", "error", err.Error())
		sha = ""
	}

	message := "docs: update README"
	if sha == "" {
		message = "docs: add README"
	}
	if err := s.vcsClient.CreateOrUpdateFile(ctx, branch, readmePath, message, readme, sha); err != nil {
		if cleanupErr := s.vcsClient.DeleteRef(ctx, branch); cleanupErr != nil {
			log.Error("failed to clean up working branch", "error", cleanupErr.Error(), "branch", branch)
		}
		return nil, err
	}
	log.Debug("readme committed", "branch", branch, "update", sha != "")

	result, err := s.vcsClient.CreatePullRequest(ctx, prTitle, prBody, branch, base)
	if err != nil {
		// The branch carries the commit at this point, deleting it would
		// throw away work the user can still turn into a PR by hand.
		var appErr *domainErrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr.WithContext("branch", branch)
		}
		return nil, err
	}

	log.Info("pull request opened",
		"url", result.URL,
		"number", result.Number,
		"branch", result.Branch)
	return result, nil
}
