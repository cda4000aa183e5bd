package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	domainErrors "readmeforge/internal/errors"
	"readmeforge/internal/logger"
	"readmeforge/internal/models"
	"readmeforge/internal/vcs"
)

var _ vcs.RepositoryClient = (*Client)(nil)

type RepositoriesService interface {
	Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error)
	ListLanguages(ctx context.Context, owner, repo string) (map[string]int, *github.Response, error)
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
	CreateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error)
	UpdateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error)
}

type GitService interface {
	GetTree(ctx context.Context, owner, repo, sha string, recursive bool) (*github.Tree, *github.Response, error)
	GetRef(ctx context.Context, owner, repo, ref string) (*github.Reference, *github.Response, error)
	CreateRef(ctx context.Context, owner, repo string, ref github.CreateRef) (*github.Reference, *github.Response, error)
	DeleteRef(ctx context.Context, owner, repo, ref string) (*github.Response, error)
}

type PullRequestsService interface {
	Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error)
}

type UsersService interface {
	Get(ctx context.Context, user string) (*github.User, *github.Response, error)
}

const (
	// maxRetries bounds how often a transient failure is retried on top of
	// the initial attempt.
	maxRetries        = 2
	defaultRetryDelay = time.Second
)

// Client talks to the GitHub REST API for exactly one owner/repo pair.
// Clients are cheap, the server builds a fresh one per request and shares
// the RateLimitState between them.
type Client struct {
	repoService  RepositoriesService
	gitService   GitService
	prService    PullRequestsService
	usersService UsersService
	owner        string
	repo         string
	limits       *RateLimitState
	retryDelay   time.Duration
}

type Option func(*Client)

// WithRateLimitState shares one quota state across several clients, for
// example every app-token read the server performs.
func WithRateLimitState(state *RateLimitState) Option {
	return func(c *Client) {
		if state != nil {
			c.limits = state
		}
	}
}

// WithRetryDelay overrides the pause between transient-failure retries.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = d
	}
}

func NewClient(owner, repo, token string, opts ...Option) *Client {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	c := &Client{
		repoService:  client.Repositories,
		gitService:   client.Git,
		prService:    client.PullRequests,
		usersService: client.Users,
		owner:        owner,
		repo:         repo,
		limits:       NewRateLimitState(),
		retryDelay:   defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewClientWithServices(
	repoService RepositoriesService,
	gitService GitService,
	prService PullRequestsService,
	usersService UsersService,
	owner string,
	repo string,
	opts ...Option,
) *Client {
	c := &Client{
		repoService:  repoService,
		gitService:   gitService,
		prService:    prService,
		usersService: usersService,
		owner:        owner,
		repo:         repo,
		limits:       NewRateLimitState(),
		retryDelay:   defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RateLimit returns the quota as of the last response seen by this
// client's state.
func (c *Client) RateLimit() github.Rate {
	return c.limits.Snapshot()
}

// call runs one API operation through the quota gate and the transient
// retry loop. fn must hand back the response even when it errors so the
// shared state is updated from every response.
func (c *Client) call(ctx context.Context, operation string, fn func() (*github.Response, error)) error {
	log := logger.FromContext(ctx)

	if reset, blocked := c.limits.BlockedUntil(time.Now()); blocked {
		wait := time.Until(reset).Round(time.Second)
		if wait < 0 {
			wait = 0
		}
		log.Debug("skipping github call, quota exhausted",
			"operation", operation,
			"retry_in", wait.String())
		return domainErrors.ErrRateLimited.
			WithContext("operation", operation).
			WithContext("retry_in", wait.String()).
			WithContext("reset_at", reset.UTC().Format(time.RFC3339))
	}

	for attempt := 0; ; attempt++ {
		resp, err := fn()
		if resp != nil {
			c.limits.Update(resp.Rate)
		}
		if err == nil {
			return nil
		}

		translated := c.translate(operation, resp, err)
		if attempt >= maxRetries || !isRetryable(translated) {
			return translated
		}

		log.Debug("retrying github call",
			"operation", operation,
			"attempt", attempt+1,
			"error", err.Error())
		select {
		case <-ctx.Done():
			return domainErrors.ErrNetwork.WithError(ctx.Err()).WithContext("operation", operation)
		case <-time.After(c.retryDelay):
		}
	}
}

// translate maps a failed response onto the domain error taxonomy.
func (c *Client) translate(operation string, resp *github.Response, err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return c.rateLimited(operation, rateErr.Rate.Reset.Time)
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		wait := time.Duration(0)
		if abuseErr.RetryAfter != nil {
			wait = *abuseErr.RetryAfter
		}
		return domainErrors.ErrRateLimited.
			WithContext("operation", operation).
			WithContext("retry_in", wait.Round(time.Second).String())
	}

	if resp == nil {
		return domainErrors.ErrNetwork.WithError(err).WithContext("operation", operation)
	}

	repoName := fmt.Sprintf("%s/%s", c.owner, c.repo)
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return domainErrors.ErrUnauthorized.WithContext("operation", operation)
	case resp.StatusCode == http.StatusForbidden && resp.Rate.Remaining == 0:
		return c.rateLimited(operation, resp.Rate.Reset.Time)
	case resp.StatusCode == http.StatusForbidden:
		return domainErrors.ErrForbidden.
			WithContext("operation", operation).
			WithContext("repo", repoName)
	case resp.StatusCode == http.StatusNotFound:
		return domainErrors.ErrRepoNotFound.
			WithContext("operation", operation).
			WithContext("repo", repoName)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return domainErrors.ErrRemoteConflict.WithError(err).WithContext("operation", operation)
	case resp.StatusCode == http.StatusTooManyRequests:
		return c.rateLimited(operation, resp.Rate.Reset.Time)
	case resp.StatusCode >= http.StatusInternalServerError:
		return domainErrors.ErrServerUnavailable.
			WithContext("operation", operation).
			WithContext("status", resp.StatusCode)
	}
	return domainErrors.NewAppError(domainErrors.TypeVCS, "unexpected GitHub response", err).
		WithContext("operation", operation).
		WithContext("status", resp.StatusCode)
}

func (c *Client) rateLimited(operation string, reset time.Time) error {
	wait := time.Until(reset).Round(time.Second)
	if wait < 0 {
		wait = 0
	}
	rateErr := domainErrors.ErrRateLimited.
		WithContext("operation", operation).
		WithContext("retry_in", wait.String())
	if !reset.IsZero() {
		rateErr = rateErr.WithContext("reset_at", reset.UTC().Format(time.RFC3339))
	}
	return rateErr
}

func isRetryable(err error) bool {
	return errors.Is(err, domainErrors.ErrServerUnavailable) || errors.Is(err, domainErrors.ErrNetwork)
}

func (c *Client) GetRepository(ctx context.Context) (*models.RepositoryMetadata, error) {
	log := logger.FromContext(ctx)
	log.Debug("fetching repository metadata", "owner", c.owner, "repo", c.repo)

	var repo *github.Repository
	err := c.call(ctx, "get repository", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		repo, resp, err = c.repoService.Get(ctx, c.owner, c.repo)
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	meta := &models.RepositoryMetadata{
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		Owner:         repo.GetOwner().GetLogin(),
		Description:   repo.GetDescription(),
		Homepage:      repo.GetHomepage(),
		License:       repo.GetLicense().GetSPDXID(),
		DefaultBranch: repo.GetDefaultBranch(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		Watchers:      repo.GetSubscribersCount(),
		OpenIssues:    repo.GetOpenIssuesCount(),
		Topics:        repo.Topics,
		CreatedAt:     repo.GetCreatedAt().Time,
		UpdatedAt:     repo.GetUpdatedAt().Time,
	}

	log.Debug("repository metadata fetched",
		"full_name", meta.FullName,
		"stars", meta.Stars,
		"default_branch", meta.DefaultBranch)
	return meta, nil
}

func (c *Client) ListLanguages(ctx context.Context) (map[string]int64, error) {
	var raw map[string]int
	err := c.call(ctx, "list languages", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		raw, resp, err = c.repoService.ListLanguages(ctx, c.owner, c.repo)
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	languages := make(map[string]int64, len(raw))
	for name, count := range raw {
		languages[name] = int64(count)
	}
	return languages, nil
}

func (c *Client) GetTree(ctx context.Context, ref string) (*models.RepositoryTree, error) {
	log := logger.FromContext(ctx)

	var tree *github.Tree
	err := c.call(ctx, "get tree", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		tree, resp, err = c.gitService.GetTree(ctx, c.owner, c.repo, ref, true)
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	result := &models.RepositoryTree{Truncated: tree.GetTruncated()}
	for _, entry := range tree.Entries {
		switch entry.GetType() {
		case "blob":
			result.Files = append(result.Files, entry.GetPath())
		case "tree":
			result.Directories = append(result.Directories, entry.GetPath())
		}
	}

	log.Debug("tree fetched",
		"ref", ref,
		"files", len(result.Files),
		"directories", len(result.Directories),
		"truncated", result.Truncated)
	return result, nil
}

func (c *Client) GetFileContent(ctx context.Context, path, ref string) (string, error) {
	file, err := c.getContents(ctx, "get file content", path, ref)
	if err != nil {
		return "", err
	}

	content, err := file.GetContent()
	if err != nil {
		return "", domainErrors.NewAppError(domainErrors.TypeVCS, "failed to decode file content", err).
			WithContext("path", path)
	}
	return content, nil
}

func (c *Client) GetFileSHA(ctx context.Context, path, ref string) (string, error) {
	file, err := c.getContents(ctx, "get file sha", path, ref)
	if err != nil {
		return "", err
	}
	return file.GetSHA(), nil
}

func (c *Client) getContents(ctx context.Context, operation, path, ref string) (*github.RepositoryContent, error) {
	var file *github.RepositoryContent
	err := c.call(ctx, operation, func() (*github.Response, error) {
		var resp *github.Response
		var err error
		file, _, resp, err = c.repoService.GetContents(ctx, c.owner, c.repo, path, &github.RepositoryContentGetOptions{Ref: ref})
		return resp, err
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrRepoNotFound) {
			return nil, domainErrors.ErrFileNotFound.WithContext("path", path)
		}
		return nil, err
	}
	if file == nil {
		return nil, domainErrors.ErrFileNotFound.
			WithContext("path", path).
			WithContext("reason", "path is a directory")
	}
	return file, nil
}

func (c *Client) GetRef(ctx context.Context, branch string) (string, error) {
	var ref *github.Reference
	err := c.call(ctx, "get ref", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		ref, resp, err = c.gitService.GetRef(ctx, c.owner, c.repo, "heads/"+branch)
		return resp, err
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrRepoNotFound) {
			return "", domainErrors.ErrBranchNotFound.WithContext("branch", branch)
		}
		return "", err
	}
	return ref.GetObject().GetSHA(), nil
}

func (c *Client) CreateRef(ctx context.Context, branch, sha string) error {
	ref := github.CreateRef{
		Ref: "refs/heads/" + branch,
		SHA: sha,
	}

	err := c.call(ctx, "create ref", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		_, resp, err = c.gitService.CreateRef(ctx, c.owner, c.repo, ref)
		return resp, err
	})
	if err != nil {
		var appErr *domainErrors.AppError
		if errors.As(err, &appErr) {
			return appErr.WithContext("branch", branch)
		}
		return err
	}

	logger.FromContext(ctx).Debug("branch created", "branch", branch, "sha", sha)
	return nil
}

func (c *Client) DeleteRef(ctx context.Context, branch string) error {
	err := c.call(ctx, "delete ref", func() (*github.Response, error) {
		return c.gitService.DeleteRef(ctx, c.owner, c.repo, "heads/"+branch)
	})
	if err != nil {
		var appErr *domainErrors.AppError
		if errors.As(err, &appErr) {
			return appErr.WithContext("branch", branch)
		}
		return err
	}
	return nil
}

func (c *Client) CreateOrUpdateFile(ctx context.Context, branch, path, message, content, sha string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		Content: []byte(content),
		Branch:  github.Ptr(branch),
	}

	operation := "create file"
	if sha != "" {
		opts.SHA = github.Ptr(sha)
		operation = "update file"
	}

	err := c.call(ctx, operation, func() (*github.Response, error) {
		var resp *github.Response
		var err error
		if sha != "" {
			_, resp, err = c.repoService.UpdateFile(ctx, c.owner, c.repo, path, opts)
		} else {
			_, resp, err = c.repoService.CreateFile(ctx, c.owner, c.repo, path, opts)
		}
		return resp, err
	})
	if err != nil {
		var appErr *domainErrors.AppError
		if errors.As(err, &appErr) {
			return appErr.WithContext("path", path).WithContext("branch", branch)
		}
		return err
	}

	logger.FromContext(ctx).Debug("file committed", "path", path, "branch", branch)
	return nil
}

func (c *Client) CreatePullRequest(ctx context.Context, title, body, head, base string) (*models.PullRequestResult, error) {
	log := logger.FromContext(ctx)

	newPR := &github.NewPullRequest{
		Title: github.Ptr(title),
		Body:  github.Ptr(body),
		Head:  github.Ptr(head),
		Base:  github.Ptr(base),
	}

	var pr *github.PullRequest
	err := c.call(ctx, "create pull request", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		pr, resp, err = c.prService.Create(ctx, c.owner, c.repo, newPR)
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	result := &models.PullRequestResult{
		URL:    pr.GetHTMLURL(),
		Number: pr.GetNumber(),
		Branch: head,
	}
	log.Info("pull request created", "url", result.URL, "number", result.Number)
	return result, nil
}

func (c *Client) GetAuthenticatedUser(ctx context.Context) (string, error) {
	var user *github.User
	err := c.call(ctx, "get authenticated user", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		user, resp, err = c.usersService.Get(ctx, "")
		return resp, err
	})
	if err != nil {
		return "", err
	}
	return user.GetLogin(), nil
}
