package models

import "time"

// RepositoryMetadata holds the facts returned by the repository endpoint.
type RepositoryMetadata struct {
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Owner         string    `json:"owner"`
	Description   string    `json:"description,omitempty"`
	Homepage      string    `json:"homepage,omitempty"`
	License       string    `json:"license,omitempty"`
	DefaultBranch string    `json:"default_branch"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	Watchers      int       `json:"watchers"`
	OpenIssues    int       `json:"open_issues"`
	Topics        []string  `json:"topics,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// RepositoryTree is the flattened recursive tree of the default branch.
type RepositoryTree struct {
	Files       []string `json:"files"`
	Directories []string `json:"directories"`
	Truncated   bool     `json:"truncated,omitempty"`
}

// RepositorySnapshot is everything known about a repository at one point in
// time. It is assembled once by the aggregator and never mutated afterwards;
// empty fields are valid and simply mean that facet could not be collected.
type RepositorySnapshot struct {
	RepositoryMetadata

	// Languages maps language name to bytes of code, as reported by GitHub.
	Languages map[string]int64 `json:"languages,omitempty"`

	Files       []string `json:"files,omitempty"`
	Directories []string `json:"directories,omitempty"`

	// Truncated is set when the tree listing was cut, either by GitHub or
	// by the snapshot caps.
	Truncated bool `json:"truncated,omitempty"`

	// ConfigFiles holds the fetched manifest contents keyed by filename,
	// each truncated to a fixed budget.
	ConfigFiles map[string]string `json:"config_files,omitempty"`

	// ConfigErrors records, per manifest filename, why its fetch failed.
	// Diagnostics only, the prompt never sees these.
	ConfigErrors map[string]string `json:"config_errors,omitempty"`

	// Dependencies lists notable dependency names parsed out of the
	// fetched manifests.
	Dependencies []string `json:"dependencies,omitempty"`
}
