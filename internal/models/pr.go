package models

type (
	// PullRequestResult identifies the pull request opened by the workflow.
	PullRequestResult struct {
		URL    string `json:"url"`
		Number int    `json:"number"`
		Branch string `json:"branch"`
	}

	// ReadmeResult is the outcome of one full generation run.
	ReadmeResult struct {
		Content  string              `json:"readme"`
		Snapshot *RepositorySnapshot `json:"snapshot,omitempty"`
		Usage    *TokenUsage         `json:"usage,omitempty"`

		// AnchorsRewritten counts table-of-contents links repaired after
		// generation. Zero when repair was skipped or nothing needed fixing.
		AnchorsRewritten int `json:"anchors_rewritten,omitempty"`
	}
)
