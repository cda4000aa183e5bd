package markdown

import (
	"strings"

	"readmeforge/internal/regex"
)

// SlugPolicy turns a heading into the anchor fragment the rendering
// platform generates for it.
type SlugPolicy interface {
	Slug(heading string) string
}

// GitHubSlugPolicy reproduces github.com heading anchors: lowercase,
// spaces become hyphens, punctuation and emoji are dropped. Because emoji
// are dropped after spaces are kept, a heading that starts with an emoji
// yields a leading hyphen ("🚀 Getting Started" -> "-getting-started").
type GitHubSlugPolicy struct{}

func (GitHubSlugPolicy) Slug(heading string) string {
	s := strings.ToLower(strings.TrimSpace(heading))
	s = regex.SlugDisallowed.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, " ", "-")
}

// DefaultPolicy is the policy used when callers do not pick one.
var DefaultPolicy SlugPolicy = GitHubSlugPolicy{}

// NaiveSlug is the anchor form language models tend to emit: lowercased,
// punctuation and emoji dropped, whitespace runs collapsed to a single
// hyphen, no leading or trailing hyphens.
func NaiveSlug(heading string) string {
	s := strings.ToLower(strings.TrimSpace(heading))
	s = regex.SlugDisallowed.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), "-")
}
