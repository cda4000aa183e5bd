package regex

import "regexp"

var (
	// Credential patterns, anything matching these must never reach logs or responses
	GitHubPAT            = regexp.MustCompile(`ghp_[A-Za-z0-9]{36}`)
	GitHubFineGrainedPAT = regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,255}`)
	GitHubOAuthToken     = regexp.MustCompile(`gh[osu]_[A-Za-z0-9]{36}`)
	GoogleAPIKey         = regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`)
	BearerToken          = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-._~+/]+=*`)
	APIKeyQueryParam     = regexp.MustCompile(`(?i)(key|token|api_key)=[^&\s"']+`)
	GitSHA               = regexp.MustCompile(`\b[0-9a-f]{40}\b`)

	// Markdown patterns
	ATXHeading         = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+?)[ \t]*#*[ \t]*$`)
	MarkdownAnchorLink = regexp.MustCompile(`\]\(#([^)\s]+)\)`)
	FencedCodeBlock    = regexp.MustCompile("^(```|~~~)")

	// Heading slug patterns
	SlugDisallowed = regexp.MustCompile(`[^\p{L}\p{N}\p{M} _-]`)

	// Manifest parsing
	GoModRequireBlock  = regexp.MustCompile(`^\s+(\S+)\s+v?(\S+)(\s+//\s*indirect)?`)
	GoModRequireSingle = regexp.MustCompile(`^require\s+(\S+)\s+v?(\S+)(\s+//\s*indirect)?`)

	// Version patterns
	SemVer = regexp.MustCompile(`v?(\d+)\.(\d+)\.(\d+)`)
)

// credentialPatterns lists every pattern Redact scrubs, most specific first.
var credentialPatterns = []*regexp.Regexp{
	GitHubFineGrainedPAT,
	GitHubPAT,
	GitHubOAuthToken,
	GoogleAPIKey,
	BearerToken,
	APIKeyQueryParam,
	GitSHA,
}

// Redact replaces any credential-shaped substring with a fixed marker.
func Redact(s string) string {
	for _, p := range credentialPatterns {
		s = p.ReplaceAllString(s, "[REDACTED]")
	}
	return s
}
