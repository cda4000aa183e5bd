// Package manifest knows which repository files describe a project's
// dependencies and how to read them.
package manifest

// WellKnown is the fixed allow-list of manifest and build files worth
// fetching from a repository root. Matching is exact and case-sensitive,
// the way the files are conventionally spelled.
var WellKnown = []string{
	"package.json",
	"go.mod",
	"Cargo.toml",
	"pyproject.toml",
	"requirements.txt",
	"pom.xml",
	"build.gradle",
	"composer.json",
	"Gemfile",
	"Dockerfile",
	"docker-compose.yml",
	"Makefile",
}

// Select returns the well-known manifests present among the given paths.
// Only root-level files qualify, nested manifests typically describe
// sub-packages or fixtures. Results keep the allow-list order.
func Select(paths []string) []string {
	present := make(map[string]bool, len(paths))
	for _, p := range paths {
		present[p] = true
	}

	var selected []string
	for _, name := range WellKnown {
		if present[name] {
			selected = append(selected, name)
		}
	}
	return selected
}
