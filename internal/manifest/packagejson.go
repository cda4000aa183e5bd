package manifest

import (
	"encoding/json"
	"sort"
)

var _ Analyzer = (*PackageJSONAnalyzer)(nil)

type PackageJSONAnalyzer struct{}

func NewPackageJSONAnalyzer() *PackageJSONAnalyzer {
	return &PackageJSONAnalyzer{}
}

func (p *PackageJSONAnalyzer) Name() string {
	return "package.json"
}

func (p *PackageJSONAnalyzer) CanHandle(filename string) bool {
	return filename == "package.json"
}

// Dependencies returns the runtime dependency names of a package.json.
// Content that does not parse, for example because it was truncated,
// yields nothing rather than an error.
func (p *PackageJSONAnalyzer) Dependencies(content string) []string {
	var pkg struct {
		Dependencies map[string]string `json:"dependencies"`
	}
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return nil
	}

	deps := make([]string, 0, len(pkg.Dependencies))
	for name := range pkg.Dependencies {
		deps = append(deps, name)
	}
	sort.Strings(deps)
	return deps
}
