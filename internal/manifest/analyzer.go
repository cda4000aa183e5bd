package manifest

import "sort"

// maxDependencies bounds how many dependency names a snapshot carries.
const maxDependencies = 40

// Analyzer extracts dependency names from one kind of manifest.
type Analyzer interface {
	Name() string
	CanHandle(filename string) bool
	Dependencies(content string) []string
}

type AnalyzerRegistry struct {
	analyzers []Analyzer
}

func NewAnalyzerRegistry() *AnalyzerRegistry {
	return &AnalyzerRegistry{
		analyzers: []Analyzer{
			NewGoModAnalyzer(),
			NewPackageJSONAnalyzer(),
		},
	}
}

// RegisterAnalyzer adds a custom analyzer
func (r *AnalyzerRegistry) RegisterAnalyzer(analyzer Analyzer) {
	r.analyzers = append(r.analyzers, analyzer)
}

// Dependencies runs every applicable analyzer over the fetched manifests
// and combines the results, deduplicated, sorted and capped.
func (r *AnalyzerRegistry) Dependencies(configs map[string]string) []string {
	seen := make(map[string]bool)
	var deps []string

	for filename, content := range configs {
		for _, analyzer := range r.analyzers {
			if !analyzer.CanHandle(filename) {
				continue
			}
			for _, dep := range analyzer.Dependencies(content) {
				if dep == "" || seen[dep] {
					continue
				}
				seen[dep] = true
				deps = append(deps, dep)
			}
		}
	}

	sort.Strings(deps)
	if len(deps) > maxDependencies {
		deps = deps[:maxDependencies]
	}
	return deps
}
