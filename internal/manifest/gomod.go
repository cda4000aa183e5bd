package manifest

import (
	"strings"

	"readmeforge/internal/regex"
)

var _ Analyzer = (*GoModAnalyzer)(nil)

type GoModAnalyzer struct{}

func NewGoModAnalyzer() *GoModAnalyzer {
	return &GoModAnalyzer{}
}

func (g *GoModAnalyzer) Name() string {
	return "go.mod"
}

func (g *GoModAnalyzer) CanHandle(filename string) bool {
	return filename == "go.mod"
}

// Dependencies returns the direct require entries of a go.mod, indirect
// requires are skipped.
func (g *GoModAnalyzer) Dependencies(content string) []string {
	var deps []string

	inRequire := false
	for _, line := range strings.Split(content, "\n") {
		trimmedLine := strings.TrimSpace(line)

		if strings.HasPrefix(trimmedLine, "require (") {
			inRequire = true
			continue
		}

		if trimmedLine == ")" {
			inRequire = false
			continue
		}

		if inRequire {
			matches := regex.GoModRequireBlock.FindStringSubmatch(line)
			if len(matches) >= 3 && matches[3] == "" {
				deps = append(deps, matches[1])
			}
		} else if strings.HasPrefix(trimmedLine, "require ") {
			matches := regex.GoModRequireSingle.FindStringSubmatch(trimmedLine)
			if len(matches) >= 3 && matches[3] == "" {
				deps = append(deps, matches[1])
			}
		}
	}

	return deps
}
