package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelect(t *testing.T) {
	t.Run("should pick only root level well-known files", func(t *testing.T) {
		files := []string{
			"README.md",
			"go.mod",
			"go.sum",
			"cmd/app/main.go",
			"vendor/github.com/x/package.json",
			"Dockerfile",
		}

		got := Select(files)

		assert.Equal(t, []string{"go.mod", "Dockerfile"}, got)
	})

	t.Run("should keep allow-list order regardless of input order", func(t *testing.T) {
		got := Select([]string{"Makefile", "go.mod", "package.json"})

		assert.Equal(t, []string{"package.json", "go.mod", "Makefile"}, got)
	})

	t.Run("should return nothing for an empty tree", func(t *testing.T) {
		assert.Empty(t, Select(nil))
	})
}

func TestGoModAnalyzer(t *testing.T) {
	analyzer := NewGoModAnalyzer()

	t.Run("should parse a require block and skip indirect entries", func(t *testing.T) {
		content := `module example.com/widget

go 1.24.0

require (
	github.com/gofiber/fiber/v2 v2.52.6
	gorm.io/gorm v1.25.12
	github.com/google/uuid v1.6.0 // indirect
)
`
		deps := analyzer.Dependencies(content)

		assert.Equal(t, []string{"github.com/gofiber/fiber/v2", "gorm.io/gorm"}, deps)
	})

	t.Run("should parse single line requires", func(t *testing.T) {
		deps := analyzer.Dependencies("module m\n\nrequire github.com/stretchr/testify v1.10.0\n")

		assert.Equal(t, []string{"github.com/stretchr/testify"}, deps)
	})

	t.Run("should survive truncated content", func(t *testing.T) {
		deps := analyzer.Dependencies("module m\n\nrequire (\n\tgorm.io/gorm v1.25\n(truncated)")

		assert.Equal(t, []string{"gorm.io/gorm"}, deps)
	})
}

func TestPackageJSONAnalyzer(t *testing.T) {
	analyzer := NewPackageJSONAnalyzer()

	t.Run("should list runtime dependencies sorted", func(t *testing.T) {
		content := `{
  "name": "widget",
  "dependencies": {"zod": "^3.0.0", "express": "^4.18.0"},
  "devDependencies": {"vitest": "^1.0.0"}
}`
		deps := analyzer.Dependencies(content)

		assert.Equal(t, []string{"express", "zod"}, deps)
	})

	t.Run("should yield nothing for truncated json", func(t *testing.T) {
		assert.Empty(t, analyzer.Dependencies(`{"dependencies": {"express"`))
	})
}

func TestAnalyzerRegistry(t *testing.T) {
	registry := NewAnalyzerRegistry()

	t.Run("should combine and deduplicate across manifests", func(t *testing.T) {
		configs := map[string]string{
			"go.mod":       "require (\n\tgorm.io/gorm v1.25.12\n)",
			"package.json": `{"dependencies": {"express": "^4.18.0"}}`,
			"Dockerfile":   "FROM golang:1.24",
		}

		deps := registry.Dependencies(configs)

		assert.Equal(t, []string{"express", "gorm.io/gorm"}, deps)
	})

	t.Run("should support custom analyzers", func(t *testing.T) {
		registry := NewAnalyzerRegistry()
		registry.RegisterAnalyzer(fakeAnalyzer{})

		deps := registry.Dependencies(map[string]string{"Gemfile": "gem 'rails'"})

		assert.Equal(t, []string{"rails"}, deps)
	})
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) Name() string { return "Gemfile" }

func (fakeAnalyzer) CanHandle(filename string) bool { return filename == "Gemfile" }

func (fakeAnalyzer) Dependencies(content string) []string { return []string{"rails"} }
