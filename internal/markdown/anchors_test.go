package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const emojiReadme = `# 📘 Widget

## Table of Contents

- [Getting Started](#getting-started)
- [Usage](#usage)
- [License](#license)

## 🚀 Getting Started

run it

## 🔧 Usage

` + "```" + `
# not a heading
` + "```" + `

## License

MIT
`

func TestHeadings(t *testing.T) {
	t.Run("should collect headings in order and skip code fences", func(t *testing.T) {
		headings := Headings(emojiReadme)

		require.Len(t, headings, 5)
		assert.Equal(t, "📘 Widget", headings[0])
		assert.Equal(t, "Table of Contents", headings[1])
		assert.Equal(t, "🚀 Getting Started", headings[2])
		assert.Equal(t, "🔧 Usage", headings[3])
		assert.Equal(t, "License", headings[4])
	})
}

func TestAnchorMap(t *testing.T) {
	t.Run("should map naive anchors to platform anchors for emoji headings", func(t *testing.T) {
		anchors := AnchorMap(emojiReadme, GitHubSlugPolicy{})

		assert.Equal(t, "-getting-started", anchors["getting-started"])
		assert.Equal(t, "-usage", anchors["usage"])
		assert.Equal(t, "-widget", anchors["widget"])
	})

	t.Run("should omit headings whose anchors already agree", func(t *testing.T) {
		anchors := AnchorMap(emojiReadme, GitHubSlugPolicy{})

		_, ok := anchors["license"]
		assert.False(t, ok)
		_, ok = anchors["table-of-contents"]
		assert.False(t, ok)
	})

	t.Run("should disambiguate duplicate headings", func(t *testing.T) {
		doc := "## 🧪 Tests\n\n## 🧪 Tests\n"
		anchors := AnchorMap(doc, GitHubSlugPolicy{})

		assert.Equal(t, "-tests", anchors["tests"])
		assert.Equal(t, "-tests-1", anchors["tests-1"])
	})
}

func TestRepair(t *testing.T) {
	t.Run("should rewrite naive table of contents links", func(t *testing.T) {
		repaired, n := Repair(emojiReadme, GitHubSlugPolicy{})

		assert.Equal(t, 2, n)
		assert.Contains(t, repaired, "[Getting Started](#-getting-started)")
		assert.Contains(t, repaired, "[Usage](#-usage)")
		assert.Contains(t, repaired, "[License](#license)")
	})

	t.Run("should be a no-op on documents without emoji headings", func(t *testing.T) {
		doc := "# Plain\n\n- [Usage](#usage)\n\n## Usage\n"
		repaired, n := Repair(doc, GitHubSlugPolicy{})

		assert.Zero(t, n)
		assert.Equal(t, doc, repaired)
	})

	t.Run("should be idempotent", func(t *testing.T) {
		once, _ := Repair(emojiReadme, GitHubSlugPolicy{})
		twice, n := Repair(once, GitHubSlugPolicy{})

		assert.Equal(t, once, twice)
		assert.Zero(t, n)
	})
}
