package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

// RenderPrompt renders a prompt template with the provided data
func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

const readmePromptTemplate = `# Task
You are writing the README.md for the GitHub repository {{.FullName}}.
Return a complete, publish-ready Markdown document and nothing else: no commentary before or after it, no code fence around the whole document.

# Repository Facts
{{.Facts}}
{{if .Languages}}
# Languages
Bytes of code per language, largest first:
{{.Languages}}
{{end}}{{if .Tree}}
# Repository Layout
{{.Tree}}
{{end}}{{if .Manifests}}
# Manifests
Each file below was fetched from the repository root. A "(truncated)" marker means only the beginning is shown.
{{.Manifests}}
{{end}}{{if .Dependencies}}
# Notable Dependencies
{{.Dependencies}}
{{end}}
# Required Sections
{{.Sections}}

# Style
Follow every block below. Blocks are independent of each other.

{{.ToneBlock}}

{{.BadgeBlock}}

{{.EmojiBlock}}

{{.TOCBlock}}
`

const sectionListHeader = "Write exactly these sections, as level-two headings, in this order:"

const noSectionsRequested = "No specific sections were requested. Write the sections you judge most useful for this repository."

const badgeInstruction = "Render badges with shields.io and always pass style=%s in the badge URL, for example https://img.shields.io/badge/license-MIT-blue?style=%s."

const (
	emojiOnInstruction  = "Start every section heading with one relevant emoji, and use emoji sparingly in lists where they help scanning."
	emojiOffInstruction = "Do not use emoji anywhere in the document."
)

const (
	tocOnInstruction  = `Immediately after the title, add a "Table of Contents" section linking to every other section heading in the document.`
	tocOffInstruction = "Do not include a table of contents."

	// anchorRules spells out how github.com turns headings into anchors so
	// the model can build working links when emoji headings are in play.
	anchorRules = `GitHub derives a heading's anchor by lowercasing the text, replacing each space with a hyphen and deleting punctuation and emoji. A heading that starts with an emoji therefore gets a leading hyphen: "## 🚀 Getting Started" links as #-getting-started. Use these exact anchors in every table of contents link.`
)
