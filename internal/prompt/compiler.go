// Package prompt turns a repository snapshot and a set of user choices
// into the single-turn prompt sent to the model. Compilation is pure:
// the same snapshot and options always produce the same string.
package prompt

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"readmeforge/internal/models"
)

var sectionTitles = map[string]string{
	"description":      "Description",
	"badges":           "Badges",
	"features":         "Features",
	"techStack":        "Tech Stack",
	"installation":     "Installation",
	"usage":            "Usage",
	"api":              "API Reference",
	"configuration":    "Configuration",
	"examples":         "Examples",
	"tests":            "Testing",
	"deployment":       "Deployment",
	"roadmap":          "Roadmap",
	"contributing":     "Contributing",
	"license":          "License",
	"acknowledgements": "Acknowledgements",
}

var toneInstructions = map[models.Tone]string{
	models.ToneProfessional: "Write in a professional, polished voice suitable for a company engineering page.",
	models.ToneFriendly:     "Write in a friendly, conversational voice that welcomes first-time users.",
	models.ToneTechnical:    "Write in a precise technical voice aimed at experienced engineers. Prefer exact terms over marketing language.",
	models.ToneMinimal:      "Write in a minimal voice. Short sentences. Nothing beyond the essentials.",
}

// SectionTitle maps a section id to the heading shown in the README.
// Unknown ids fall back to the id with its first letter upper-cased.
func SectionTitle(id string) string {
	if title, ok := sectionTitles[id]; ok {
		return title
	}
	r, size := utf8.DecodeRuneInString(id)
	if r == utf8.RuneError {
		return id
	}
	return string(unicode.ToUpper(r)) + id[size:]
}

type compileData struct {
	FullName     string
	Facts        string
	Languages    string
	Tree         string
	Manifests    string
	Dependencies string
	Sections     string
	ToneBlock    string
	BadgeBlock   string
	EmojiBlock   string
	TOCBlock     string
}

// Compile renders the generation prompt for one snapshot under the given
// options. Enabled sections keep their given order, every style choice
// contributes its own delimited block.
func Compile(snapshot *models.RepositorySnapshot, opts models.GenerationOptions) (string, error) {
	tone, ok := toneInstructions[opts.Tone]
	if !ok {
		tone = toneInstructions[models.ToneProfessional]
	}

	style := opts.BadgeStyle
	if !style.Valid() {
		style = models.BadgeFlat
	}

	data := compileData{
		FullName:     snapshot.FullName,
		Facts:        renderFacts(snapshot),
		Languages:    renderLanguages(snapshot.Languages),
		Tree:         renderTree(snapshot),
		Manifests:    renderManifests(snapshot.ConfigFiles),
		Dependencies: renderBulletList(snapshot.Dependencies),
		Sections:     renderSections(opts),
		ToneBlock:    block("TONE", tone),
		BadgeBlock:   block("BADGES", fmt.Sprintf(badgeInstruction, style, style)),
		EmojiBlock:   block("EMOJI", emojiInstruction(opts.Emoji)),
		TOCBlock:     block("TOC", tocInstruction(opts)),
	}

	return RenderPrompt("readme", readmePromptTemplate, data)
}

func block(name, body string) string {
	return fmt.Sprintf("[%s]\n%s\n[/%s]", name, body, name)
}

func emojiInstruction(enabled bool) string {
	if enabled {
		return emojiOnInstruction
	}
	return emojiOffInstruction
}

func tocInstruction(opts models.GenerationOptions) string {
	if !opts.TOC {
		return tocOffInstruction
	}
	if opts.Emoji {
		return tocOnInstruction + "\n" + anchorRules
	}
	return tocOnInstruction
}

func renderSections(opts models.GenerationOptions) string {
	enabled := opts.EnabledSections()
	if len(enabled) == 0 {
		return noSectionsRequested
	}

	var b strings.Builder
	b.WriteString(sectionListHeader)
	for i, id := range enabled {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, SectionTitle(id)))
	}
	return b.String()
}

func renderFacts(snapshot *models.RepositorySnapshot) string {
	lines := []string{
		fmt.Sprintf("- Full name: %s", snapshot.FullName),
	}
	if snapshot.Description != "" {
		lines = append(lines, fmt.Sprintf("- Description: %s", snapshot.Description))
	}
	if snapshot.DefaultBranch != "" {
		lines = append(lines, fmt.Sprintf("- Default branch: %s", snapshot.DefaultBranch))
	}
	if snapshot.License != "" {
		lines = append(lines, fmt.Sprintf("- License: %s", snapshot.License))
	}
	if snapshot.Homepage != "" {
		lines = append(lines, fmt.Sprintf("- Homepage: %s", snapshot.Homepage))
	}
	if len(snapshot.Topics) > 0 {
		lines = append(lines, fmt.Sprintf("- Topics: %s", strings.Join(snapshot.Topics, ", ")))
	}
	lines = append(lines,
		fmt.Sprintf("- Stars: %d", snapshot.Stars),
		fmt.Sprintf("- Forks: %d", snapshot.Forks),
		fmt.Sprintf("- Open issues: %d", snapshot.OpenIssues),
	)
	return strings.Join(lines, "\n")
}

func renderLanguages(languages map[string]int64) string {
	if len(languages) == 0 {
		return ""
	}

	type langCount struct {
		name  string
		bytes int64
	}
	counts := make([]langCount, 0, len(languages))
	for name, b := range languages {
		counts = append(counts, langCount{name: name, bytes: b})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].bytes != counts[j].bytes {
			return counts[i].bytes > counts[j].bytes
		}
		return counts[i].name < counts[j].name
	})

	lines := make([]string, 0, len(counts))
	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("- %s: %d bytes", c.name, c.bytes))
	}
	return strings.Join(lines, "\n")
}

func renderTree(snapshot *models.RepositorySnapshot) string {
	if len(snapshot.Directories) == 0 && len(snapshot.Files) == 0 {
		return ""
	}

	var b strings.Builder
	if len(snapshot.Directories) > 0 {
		b.WriteString("Directories:\n")
		b.WriteString(renderBulletList(snapshot.Directories))
	}
	if len(snapshot.Files) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Files:\n")
		b.WriteString(renderBulletList(snapshot.Files))
	}
	if snapshot.Truncated {
		b.WriteString("\n(truncated)")
	}
	return b.String()
}

func renderManifests(configs map[string]string) string {
	if len(configs) == 0 {
		return ""
	}

	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("## %s\n```\n%s\n```", name, configs[name]))
	}
	return strings.Join(parts, "\n")
}

func renderBulletList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}
