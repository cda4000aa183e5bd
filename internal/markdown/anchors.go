package markdown

import (
	"fmt"
	"strings"

	"readmeforge/internal/regex"
)

// Headings returns the text of every ATX heading in the document, in
// order. Lines inside fenced code blocks are ignored.
func Headings(doc string) []string {
	var headings []string
	inFence := false

	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if regex.FencedCodeBlock.MatchString(trimmed) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if m := regex.ATXHeading.FindStringSubmatch(line); m != nil {
			headings = append(headings, m[2])
		}
	}

	return headings
}

// AnchorMap maps the naive anchor of every heading in doc to the anchor
// the given policy produces. Entries where both agree are omitted.
// Duplicate headings get "-1", "-2" suffixes on both sides, mirroring how
// platforms disambiguate repeated anchors.
func AnchorMap(doc string, policy SlugPolicy) map[string]string {
	anchors := make(map[string]string)
	naiveSeen := make(map[string]int)
	platformSeen := make(map[string]int)

	for _, h := range Headings(doc) {
		naive := dedupe(NaiveSlug(h), naiveSeen)
		platform := dedupe(policy.Slug(h), platformSeen)
		if naive != platform {
			anchors[naive] = platform
		}
	}

	return anchors
}

func dedupe(slug string, seen map[string]int) string {
	n := seen[slug]
	seen[slug] = n + 1
	if n == 0 {
		return slug
	}
	return fmt.Sprintf("%s-%d", slug, n)
}

// RewriteAnchors replaces every in-document link target found in anchors
// and reports how many links were rewritten.
func RewriteAnchors(doc string, anchors map[string]string) (string, int) {
	if len(anchors) == 0 {
		return doc, 0
	}

	rewritten := 0
	out := regex.MarkdownAnchorLink.ReplaceAllStringFunc(doc, func(match string) string {
		target := regex.MarkdownAnchorLink.FindStringSubmatch(match)[1]
		repl, ok := anchors[target]
		if !ok {
			return match
		}
		rewritten++
		return "](#" + repl + ")"
	})

	return out, rewritten
}

// Repair recomputes anchors for doc under policy and rewrites any naive
// table-of-contents links to the platform form.
func Repair(doc string, policy SlugPolicy) (string, int) {
	return RewriteAnchors(doc, AnchorMap(doc, policy))
}
