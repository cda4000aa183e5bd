package gemini

import (
	"strings"

	"google.golang.org/genai"

	"readmeforge/internal/models"
)

// extractText flattens the candidate parts into one markdown string,
// skipping thinking parts on models that emit them.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	var content strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.Thought {
				continue
			}
			if part.Text != "" {
				content.WriteString(part.Text)
			}
		}
	}
	return content.String()
}

// extractUsage pulls usage metadata out of the Gemini response, nil when the
// provider reported none.
func extractUsage(resp *genai.GenerateContentResponse) *models.TokenUsage {
	if resp == nil || resp.UsageMetadata == nil {
		return nil
	}
	return &models.TokenUsage{
		InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
		OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
	}
}

// stripOuterFence unwraps responses the model wrapped whole in a markdown
// code fence. Fences with a concrete language tag are left alone, those are
// real code blocks.
func stripOuterFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}

	rest := strings.TrimPrefix(trimmed, "```")
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		lang := strings.TrimSpace(rest[:idx])
		if lang != "" && lang != "markdown" && lang != "md" {
			return s
		}
		rest = rest[idx+1:]
	}
	if !strings.HasSuffix(rest, "```") {
		return s
	}
	return strings.TrimSuffix(rest, "```")
}

func float32Ptr(f float32) *float32 {
	return &f
}
