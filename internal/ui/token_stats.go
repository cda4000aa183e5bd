package ui

import (
	"fmt"
	"time"

	"readmeforge/internal/i18n"
	"readmeforge/internal/models"
)

// PrintTokenUsage reports what the generation cost in tokens, with the model
// and wall time when known.
func PrintTokenUsage(usage *models.TokenUsage, t *i18n.Translations) {
	if usage == nil {
		return
	}

	line := t.GetMessage("tokens_used", 0, map[string]interface{}{
		"Total":  usage.TotalTokens,
		"Input":  usage.InputTokens,
		"Output": usage.OutputTokens,
	})

	fmt.Printf("%s %s", StatsEmoji, line)
	if usage.Model != "" {
		fmt.Printf(" %s", Dim.Sprintf("[%s]", usage.Model))
	}
	if usage.DurationMs > 0 {
		elapsed := time.Duration(usage.DurationMs) * time.Millisecond
		fmt.Printf(" %s", Dim.Sprintf("(%s)", elapsed.Round(100*time.Millisecond)))
	}
	fmt.Println()
}
