package agent

import "strings"

// EstimateTokenCount estimates tokens in a text string using the rough
// four-characters-per-token heuristic. Actual tokenization varies by model.
func EstimateTokenCount(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	return (len([]rune(trimmed)) / 4) + 1
}

// TruncateToTokenLimit cuts text down to roughly maxTokens, keeping the
// beginning and end and dropping the middle.
func TruncateToTokenLimit(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	if EstimateTokenCount(text) <= maxTokens {
		return text
	}

	marker := "\n[... truncated ...]\n"
	available := maxTokens - EstimateTokenCount(marker)
	if available <= 0 {
		return ""
	}

	maxChars := available * 4
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	head := maxChars / 2
	tail := maxChars - head
	result := string(runes[:head]) + marker + string(runes[len(runes)-tail:])

	if EstimateTokenCount(result) > maxTokens {
		return TruncateToTokenLimit(result, maxTokens)
	}
	return result
}
