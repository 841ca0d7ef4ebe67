package utils

import "strings"

// CleanJSONBlock strips a markdown code fence from an LLM response so the
// payload can be unmarshalled. Falls back to slicing between the first '{'
// and the last '}' when no fence is present.
func CleanJSONBlock(content string) string {
	content = strings.TrimSpace(content)

	if start := strings.Index(content, "```"); start != -1 {
		codeStart := start + 3
		if strings.HasPrefix(content[codeStart:], "json") {
			codeStart += 4
		}
		if end := strings.Index(content[codeStart:], "```"); end != -1 {
			return strings.TrimSpace(content[codeStart : codeStart+end])
		}
	}

	firstBrace := strings.Index(content, "{")
	lastBrace := strings.LastIndex(content, "}")
	if firstBrace != -1 && lastBrace > firstBrace {
		return strings.TrimSpace(content[firstBrace : lastBrace+1])
	}

	return content
}
