package utils

import "testing"

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain json",
			input:    `{"domain": "E-Commerce"}`,
			expected: `{"domain": "E-Commerce"}`,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"domain\": \"E-Commerce\"}\n```",
			expected: `{"domain": "E-Commerce"}`,
		},
		{
			name:     "bare fence",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "prose around the object",
			input:    "Here is the analysis:\n{\"a\": 1}\nHope this helps!",
			expected: `{"a": 1}`,
		},
		{
			name:     "fence with leading prose",
			input:    "Sure!\n```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "whitespace only trimmed",
			input:    "  \n{\"a\": 1}\n  ",
			expected: `{"a": 1}`,
		},
		{
			name:     "no json at all",
			input:    "no structured content here",
			expected: "no structured content here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanJSONBlock(tt.input); got != tt.expected {
				t.Errorf("CleanJSONBlock(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
