package utils

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// CleanMarkdown normalizes a model answer for display: trims whitespace and
// unwraps a single outer code fence, including a language tag on the opening
// fence ("```markdown", "```json").
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)
	if !strings.HasPrefix(cleaned, "```") || !strings.HasSuffix(cleaned, "```") {
		return cleaned
	}
	body := strings.TrimSuffix(strings.TrimPrefix(cleaned, "```"), "```")
	// The opening fence may carry a language tag on its own line.
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		firstLine := strings.TrimSpace(body[:i])
		if firstLine != "" && !strings.ContainsAny(firstLine, " \t") {
			body = body[i+1:]
		}
	}
	return strings.TrimSpace(body)
}

// ValidateMarkdown reports whether the input parses as Markdown. Goldmark is
// permissive, so this only rejects input the parser cannot build a tree for.
func ValidateMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	return parser.Parse(reader) != nil
}
