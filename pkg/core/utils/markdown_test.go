package utils

import "testing"

func TestCleanMarkdownUnwrapsFences(t *testing.T) {
	cases := map[string]string{
		"plain answer":                              "plain answer",
		"```markdown\n# Title\nbody\n```":           "# Title\nbody",
		"```\njust fenced\n```":                     "just fenced",
		"  \n```json\n{\"a\": 1}\n```\n":            "{\"a\": 1}",
		"inline ``` fence ``` stays as-is":          "inline ``` fence ``` stays as-is",
	}
	for in, want := range cases {
		if got := CleanMarkdown(in); got != want {
			t.Errorf("CleanMarkdown(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateMarkdown(t *testing.T) {
	if !ValidateMarkdown("# Header\n\n- item\n") {
		t.Fatal("ordinary markdown should validate")
	}
	if !ValidateMarkdown("") {
		t.Fatal("empty input still parses to a document")
	}
}
