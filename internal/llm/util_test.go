package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	const report = `{"summary": {"errorCount": 1}, "issues": []}`

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain object", report, report},
		{"json fence", "```json\n" + report + "\n```", report},
		{"bare fence", "```\n" + report + "\n```", report},
		{"preamble", "Here is the accessibility analysis:\n\n" + report, report},
		{"trailing chatter", report + "\n\nLet me know if you need the HTML version.", report},
		{"array", "Issues found:\n[\"missing alt\", \"no lang\"]", `["missing alt", "no lang"]`},
		{"escaped quotes", `Result: {"title": "Link says \"click here\""}`, `{"title": "Link says \"click here\""}`},
		{"braces in strings", `{"location": "Section {3}"} done`, `{"location": "Section {3}"}`},
		{"no json", "Sorry, I cannot help with that.", "Sorry, I cannot help with that."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		object bool
		want   string
	}{
		{"nested object", `{"summary": {"overallScore": 72}} tail`, true, `{"summary": {"overallScore": 72}}`},
		{"array of objects", `[{"severity": "error"}, {"severity": "info"}] tail`, false, `[{"severity": "error"}, {"severity": "info"}]`},
		{"unterminated object", `{"issues": [`, true, ""},
		{"wrong opener", `[1, 2]`, true, ""},
		{"empty", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSONArray(tt.input)
			if tt.object {
				got = extractJSONObject(tt.input)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripHTMLFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"html fence", "```html\n<html lang=\"en\"></html>\n```", `<html lang="en"></html>`},
		{"upper fence", "```HTML\n<main>x</main>\n```  ", "<main>x</main>"},
		{"htm fence", "```htm\n<p>x</p>\n```", "<p>x</p>"},
		{"bare fence only loses the closer", "```\n<p>x</p>\n```", "```\n<p>x</p>"},
		{"no fence", "<!DOCTYPE html><html></html>", "<!DOCTYPE html><html></html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTMLFences(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"preamble", `Here you go: {"issues": []} thanks`, `{"issues": []}`},
		{"braces in strings", `x {"t": "}{"} y`, `{"t": "}{"}`},
		{"none", "no json", ""},
		{"unbalanced", `{"issues": 1`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONObject(tt.input))
		})
	}
}
