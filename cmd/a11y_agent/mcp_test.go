package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/a11y-toolkit/internal/checklist"
	"github.com/jonathan/a11y-toolkit/internal/color"
	"github.com/jonathan/a11y-toolkit/internal/validation"
)

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return result, text.Text
}

func TestMCP_CheckContrast(t *testing.T) {
	s := newToolServer()

	result, text := callTool(t, s.handleContrast, map[string]any{"foreground": "#767676", "background": "white"})
	assert.False(t, result.IsError)

	var eval color.Evaluation
	require.NoError(t, json.Unmarshal([]byte(text), &eval))
	require.True(t, eval.OK())
	assert.InDelta(t, 4.54, *eval.Ratio, 0.01)
	assert.True(t, eval.Compliance.AANormal)

	result, text = callTool(t, s.handleContrast, map[string]any{"foreground": "bogus", "background": "#fff"})
	assert.True(t, result.IsError)
	assert.Contains(t, text, `foreground "bogus"`)
	assert.NotContains(t, text, "background")
}

func TestMCP_CheckContrastDescription(t *testing.T) {
	// Every colour syntax the description advertises must be accepted.
	for _, in := range []string{"#777", "rgb(119, 119, 119)", "navy"} {
		_, ok := color.Parse(in)
		assert.True(t, ok, in)
	}
	for _, syntax := range []string{"hsl(", "rgba(", "hwb("} {
		_, ok := color.Parse(syntax + "0, 0%, 0%)")
		assert.False(t, ok, syntax)
		assert.NotContains(t, contrastToolDescription, strings.TrimSuffix(syntax, "("))
	}
}

func TestMCP_ValidateHTML(t *testing.T) {
	s := newToolServer()

	t.Run("html", func(t *testing.T) {
		result, text := callTool(t, s.handleValidate, map[string]any{"html": validation.SampleHTML})
		assert.False(t, result.IsError)

		var report validation.Report
		require.NoError(t, json.Unmarshal([]byte(text), &report))
		want := validation.NewReport(validation.ValidateHTML(validation.SampleHTML))
		assert.Equal(t, want.Summary, report.Summary)
	})

	t.Run("url", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html lang="en"><head><title>t</title></head><body><main><a href="/x"></a></main></body></html>`))
		}))
		defer srv.Close()

		result, text := callTool(t, s.handleValidate, map[string]any{"url": srv.URL})
		assert.False(t, result.IsError, text)
		assert.Contains(t, text, `"link-name"`)
	})

	t.Run("needs exactly one source", func(t *testing.T) {
		for _, args := range []map[string]any{{}, {"html": "<p>", "url": "http://example.com"}} {
			result, text := callTool(t, s.handleValidate, args)
			assert.True(t, result.IsError)
			assert.Contains(t, text, "exactly one")
		}
	})
}

func TestMCP_CheckTypography(t *testing.T) {
	s := newToolServer()

	_, text := callTool(t, s.handleTypography, map[string]any{
		"letter_spacing": 0.12, "word_spacing": 0.16, "paragraph_spacing": 2.0,
	})
	var resp struct {
		Summary string `json:"summary"`
		CSS     string `json:"css"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, "6 of 6 typography checks passing", resp.Summary)
	assert.Contains(t, resp.CSS, "font-size: 16px;")
}

func TestMCP_Checklist(t *testing.T) {
	s := newToolServer()

	_, text := callTool(t, s.handleChecklist, map[string]any{"principle": "robust"})
	var groups []checklist.Group
	require.NoError(t, json.Unmarshal([]byte(text), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "Robust", groups[0].Principle)
}
