package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/jonathan/a11y-toolkit/internal/cache"
	"github.com/jonathan/a11y-toolkit/internal/checklist"
	"github.com/jonathan/a11y-toolkit/internal/color"
	"github.com/jonathan/a11y-toolkit/internal/fetch"
	"github.com/jonathan/a11y-toolkit/internal/typography"
	"github.com/jonathan/a11y-toolkit/internal/validation"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the contrast, validation, typography and checklist tools over MCP",
	Long: `Starts a Model Context Protocol server so assistants can call the toolkit
directly. The stdio transport suits desktop clients; streamable-http listens
on --port.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

var (
	mcpTransport string
	mcpPort      int
)

func init() {
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "Transport: stdio or streamable-http")
	mcpCmd.Flags().IntVar(&mcpPort, "port", 3002, "Port for the streamable-http transport")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(_ *cobra.Command, _ []string) error {
	s := newToolServer()
	switch mcpTransport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", mcpPort))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", mcpTransport)
	}
}

// toolServer exposes the toolkit's deterministic checks as MCP tools.
type toolServer struct {
	mcp     *mcpserver.MCPServer
	fetcher *fetch.CachedFetcher
}

const contrastToolDescription = "Compute the WCAG contrast ratio of a foreground/background colour pair, its AA/AAA verdicts and, below 4.5:1, compliant foreground suggestions. Colours may be hex, rgb() or CSS names."

func newToolServer() *toolServer {
	s := &toolServer{
		mcp:     mcpserver.NewMCPServer("a11y-toolkit", "1.0.0"),
		fetcher: fetch.NewCachedFetcher(cache.NewMemoryCache(), nil),
	}
	s.registerTools()
	return s
}

func (s *toolServer) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("check_contrast",
			mcp.WithDescription(contrastToolDescription),
			mcp.WithString("foreground", mcp.Required(), mcp.Description("Text colour, e.g. '#777' or 'navy'")),
			mcp.WithString("background", mcp.Required(), mcp.Description("Background colour, e.g. '#ffffff'")),
		),
		s.handleContrast,
	)

	s.mcp.AddTool(
		mcp.NewTool("validate_html",
			mcp.WithDescription("Run the accessibility rule checks against an HTML document or a fetched page. Returns issues ordered errors first plus severity counts."),
			mcp.WithString("html", mcp.Description("HTML source to check")),
			mcp.WithString("url", mcp.Description("Fetch and check this page instead of html")),
			mcp.WithBoolean("use_browser", mcp.Description("Render the URL in headless Chrome before checking")),
		),
		s.handleValidate,
	)

	s.mcp.AddTool(
		mcp.NewTool("check_typography",
			mcp.WithDescription("Check text settings against six readability thresholds. Omitted values use the defaults (16px, 1.5 line height, 1.5em paragraph spacing, 80ch)."),
			mcp.WithNumber("font_size", mcp.Description("Font size in px")),
			mcp.WithNumber("line_height", mcp.Description("Unitless line height")),
			mcp.WithNumber("letter_spacing", mcp.Description("Letter spacing in em")),
			mcp.WithNumber("word_spacing", mcp.Description("Word spacing in em")),
			mcp.WithNumber("paragraph_spacing", mcp.Description("Paragraph spacing in em")),
			mcp.WithNumber("max_width", mcp.Description("Line length in ch")),
		),
		s.handleTypography,
	)

	s.mcp.AddTool(
		mcp.NewTool("wcag_checklist",
			mcp.WithDescription("List WCAG 2.1 A and AA success criteria, optionally filtered by level and principle"),
			mcp.WithString("level", mcp.Description("A, AA or all")),
			mcp.WithString("principle", mcp.Description("Perceivable, Operable, Understandable, Robust or all")),
		),
		s.handleChecklist,
	)
}

// toolResult serializes v as indented JSON for the MCP response.
func toolResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *toolServer) handleContrast(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fg := request.GetString("foreground", "")
	bg := request.GetString("background", "")

	eval := color.Evaluate(fg, bg)
	if !eval.OK() {
		var bad []string
		if _, ok := color.Parse(fg); !ok {
			bad = append(bad, fmt.Sprintf("foreground %q", fg))
		}
		if _, ok := color.Parse(bg); !ok {
			bad = append(bad, fmt.Sprintf("background %q", bg))
		}
		return mcp.NewToolResultError("not a recognised colour: " + strings.Join(bad, ", ")), nil
	}
	return toolResult(eval)
}

func (s *toolServer) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src := request.GetString("html", "")
	url := request.GetString("url", "")
	if (src == "") == (url == "") {
		return mcp.NewToolResultError("provide exactly one of html or url"), nil
	}

	if url != "" {
		page, err := s.fetcher.Fetch(ctx, url, request.GetBool("use_browser", false))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		src = page.HTML
	}

	root, err := validation.Parse(src)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResult(validation.NewReport(validation.ValidateParallel(root)))
}

func (s *toolServer) handleTypography(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	settings := typography.Settings{
		FontSize:         request.GetFloat("font_size", 0),
		LineHeight:       request.GetFloat("line_height", 0),
		LetterSpacing:    request.GetFloat("letter_spacing", 0),
		WordSpacing:      request.GetFloat("word_spacing", 0),
		ParagraphSpacing: request.GetFloat("paragraph_spacing", 0),
		MaxWidth:         request.GetFloat("max_width", 0),
	}
	result := typography.Evaluate(settings)
	return toolResult(map[string]any{
		"result":  result,
		"summary": result.Summary(),
		"css":     result.Settings.CSS(),
	})
}

func (s *toolServer) handleChecklist(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups, err := checklist.Grouped(checklist.Filter{
		Level:     request.GetString("level", ""),
		Principle: request.GetString("principle", ""),
	}, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResult(groups)
}
