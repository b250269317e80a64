package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/pyreview/pyreview/internal/adapters/outbound/config"
	"github.com/pyreview/pyreview/internal/adapters/outbound/gitinfo"
	"github.com/pyreview/pyreview/internal/adapters/outbound/history"
	"github.com/pyreview/pyreview/internal/adapters/outbound/parser"
	"github.com/pyreview/pyreview/internal/adapters/outbound/runner"
	"github.com/pyreview/pyreview/internal/adapters/outbound/style"
	"github.com/pyreview/pyreview/internal/application"
	"github.com/pyreview/pyreview/internal/domain"
)

// registerTools registers all pyreview MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	// 1. pyreview_analyze
	s.AddTool(
		mcplib.NewTool("pyreview_analyze",
			mcplib.WithDescription("Analyze Python code structure: functions, classes, imports, and metrics. Returns JSON."),
			mcplib.WithString("code",
				mcplib.Required(),
				mcplib.Description("The Python source code to analyze"),
			),
		),
		handleAnalyze(projectPath),
	)

	// 2. pyreview_style
	s.AddTool(
		mcplib.NewTool("pyreview_style",
			mcplib.WithDescription("Check Python code style and compute a 0-100 score. Returns JSON."),
			mcplib.WithString("code",
				mcplib.Required(),
				mcplib.Description("The Python source code to check"),
			),
		),
		handleStyle(projectPath),
	)

	// 3. pyreview_generate_harness
	s.AddTool(
		mcplib.NewTool("pyreview_generate_harness",
			mcplib.WithDescription("Generate a self-contained Python test harness script for the code's public functions"),
			mcplib.WithString("code",
				mcplib.Required(),
				mcplib.Description("The Python source code to generate tests for"),
			),
		),
		handleGenerateHarness(projectPath),
	)

	// 4. pyreview_run_tests
	s.AddTool(
		mcplib.NewTool("pyreview_run_tests",
			mcplib.WithDescription("Execute a previously generated harness script and return its JSON results"),
			mcplib.WithString("script",
				mcplib.Required(),
				mcplib.Description("The harness script to execute"),
			),
		),
		handleRunTests(projectPath),
	)

	// 5. pyreview_review
	s.AddTool(
		mcplib.NewTool("pyreview_review",
			mcplib.WithDescription("Run the full review pipeline: structure analysis, style score, and test harness. Returns the complete report as JSON."),
			mcplib.WithString("code",
				mcplib.Required(),
				mcplib.Description("The Python source code to review"),
			),
			mcplib.WithBoolean("run_tests",
				mcplib.Description("Execute the generated harness with the local interpreter"),
			),
		),
		handleReview(projectPath),
	)
}

// newService wires the standard adapter set. History is attached only for
// the full review tool, so single-purpose calls never touch the store.
func newService(projectPath string, withHistory bool) (*application.ReviewService, func(), error) {
	cfg, err := config.New().Load(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	var hist domain.ReviewHistory
	cleanup := func() {}
	if withHistory {
		store, err := history.Open(projectPath)
		if err == nil {
			hist = store
			cleanup = func() { store.Close() }
		}
	}

	svc := application.NewReviewService(
		parser.New(),
		style.New(),
		runner.New(cfg, zap.NewNop()),
		gitinfo.New(),
		hist,
		cfg,
		zap.NewNop(),
	)
	return svc, cleanup, nil
}

func handleAnalyze(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc, cleanup, err := newService(projectPath, false)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		defer cleanup()

		summary, err := svc.Analyze(code)
		if err != nil {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		return jsonResult(summary)
	}
}

func handleStyle(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc, cleanup, err := newService(projectPath, false)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		defer cleanup()

		return jsonResult(svc.CheckStyle(code))
	}
}

func handleGenerateHarness(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc, cleanup, err := newService(projectPath, false)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		defer cleanup()

		script, err := svc.BuildHarness(code)
		if err != nil {
			return errorResult(fmt.Sprintf("harness generation failed: %v", err)), nil
		}
		return textResult(script), nil
	}
}

func handleRunTests(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		script, err := request.RequireString("script")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc, cleanup, err := newService(projectPath, false)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		defer cleanup()

		result, err := svc.RunTests(ctx, script)
		if err != nil {
			return errorResult(fmt.Sprintf("test execution failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func handleReview(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		runTests, _ := request.GetArguments()["run_tests"].(bool)

		svc, cleanup, err := newService(projectPath, true)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		defer cleanup()

		report, err := svc.Review(ctx, code, application.ReviewOptions{
			ProjectPath: projectPath,
			RunTests:    runTests,
		})
		if err != nil {
			return errorResult(fmt.Sprintf("review failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

// jsonResult marshals v and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
