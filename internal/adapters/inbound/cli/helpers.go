package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
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

// readSource loads the submission from the file argument, or from stdin
// when the argument is missing or "-".
func readSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// newService wires the standard adapter set for a project directory. The
// returned cleanup closes the history store; it is a no-op when history is
// disabled.
func newService(projectPath string, withHistory, verbose bool) (*application.ReviewService, func(), error) {
	cfg, err := config.New().Load(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log := zap.NewNop()
	if verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			log = l
		}
	}

	var hist domain.ReviewHistory
	cleanup := func() {}
	if withHistory {
		store, err := history.Open(projectPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening history: %w", err)
		}
		hist = store
		cleanup = func() { store.Close() }
	}

	svc := application.NewReviewService(
		parser.New(),
		style.New(),
		runner.New(cfg, log),
		gitinfo.New(),
		hist,
		cfg,
		log,
	)
	return svc, cleanup, nil
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
