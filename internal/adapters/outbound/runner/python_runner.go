// Package runner executes generated harness scripts with a local Python
// interpreter and parses their JSON output.
//
// The harness is intended for a sandboxed execution facility; this adapter
// is the local development stand-in. The temp file holding the script is
// removed on every exit path.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/pyreview/pyreview/internal/domain"
)

// PythonRunner implements domain.HarnessRunner via os/exec.
type PythonRunner struct {
	pythonBin string
	log       *zap.Logger
}

func New(cfg domain.ReviewConfig, log *zap.Logger) *PythonRunner {
	if log == nil {
		log = zap.NewNop()
	}
	bin := cfg.PythonBin
	if bin == "" {
		bin = "python3"
	}
	return &PythonRunner{pythonBin: bin, log: log}
}

// Run writes the script to a temp file, executes it under the caller's
// context deadline, and decodes the JSON object the harness prints on
// stdout. Unknown JSON fields are tolerated for forward compatibility.
func (r *PythonRunner) Run(ctx context.Context, script string) (*domain.TestExecutionResult, error) {
	tmp, err := os.CreateTemp("", "pyreview-harness-*.py")
	if err != nil {
		return nil, fmt.Errorf("creating temp script: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(script); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("writing temp script: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp script: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.pythonBin, tmpPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	r.log.Debug("harness executed",
		zap.String("python", r.pythonBin),
		zap.Int("stdout_bytes", stdout.Len()),
		zap.Error(runErr))

	if ctx.Err() != nil {
		return nil, fmt.Errorf("harness execution timed out: %w", ctx.Err())
	}
	if runErr != nil {
		// The harness isolates per-case failures itself, so a non-zero exit
		// means the interpreter rejected the script outright.
		return nil, fmt.Errorf("harness execution failed: %v: %s", runErr, firstLine(stderr.String()))
	}

	result, err := parseResult(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("parsing harness output: %w", err)
	}
	return result, nil
}

// parseResult decodes the result object from the harness stdout. The
// harness prints it as the final single-line JSON object; anything the
// submitted code printed before it is skipped.
func parseResult(out []byte) (*domain.TestExecutionResult, error) {
	lines := bytes.Split(out, []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var result domain.TestExecutionResult
		if err := json.Unmarshal(line, &result); err == nil {
			return &result, nil
		}
	}
	return nil, fmt.Errorf("no JSON result object found in output")
}

func firstLine(s string) string {
	if i := bytes.IndexByte([]byte(s), '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
