package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Show the structural summary of a Python submission",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(projectPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			svc, cleanup, err := newService(absPath, false, false)
			if err != nil {
				return err
			}
			defer cleanup()

			source, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			summary, err := svc.Analyze(source)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
			return renderJSON(cmd, summary)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", ".", "Project directory for config")
	return cmd
}
