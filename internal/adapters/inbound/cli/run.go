package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		projectPath string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Generate and execute the test harness for a submission",
		Long:  "Build the harness for a Python file and run it with the configured interpreter, printing the JSON result.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(projectPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			svc, cleanup, err := newService(absPath, false, verbose)
			if err != nil {
				return err
			}
			defer cleanup()

			source, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			script, err := svc.BuildHarness(source)
			if err != nil {
				return fmt.Errorf("harness generation failed: %w", err)
			}

			result, err := svc.RunTests(cmd.Context(), script)
			if err != nil {
				return fmt.Errorf("harness execution failed: %w", err)
			}
			return renderJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", ".", "Project directory for config")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	return cmd
}
