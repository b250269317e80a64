package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newHarnessCmd() *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "harness [file]",
		Short: "Generate the Python test harness for a submission",
		Long:  "Print the self-contained Python script that exercises the submission's public functions.",
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

			script, err := svc.BuildHarness(source)
			if err != nil {
				return fmt.Errorf("harness generation failed: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), script)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", ".", "Project directory for config")
	return cmd
}
