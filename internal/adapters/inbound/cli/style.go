package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newStyleCmd() *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "style [file]",
		Short: "Score the style of a Python submission",
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

			return renderJSON(cmd, svc.CheckStyle(source))
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", ".", "Project directory for config")
	return cmd
}
