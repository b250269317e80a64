package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pyreview/pyreview/internal/adapters/outbound/tui"
	"github.com/pyreview/pyreview/internal/application"
)

func newReviewCmd() *cobra.Command {
	var (
		jsonOutput  bool
		runTests    bool
		ciMode      bool
		minScore    int
		showHistory bool
		noHistory   bool
		projectPath string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "review [file]",
		Short: "Run the full review pipeline over a Python submission",
		Long:  "Analyze structure, score style, and generate a test harness for a Python file (or stdin with '-').",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(projectPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			svc, cleanup, err := newService(absPath, !noHistory, verbose)
			if err != nil {
				return err
			}
			defer cleanup()

			if showHistory {
				entries, err := svc.RecentHistory(10)
				if err != nil {
					return fmt.Errorf("loading history: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
				return nil
			}

			source, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			report, err := svc.Review(cmd.Context(), source, application.ReviewOptions{
				ProjectPath: absPath,
				RunTests:    runTests,
			})
			if err != nil {
				return fmt.Errorf("review failed: %w", err)
			}

			if jsonOutput {
				if err := renderJSON(cmd, report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))
			}

			if ciMode && report.Style.Score < minScore {
				return fmt.Errorf("style score %d is below minimum %d", report.Style.Score, minScore)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output report as JSON")
	cmd.Flags().BoolVar(&runTests, "run", false, "Execute the generated harness with the local interpreter")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 if style score is below --min")
	cmd.Flags().IntVar(&minScore, "min", 0, "Minimum style score for CI mode")
	cmd.Flags().BoolVar(&showHistory, "history", false, "Show review history")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Skip persisting this review")
	cmd.Flags().StringVar(&projectPath, "path", ".", "Project directory for config, history, and git metadata")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	return cmd
}
