package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pyreview",
		Short:         "Educational code review for Python submissions",
		Long:          "Pyreview analyzes a Python submission's structure, scores its style, and generates a self-contained test harness for it.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newReviewCmd())
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newStyleCmd())
	cmd.AddCommand(newHarnessCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
