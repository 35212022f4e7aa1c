package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codebattle-cli",
	Short: "Code Battle command-line tool",
	Long: `codebattle-cli runs the Code Battle server and offers a few tools around it.

Available commands:
  serve      Start the web server
  simulate   Play a headless game with a fixed seed
  roster     Show the opponents and the player's attacks
  topics     Explore the pub/sub topics
  version    Print the version

Use "codebattle-cli [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
