package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// rootCmd is the base command. Running the binary with no subcommand is
// equivalent to running "serve" with default flags.
var rootCmd = &cobra.Command{
	Use:   "drasi-server",
	Short: "Run the Drasi Server control plane",
	Long: `drasi-server binds Sources, continuous Queries and Reactions together
behind a single control-plane HTTP API, routing change events between them
without any external message broker.`,
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from main at
// build time so "--version" reports the linked build, not "dev".
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command, translating a returned error into a
// nonzero process exit code.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "drasi-server version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
