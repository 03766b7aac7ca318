package command

// root.go defines the root command for softwire-cli and its global flags.

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var apiURL string // Global flag for API server URL

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "softwire-cli",
	Short: "softwire-cli - SoftWire account command line client",
	Long: `softwire-cli talks to the SoftWire India auth API. It can:
- Register an account and confirm the e-mail address
- Log in and keep the session token in the OS keyring
- Show who the stored session belongs to
- Check that the API is up

Use "softwire-cli command -h" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

func init() {
	defaultAPI := os.Getenv("SOFTWIRE_API")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:3000"
	}
	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultAPI, "API server URL")
}
