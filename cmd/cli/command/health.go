package command

import (
	"fmt"

	"softwire/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the API server is running",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.NewHTTPClient(apiURL).Health()
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		color.Green("✓ %s (%s)", resp.Message, resp.Timestamp)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
