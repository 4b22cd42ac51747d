// ABOUTME: UI command that launches the interactive terminal interface
// ABOUTME: Hands the wired client and session controller to the TUI

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/swaphub/swaphub-cli/internal/debuglog"
	"github.com/swaphub/swaphub-cli/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the interactive terminal interface",
	Long: `Launch the full-screen terminal interface.

Restores any stored session, then shows the marketplace dashboard
with item, sent-request, and received-request views. Admins get an
additional management screen.`,
	Run: func(cmd *cobra.Command, args []string) {
		env := newAppEnv()
		defer debuglog.Close()
		if err := tui.Run(env.client, env.session); err != nil {
			fmt.Fprintf(os.Stderr, "Error running UI: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
