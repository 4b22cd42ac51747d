// ABOUTME: Whoami command showing the current session's profile
// ABOUTME: Displays the cached identity, backend profile, and token expiry

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/swaphub/swaphub-cli/internal/api"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently logged-in user",
	Long:  `Show the stored identity, verify it against the backend, and display token expiry.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runWhoami(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami executes the whoami flow and returns an exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	env := newAppEnv()
	state := env.session.Hydrate()
	if !state.Authenticated {
		fmt.Fprintln(w, "Not logged in.")
		return 1
	}

	profile, err := env.client.Me(ctx)
	if err != nil {
		return env.printErr(w, err)
	}

	token, _, _ := env.store.Load()
	expiry, hasExpiry := api.TokenExpiry(token)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatWhoamiJSON(profile, expiry, hasExpiry))
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(profile, expiry, hasExpiry))
	}
	return 0
}

// formatWhoamiHuman formats the profile for human readability
func formatWhoamiHuman(p *api.Profile, expiry time.Time, hasExpiry bool) string {
	out := fmt.Sprintf(`User:  %s
ID:    %d
Email: %s
Role:  %s`, p.Username, p.ID, p.Email, p.Role)
	if hasExpiry {
		out += fmt.Sprintf("\nToken: expires %s", expiry.Local().Format(time.RFC1123))
	}
	return out
}

// formatWhoamiJSON formats the profile as JSON
func formatWhoamiJSON(p *api.Profile, expiry time.Time, hasExpiry bool) string {
	output := map[string]interface{}{
		"id":       p.ID,
		"username": p.Username,
		"email":    p.Email,
		"role":     p.Role,
	}
	if hasExpiry {
		output["token_expires_at"] = expiry.UTC().Format(time.RFC3339)
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
