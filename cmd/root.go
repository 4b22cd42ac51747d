// ABOUTME: Root command for the swaphub CLI
// ABOUTME: Handles global flags, configuration, and shared wiring

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/swaphub/swaphub-cli/internal/api"
	"github.com/swaphub/swaphub-cli/internal/config"
	"github.com/swaphub/swaphub-cli/internal/debuglog"
	"github.com/swaphub/swaphub-cli/internal/session"
	"github.com/swaphub/swaphub-cli/internal/store"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "swaphub",
	Short: "Terminal client for the swaphub item-exchange marketplace",
	Long: `swaphub is a terminal client for the swaphub item-exchange marketplace.

Browse items, offer your own, request exchanges, and manage the
marketplace as an admin. Use 'swaphub ui' for the interactive interface.

Environment Variables:
  SWAPHUB_API_URL  Backend API URL (default: http://localhost:5000/api)
  SWAPHUB_TIMEOUT  Request timeout in seconds (default: 20)`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides SWAPHUB_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	return config.Load().APIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// appEnv bundles the wired client stack every command needs
type appEnv struct {
	cfg     *config.Config
	store   *store.Store
	client  *api.Client
	session *session.Controller
}

// newAppEnv wires config, storage, API client, and session controller
func newAppEnv() *appEnv {
	cfg := config.Load()
	configDir := store.DefaultConfigDir()
	if err := debuglog.Init(configDir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: debug log unavailable: %v\n", err)
	}

	st := store.New(configDir)
	client := api.New(GetAPIURL(), st, api.WithTimeout(cfg.Timeout))
	return &appEnv{
		cfg:     cfg,
		store:   st,
		client:  client,
		session: session.New(client, st),
	}
}

// printErr writes a failure message plus any pending session-expired
// notice, and returns the backend-failure exit code
func (env *appEnv) printErr(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)
	if notice, ok := env.session.TakeExpiredNotice(); ok {
		fmt.Fprintln(w, notice)
		fmt.Fprintln(w, "Run 'swaphub login' to start a new session.")
	}
	return 2
}

// requireSession hydrates and verifies the stored session. Returns false
// with a message when the user must log in first.
func (env *appEnv) requireSession(cmd *cobra.Command, w io.Writer) bool {
	state := env.session.HydrateAndVerify(cmd.Context())
	if !state.Authenticated {
		if notice, ok := env.session.TakeExpiredNotice(); ok {
			fmt.Fprintln(w, notice)
		}
		fmt.Fprintln(w, "Not logged in. Run 'swaphub login' first.")
		return false
	}
	return true
}

// requireRole additionally gates admin-only commands client-side. The
// backend enforces the role regardless; this just fails fast with a
// friendly message.
func (env *appEnv) requireRole(cmd *cobra.Command, w io.Writer, roles ...string) bool {
	if !env.requireSession(cmd, w) {
		return false
	}
	if env.session.Authorize(session.RequireRoles(roles...)) != session.Allow {
		fmt.Fprintln(w, "You do not have the required permissions for this command.")
		return false
	}
	return true
}
