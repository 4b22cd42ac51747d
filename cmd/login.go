// ABOUTME: Login and logout commands for the swaphub CLI
// ABOUTME: Prompts for missing credentials and manages the stored session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the marketplace",
	Long:  `Authenticate against the swaphub backend and store the session locally.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runLogin(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored session",
	Long:  `Invalidate the current token server-side (best effort) and remove the local session.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runLogout(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

// promptCredentials asks for whichever credentials were not given as flags
func promptCredentials(username, password *string) error {
	var fields []huh.Field
	if *username == "" {
		fields = append(fields, huh.NewInput().Title("Username").Value(username))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeBase()).Run()
}

// runLogin executes the login flow and returns an exit code
func runLogin(ctx context.Context, w io.Writer) int {
	env := newAppEnv()
	env.session.Hydrate()

	if notice, ok := env.session.TakeExpiredNotice(); ok {
		fmt.Fprintln(w, notice)
	}

	username, password := loginUsername, loginPassword
	if err := promptCredentials(&username, &password); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}
	if username == "" || password == "" {
		fmt.Fprintln(w, "Username and password are required.")
		return 1
	}

	result := env.session.Login(ctx, username, password)
	if !result.OK {
		fmt.Fprintln(w, result.Reason)
		return 1
	}

	state := env.session.Snapshot()
	fmt.Fprintf(w, "Logged in as %s (%s)\n", state.User.Username, state.User.Role)
	return 0
}

// runLogout executes the logout flow and returns an exit code
func runLogout(ctx context.Context, w io.Writer) int {
	env := newAppEnv()
	env.session.Hydrate()
	env.session.Logout(ctx)
	fmt.Fprintln(w, "Logged out.")
	return 0
}
