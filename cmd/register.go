// ABOUTME: Register command for creating a new marketplace account
// ABOUTME: Prompts for missing fields and reports the created user ID

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

	"github.com/swaphub/swaphub-cli/internal/api"
)

var (
	registerUsername string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runRegister(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Username")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Email address")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "Password (prompted when omitted)")
	rootCmd.AddCommand(registerCmd)
}

// runRegister executes registration and returns an exit code
func runRegister(ctx context.Context, w io.Writer) int {
	env := newAppEnv()

	username, email, password := registerUsername, registerEmail, registerPassword
	var fields []huh.Field
	if username == "" {
		fields = append(fields, huh.NewInput().Title("Username").Value(&username))
	}
	if email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&email))
	}
	if password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password))
	}
	if len(fields) > 0 {
		if err := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeBase()).Run(); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 1
		}
	}
	if username == "" || email == "" || password == "" {
		fmt.Fprintln(w, "Username, email, and password are required.")
		return 1
	}

	userID, err := env.client.Register(ctx, api.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return env.printErr(w, err)
	}

	fmt.Fprintf(w, "Account created (user ID %d). Run 'swaphub login' to sign in.\n", userID)
	return 0
}
