// ABOUTME: Admin commands: user and request management
// ABOUTME: Gated client-side by role; the backend enforces it regardless

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swaphub/swaphub-cli/internal/api"
	"github.com/swaphub/swaphub-cli/internal/store"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administer users and requests (admin role required)",
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List all users",
	Run: func(cmd *cobra.Command, args []string) {
		runWithExit(func(ctx context.Context, w io.Writer) int {
			env := newAppEnv()
			if !env.requireRole(cmd, w, store.RoleAdmin) {
				return 1
			}
			users, err := env.client.AdminUsers(ctx)
			if err != nil {
				return env.printErr(w, err)
			}
			if IsJSONOutput() {
				data, _ := json.MarshalIndent(users, "", "  ")
				fmt.Fprintln(w, string(data))
				return 0
			}
			fmt.Fprintln(w, formatUsersHuman(users))
			return 0
		})
	},
}

var adminRequestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List all exchange requests",
	Run: func(cmd *cobra.Command, args []string) {
		runWithExit(func(ctx context.Context, w io.Writer) int {
			env := newAppEnv()
			if !env.requireRole(cmd, w, store.RoleAdmin) {
				return 1
			}
			reqs, err := env.client.AdminRequests(ctx)
			if err != nil {
				return env.printErr(w, err)
			}
			if IsJSONOutput() {
				data, _ := json.MarshalIndent(reqs, "", "  ")
				fmt.Fprintln(w, string(data))
				return 0
			}
			fmt.Fprintln(w, formatAdminRequestsHuman(reqs))
			return 0
		})
	},
}

var adminCreateCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a new admin user",
	Run: func(cmd *cobra.Command, args []string) {
		runWithExit(func(ctx context.Context, w io.Writer) int {
			env := newAppEnv()
			if !env.requireRole(cmd, w, store.RoleAdmin) {
				return 1
			}
			if registerUsername == "" || registerEmail == "" || registerPassword == "" {
				fmt.Fprintln(w, "Username, email, and password are required.")
				return 1
			}
			id, err := env.client.CreateAdminUser(ctx, api.RegisterInput{
				Username: registerUsername,
				Email:    registerEmail,
				Password: registerPassword,
			})
			if err != nil {
				return env.printErr(w, err)
			}
			fmt.Fprintf(w, "Admin user created (ID %d)\n", id)
			return 0
		})
	},
}

var adminDeleteRequestCmd = &cobra.Command{
	Use:   "delete-request <id>",
	Short: "Delete an exchange request",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithExit(func(ctx context.Context, w io.Writer) int {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Fprintf(w, "Invalid request ID %q\n", args[0])
				return 1
			}
			env := newAppEnv()
			if !env.requireRole(cmd, w, store.RoleAdmin) {
				return 1
			}
			if err := env.client.AdminDeleteRequest(ctx, id); err != nil {
				return env.printErr(w, err)
			}
			fmt.Fprintln(w, "Request deleted.")
			return 0
		})
	},
}

var adminDeleteUserCmd = &cobra.Command{
	Use:   "delete-user <id>",
	Short: "Delete a user and all their data",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithExit(func(ctx context.Context, w io.Writer) int {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Fprintf(w, "Invalid user ID %q\n", args[0])
				return 1
			}
			env := newAppEnv()
			if !env.requireRole(cmd, w, store.RoleAdmin) {
				return 1
			}
			if err := env.client.AdminDeleteUser(ctx, id); err != nil {
				return env.printErr(w, err)
			}
			fmt.Fprintln(w, "User deleted.")
			return 0
		})
	},
}

func init() {
	adminCreateCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Username")
	adminCreateCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Email address")
	adminCreateCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "Password")

	adminCmd.AddCommand(adminUsersCmd, adminRequestsCmd, adminCreateCmd, adminDeleteRequestCmd, adminDeleteUserCmd)
	rootCmd.AddCommand(adminCmd)
}

// formatUsersHuman renders the user table
func formatUsersHuman(users []api.AdminUser) string {
	if len(users) == 0 {
		return "No users."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s %-20s %-30s %-6s %s\n", "ID", "USERNAME", "EMAIL", "ROLE", "CREATED")
	for _, u := range users {
		fmt.Fprintf(&b, "%-5d %-20s %-30s %-6s %s\n",
			u.ID, truncate(u.Username, 20), truncate(u.Email, 30), u.Role, u.CreatedAt)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatAdminRequestsHuman renders the full request table
func formatAdminRequestsHuman(reqs []api.AdminRequest) string {
	if len(reqs) == 0 {
		return "No requests."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s %-25s %-15s %-15s %-10s %s\n", "ID", "ITEM", "FROM", "TO", "STATUS", "CREATED")
	for _, r := range reqs {
		fmt.Fprintf(&b, "%-5d %-25s %-15s %-15s %-10s %s\n",
			r.ID, truncate(r.ItemTitle, 25), truncate(r.RequesterUsername, 15),
			truncate(r.OwnerUsername, 15), r.Status, r.CreatedAt)
	}
	return strings.TrimRight(b.String(), "\n")
}
