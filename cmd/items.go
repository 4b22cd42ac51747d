// ABOUTME: Item commands: list, get, create, update, delete
// ABOUTME: Listing works unauthenticated; mutations require a session

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/swaphub/swaphub-cli/internal/api"
)

var itemInput api.ItemInput

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Browse and manage marketplace items",
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all items",
	Run: func(cmd *cobra.Command, args []string) {
		runWithExit(func(ctx context.Context, w io.Writer) int {
			env := newAppEnv()
			items, err := env.client.ListItems(ctx)
			if err != nil {
				return env.printErr(w, err)
			}
			if IsJSONOutput() {
				data, _ := json.MarshalIndent(items, "", "  ")
				fmt.Fprintln(w, string(data))
				return 0
			}
			fmt.Fprintln(w, formatItemsHuman(items))
			return 0
		})
	},
}

var itemsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single item",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithExit(func(ctx context.Context, w io.Writer) int {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Fprintf(w, "Invalid item ID %q\n", args[0])
				return 1
			}
			env := newAppEnv()
			item, err := env.client.GetItem(ctx, id)
			if err != nil {
				return env.printErr(w, err)
			}
			if IsJSONOutput() {
				data, _ := json.MarshalIndent(item, "", "  ")
				fmt.Fprintln(w, string(data))
				return 0
			}
			fmt.Fprintln(w, formatItemHuman(item))
			return 0
		})
	},
}

var itemsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Offer a new item for exchange",
	Run: func(cmd *cobra.Command, args []string) {
		runWithExit(func(ctx context.Context, w io.Writer) int {
			env := newAppEnv()
			if !env.requireSession(cmd, w) {
				return 1
			}
			if itemInput.Title == "" || itemInput.Description == "" || itemInput.Category == "" || itemInput.Location == "" {
				fmt.Fprintln(w, "Title, description, category, and location are required.")
				return 1
			}
			id, err := env.client.CreateItem(ctx, itemInput)
			if err != nil {
				return env.printErr(w, err)
			}
			fmt.Fprintf(w, "Item created (ID %d)\n", id)
			return 0
		})
	},
}

var itemsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update one of your items",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithExit(func(ctx context.Context, w io.Writer) int {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Fprintf(w, "Invalid item ID %q\n", args[0])
				return 1
			}
			env := newAppEnv()
			if !env.requireSession(cmd, w) {
				return 1
			}
			if err := env.client.UpdateItem(ctx, id, itemInput); err != nil {
				return env.printErr(w, err)
			}
			fmt.Fprintln(w, "Item updated.")
			return 0
		})
	},
}

var itemsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your items",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithExit(func(ctx context.Context, w io.Writer) int {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Fprintf(w, "Invalid item ID %q\n", args[0])
				return 1
			}
			env := newAppEnv()
			if !env.requireSession(cmd, w) {
				return 1
			}
			if err := env.client.DeleteItem(ctx, id); err != nil {
				return env.printErr(w, err)
			}
			fmt.Fprintln(w, "Item deleted.")
			return 0
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{itemsCreateCmd, itemsUpdateCmd} {
		c.Flags().StringVar(&itemInput.Title, "title", "", "Item title")
		c.Flags().StringVar(&itemInput.Description, "description", "", "Item description")
		c.Flags().StringVar(&itemInput.Category, "category", "", "Item category")
		c.Flags().StringVar(&itemInput.Location, "location", "", "Item location")
		c.Flags().StringVar(&itemInput.ImageURL, "image-url", "", "Item image URL")
	}

	itemsCmd.AddCommand(itemsListCmd, itemsGetCmd, itemsCreateCmd, itemsUpdateCmd, itemsDeleteCmd)
	rootCmd.AddCommand(itemsCmd)
}

// runWithExit wraps a run function with signal handling and exit codes
func runWithExit(run func(ctx context.Context, w io.Writer) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if exitCode := run(ctx, os.Stdout); exitCode != 0 {
		os.Exit(exitCode)
	}
}

// formatItemsHuman renders an aligned item table
func formatItemsHuman(items []api.Item) string {
	if len(items) == 0 {
		return "No items listed."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s %-30s %-15s %-15s %s\n", "ID", "TITLE", "CATEGORY", "LOCATION", "STATUS")
	for _, item := range items {
		fmt.Fprintf(&b, "%-5d %-30s %-15s %-15s %s\n",
			item.ID, truncate(item.Title, 30), truncate(item.Category, 15), truncate(item.Location, 15), item.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatItemHuman renders a single item's details
func formatItemHuman(item *api.Item) string {
	return fmt.Sprintf(`ID:          %d
Title:       %s
Description: %s
Category:    %s
Location:    %s
Status:      %s
Owner:       user %d
Listed:      %s`,
		item.ID, item.Title, item.Description, item.Category, item.Location,
		item.Status, item.UserID, item.CreatedAt)
}

// truncate shortens s to max runes with an ellipsis
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
