// ABOUTME: Exchange request commands: send, sent, received, accept/reject/cancel
// ABOUTME: All require an authenticated session

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
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Manage exchange requests",
}

var requestsSendCmd = &cobra.Command{
	Use:   "send <item-id>",
	Short: "Request an item from another user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithExit(func(ctx context.Context, w io.Writer) int {
			itemID, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Fprintf(w, "Invalid item ID %q\n", args[0])
				return 1
			}
			env := newAppEnv()
			if !env.requireSession(cmd, w) {
				return 1
			}
			id, err := env.client.CreateRequest(ctx, itemID)
			if err != nil {
				return env.printErr(w, err)
			}
			fmt.Fprintf(w, "Request sent (ID %d)\n", id)
			return 0
		})
	},
}

var requestsSentCmd = &cobra.Command{
	Use:   "sent",
	Short: "List requests you have sent",
	Run: func(cmd *cobra.Command, args []string) {
		runWithExit(func(ctx context.Context, w io.Writer) int {
			env := newAppEnv()
			if !env.requireSession(cmd, w) {
				return 1
			}
			reqs, err := env.client.SentRequests(ctx)
			if err != nil {
				return env.printErr(w, err)
			}
			if IsJSONOutput() {
				data, _ := json.MarshalIndent(reqs, "", "  ")
				fmt.Fprintln(w, string(data))
				return 0
			}
			fmt.Fprintln(w, formatSentHuman(reqs))
			return 0
		})
	},
}

var requestsReceivedCmd = &cobra.Command{
	Use:   "received",
	Short: "List requests others made for your items",
	Run: func(cmd *cobra.Command, args []string) {
		runWithExit(func(ctx context.Context, w io.Writer) int {
			env := newAppEnv()
			if !env.requireSession(cmd, w) {
				return 1
			}
			reqs, err := env.client.ReceivedRequests(ctx)
			if err != nil {
				return env.printErr(w, err)
			}
			if IsJSONOutput() {
				data, _ := json.MarshalIndent(reqs, "", "  ")
				fmt.Fprintln(w, string(data))
				return 0
			}
			fmt.Fprintln(w, formatReceivedHuman(reqs))
			return 0
		})
	},
}

func init() {
	requestsCmd.AddCommand(requestsSendCmd, requestsSentCmd, requestsReceivedCmd)
	for _, status := range []string{api.RequestAccepted, api.RequestRejected, api.RequestCancelled} {
		requestsCmd.AddCommand(newStatusCmd(status))
	}
	rootCmd.AddCommand(requestsCmd)
}

// newStatusCmd builds accept/reject/cancel commands sharing one flow
func newStatusCmd(status string) *cobra.Command {
	var verb string
	switch status {
	case api.RequestAccepted:
		verb = "accept"
	case api.RequestRejected:
		verb = "reject"
	case api.RequestCancelled:
		verb = "cancel"
	}
	return &cobra.Command{
		Use:   verb + " <request-id>",
		Short: "Mark a received request as " + status,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runWithExit(func(ctx context.Context, w io.Writer) int {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					fmt.Fprintf(w, "Invalid request ID %q\n", args[0])
					return 1
				}
				env := newAppEnv()
				if !env.requireSession(cmd, w) {
					return 1
				}
				if err := env.client.UpdateRequestStatus(ctx, id, status); err != nil {
					return env.printErr(w, err)
				}
				fmt.Fprintf(w, "Request %d marked %s\n", id, status)
				return 0
			})
		},
	}
}

// formatSentHuman renders the sent-requests table
func formatSentHuman(reqs []api.SentRequest) string {
	if len(reqs) == 0 {
		return "No requests sent."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s %-30s %-10s %s\n", "ID", "ITEM", "STATUS", "CREATED")
	for _, r := range reqs {
		fmt.Fprintf(&b, "%-5d %-30s %-10s %s\n", r.ID, truncate(r.ItemTitle, 30), r.Status, r.CreatedAt)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatReceivedHuman renders the received-requests table
func formatReceivedHuman(reqs []api.ReceivedRequest) string {
	if len(reqs) == 0 {
		return "No requests received."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s %-30s %-15s %-10s %s\n", "ID", "ITEM", "FROM", "STATUS", "CREATED")
	for _, r := range reqs {
		fmt.Fprintf(&b, "%-5d %-30s %-15s %-10s %s\n",
			r.ID, truncate(r.ItemTitle, 30), truncate(r.RequesterUsername, 15), r.Status, r.CreatedAt)
	}
	return strings.TrimRight(b.String(), "\n")
}
