// ABOUTME: Entry point for the swaphub CLI
// ABOUTME: Terminal client for the swaphub item-exchange marketplace

package main

import (
	"fmt"
	"os"

	"github.com/swaphub/swaphub-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
