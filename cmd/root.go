// Package cmd implements the menupilot CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"
const logo = "🧭"

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "menupilot",
	Short: logo + " menupilot — conversational menu assistant for restaurants",
	Long: logo + ` menupilot — a conversational assistant that lets restaurant
owners manage their menu by chatting: add, update, and remove dishes, import
menus from photos or web pages, and serve the same assistant over Telegram,
Slack, and a WebSocket gateway.`,
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(gatewayCmd)
	rootCmd.AddCommand(statusCmd)
}

func printResponse(text string) {
	if text == "" {
		return
	}
	fmt.Printf("\n%s menupilot\n%s\n\n", logo, text)
}
