package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/menupilot/menupilot/internal/assistant"
	"github.com/menupilot/menupilot/internal/config"
	"github.com/menupilot/menupilot/internal/dependency"
)

var (
	chatMessage string
	chatSession string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the menu assistant",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "cli:direct", "Session key")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}
	defer container.Close() //nolint:errcheck

	responder := container.Responder()

	if chatMessage != "" {
		return runSingleMessage(responder, chatMessage)
	}
	return runInteractive(responder)
}

// runSingleMessage sends one message to the assistant and prints the reply.
func runSingleMessage(responder *assistant.Responder, message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Fprintf(os.Stderr, "  ↳ thinking...\n")
	reply, err := responder.Respond(ctx, chatSession, message)
	if err != nil {
		return err
	}
	printResponse(reply)
	return nil
}

// runInteractive starts the REPL loop: reads lines from stdin and runs one
// assistant turn per line.
func runInteractive(responder *assistant.Responder) error {
	fmt.Printf("%s Interactive mode (type 'exit' or Ctrl+C to quit, '/reset' to clear history)\n\n", logo)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitCommands[strings.ToLower(line)] {
			fmt.Println("Goodbye!")
			return nil
		}
		if line == "/reset" {
			responder.Reset(chatSession)
			fmt.Println("Conversation cleared.")
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		reply, err := responder.Respond(ctx, chatSession, line)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		printResponse(reply)
	}
}
