package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/menupilot/menupilot/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show menupilot status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	fmt.Printf("%s menupilot Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:      %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	restaurant := cfg.Restaurant.URL
	if restaurant == "" {
		restaurant = "(not set)"
	}
	fmt.Printf("Restaurant:  %s\n", restaurant)
	fmt.Printf("Model:       %s\n", cfg.Provider.Model)

	keyMark := "(not set)"
	if cfg.Provider.APIKey != "" {
		keyMark = "✓"
	}
	fmt.Printf("Gemini key:  %s\n", keyMark)
	fmt.Printf("Mongo:       %s/%s.%s\n", cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
	fmt.Printf("Cache dir:   %s\n\n", cfg.Cache.Dir)

	fmt.Println("Channels:")
	tgMark := "(disabled)"
	if cfg.Channels.Telegram.Enabled {
		tgMark = "✓"
	}
	slackMark := "(disabled)"
	if cfg.Channels.Slack.Enabled {
		slackMark = "✓"
	}
	fmt.Printf("  %-10s %s\n", "telegram", tgMark)
	fmt.Printf("  %-10s %s\n", "slack", slackMark)
	return nil
}
