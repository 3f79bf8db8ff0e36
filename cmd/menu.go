package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/menupilot/menupilot/internal/config"
	"github.com/menupilot/menupilot/internal/dependency"
	"github.com/menupilot/menupilot/internal/shared/labels"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Print the current menu",
	RunE:  runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}
	defer container.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	menu, err := container.MenuStore().Menu(ctx)
	if err != nil {
		return err
	}
	if menu.Count() == 0 {
		fmt.Println("The menu is empty.")
		return nil
	}

	for _, category := range menu.Categories() {
		fmt.Printf("\n%s %s\n", labels.BestEmoji(category), category)
		for _, name := range menu[category].Dishes() {
			dish := menu[category][name]
			marker := ""
			if !dish.Status {
				marker = "  (sold out)"
			}
			fmt.Printf("  %-30s %8.2f%s\n", dish.Name, dish.Price, marker)
		}
	}
	fmt.Println()
	return nil
}
