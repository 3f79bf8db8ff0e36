package cmd

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/menupilot/menupilot/internal/config"
	"github.com/menupilot/menupilot/internal/dependency"
)

var (
	importImage string
	importURL   string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a menu from a photo or a web page",
	Long: `Extracts dishes from a menu photo (--image) or a restaurant web
page (--url) and merges them into the stored menu. Dishes already on the menu
are left untouched.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importImage, "image", "", "Path to a menu photo")
	importCmd.Flags().StringVar(&importURL, "url", "", "URL of a page with the menu")
}

func runImport(_ *cobra.Command, _ []string) error {
	if (importImage == "") == (importURL == "") {
		return fmt.Errorf("pass exactly one of --image or --url")
	}

	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}
	defer container.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	fmt.Fprintf(os.Stderr, "  ↳ extracting menu...\n")

	imports := container.Importer()
	if importImage != "" {
		image, err := os.ReadFile(importImage)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		mimeType := mime.TypeByExtension(filepath.Ext(importImage))
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		report, err := imports.ImportImage(ctx, image, mimeType)
		if err != nil {
			return err
		}
		fmt.Printf("%s Import finished: %s\n", logo, report)
		return nil
	}

	report, err := imports.ImportURL(ctx, importURL)
	if err != nil {
		return err
	}
	fmt.Printf("%s Import finished: %s\n", logo, report)
	return nil
}
