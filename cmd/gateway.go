package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/menupilot/menupilot/internal/channels"
	"github.com/menupilot/menupilot/internal/config"
	"github.com/menupilot/menupilot/internal/dependency"
	"github.com/menupilot/menupilot/internal/gateway"
	"github.com/menupilot/menupilot/internal/refresh"
)

var gatewayPort int

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the menupilot gateway server",
	Long: `Runs the WebSocket gateway for the mobile app, every enabled chat
channel, and the background cache refresher, until interrupted.`,
	RunE: runGateway,
}

func init() {
	gatewayCmd.Flags().IntVarP(&gatewayPort, "port", "p", 0, "Gateway port (overrides config)")
}

func runGateway(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if gatewayPort != 0 {
		cfg.Gateway.Port = gatewayPort
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}
	defer container.Close() //nolint:errcheck

	fmt.Printf("%s Starting menupilot gateway on port %d...\n", logo, cfg.Gateway.Port)

	responder := container.Responder()
	server := gateway.New(responder, cfg.Gateway.Host, cfg.Gateway.Port)
	channelMgr := channels.NewManager(cfg, responder, container.Importer())

	if enabled := channelMgr.EnabledChannels(); len(enabled) > 0 {
		fmt.Printf("✓ Channels enabled: %s\n", strings.Join(enabled, ", "))
	} else {
		fmt.Println("Warning: no channels enabled")
	}

	// Graceful shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Start(gctx) })
	g.Go(func() error { return channelMgr.StartAll(gctx) })
	if cfg.Refresh.Enabled {
		refresher := refresh.NewService(container.MenuStore(), cfg.Refresh.Schedule)
		g.Go(func() error { return refresher.Start(gctx) })
	}

	fmt.Printf("%s Gateway running. Press Ctrl+C to stop.\n", logo)

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "gateway error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
