package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/TripodGG/aegis-discord-bot/internal/bootstrap"
	"github.com/TripodGG/aegis-discord-bot/internal/config"
	"github.com/TripodGG/aegis-discord-bot/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "aegis",
	Short: "Aegis - Rules of Engagement bot for Discord",
	Long: `Aegis gates /roe reports and /declare announcements behind per-guild role
rules that admins configure with /setup.

Settings come from an optional config file, overridden by environment
variables (DISCORD_TOKEN, GUILD_ID, AEGIS_*).`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and serve commands until interrupted",
	RunE:  runBot,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml, json or toml)")
	rootCmd.AddCommand(runCmd, configCmd, commandsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func runBot(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := bootstrap.New(cfg)
	if err := b.Initialize(ctx); err != nil {
		return err
	}
	defer logging.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := b.Start(); err != nil {
			return fmt.Errorf("startup failed: %w", err)
		}
		logging.Info("Aegis standing by")
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutdown signal received")
		return nil
	})

	runErr := g.Wait()
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	if err := b.Shutdown(); err != nil {
		logging.Error("Shutdown failed: %v", err)
		if runErr == nil {
			runErr = err
		}
	}
	logging.Info("Shutdown complete")
	return runErr
}
