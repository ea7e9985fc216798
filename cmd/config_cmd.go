package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TripodGG/aegis-discord-bot/internal/commands"
	"github.com/TripodGG/aegis-discord-bot/internal/database"
	"github.com/TripodGG/aegis-discord-bot/pkg/util"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect stored guild configuration",
}

var configShowGuild string

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the committed configuration of one guild as JSON",
	RunE:  showConfig,
}

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Print the slash command definitions as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printJSON(cmd, commands.GetAllCommands())
	},
}

func init() {
	configShowCmd.Flags().StringVar(&configShowGuild, "guild", "", "guild id")
	_ = configShowCmd.MarkFlagRequired("guild")
	configCmd.AddCommand(configShowCmd)
}

func showConfig(cmd *cobra.Command, _ []string) error {
	if !util.IsSnowflake(configShowGuild) {
		return fmt.Errorf("invalid guild id %q", configShowGuild)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateStorage(); err != nil {
		return err
	}

	store, err := database.Open(cmd.Context(), cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	gc, err := store.GetGuildConfig(cmd.Context(), configShowGuild)
	if err != nil {
		return fmt.Errorf("guild %s: %w", configShowGuild, err)
	}
	return printJSON(cmd, gc)
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
