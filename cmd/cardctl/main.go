package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nattsrk/AnurVCardPro/internal/logging"
)

var (
	configPath   string
	outputFormat string

	// cfg is loaded once per invocation by the root pre-run.
	cfg stationConfig
)

var rootCmd = &cobra.Command{
	Use:   "cardctl",
	Short: "Read, write and reconcile insurance contact cards",
	Long: `cardctl drives a card station: it reads the contact card, compares its
policies with the insurance backend and writes merged contents back.

The card is an NDEF message image on disk (tag_path in the config).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validOutput(outputFormat); err != nil {
			return err
		}
		loaded, err := loadStationConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logging.SetLevel(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "station config file (TOML)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", outputText, "output format: text, json or yaml")

	rootCmd.AddCommand(readCmd, writeCmd, compareCmd, syncCmd, serveCmd, logCmd, configCmd)
	syncCmd.AddCommand(syncCardCmd, syncBackendCmd)
	configCmd.AddCommand(configInitCmd)
}

func main() {
	logging.ConfigureRuntime()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "cardctl: %v\n", err)
		os.Exit(1)
	}
}
