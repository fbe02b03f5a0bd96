package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"leaguehelper/internal/config"
	"leaguehelper/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool
	dev        bool
	installDir string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "leaguehelper",
	Short: "Keeps League rune pages and summoner spells in sync with current builds",
	Long: `leaguehelper assembles a build catalog from Data Dragon and u.gg statistics,
then watches champion select and applies the best rune page and summoner
spells for your champion and role.

Run "leaguehelper sync" while the League client is open.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			configPath = config.DefaultPath()
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if installDir != "" {
			cfg.InstallDir = installDir
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logger, err = logging.New(cfg.Log.Level, verbose, dev || cfg.Log.Development)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: <user config dir>/LeagueHelper/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&dev, "dev", false, "Human readable console logs")
	rootCmd.PersistentFlags().StringVar(&installDir, "install-dir", "", "League install directory")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
