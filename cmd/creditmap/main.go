package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mind-engage/creditmap/internal/config"
)

var (
	// Global flags
	configFile string
	verbose    bool

	v      = config.NewViper()
	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "creditmap",
	Short: "US state credit dashboard: choropleth, scatterplot and prediction gauges",
	Long: `creditmap serves a dashboard of average FICO scores by state, a credit
score vs income scatterplot of loan samples, and two gauges fed by the loan
approval and credit score prediction services.

Settings come from environment variables (HTTP_ADDR, DB_DRIVER, ...) and
optionally a YAML file given with --config.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		if logger, err = zc.Build(); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if err := config.ReadFile(v, configFile); err != nil {
			return err
		}
		cfg = config.Load(v)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("blob-base-path", "", "dataset directory (BLOB_BASE_PATH)")
	_ = v.BindPFlag("blob_base_path", rootCmd.PersistentFlags().Lookup("blob-base-path"))

	rootCmd.AddCommand(serveCmd, renderCmd, statesCmd, classifyCmd, prepareCmd, exportCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
