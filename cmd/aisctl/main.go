package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ais-service/internal/config"
	"github.com/ais-service/internal/pkg/logger"
)

var (
	cfg *config.Config
	log *zap.Logger

	flagSource string
	flagDir    string
)

var rootCmd = &cobra.Command{
	Use:   "aisctl",
	Short: "Operate the AIS address index",
	Long:  "Validate address snapshots, query the index offline and request a refresh of running servers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if flagSource != "" {
			c.Index.Source = flagSource
		}
		if flagDir != "" {
			c.Index.Dir = flagDir
		}
		cfg = c

		l, err := logger.New(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "snapshot source: postgres, file or objectstore (overrides INDEX_SOURCE)")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "snapshot directory for the file source (overrides INDEX_DIR)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
