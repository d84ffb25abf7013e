// Command alcq is the command-line front-end for the ALCQ tableau engine:
// consistency checking and subsumption checking over a textual ABox/TBox.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nodeadmin/alcq-tableau/internal/config"
	"github.com/nodeadmin/alcq-tableau/internal/logging"
)

var (
	configPath string
	verbose    bool
	workers    int

	logger *zap.Logger
	cfg    *config.Config
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "alcq",
	Short: "ALCQ tableau reasoner: consistency and subsumption checking",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		logger, err = logging.New(cfg.Logging.Level == "debug")
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
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to an optional YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log one line per fired completion rule")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 1, "worker count for the concurrent search (1 = sequential)")

	rootCmd.AddCommand(checkConsistencyCmd, checkSubsumptionCmd)
}
