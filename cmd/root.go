package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/trilogic/internal/config"
	"github.com/abhisek/trilogic/internal/problem"
	"github.com/abhisek/trilogic/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "trilogic",
	Short: "Step-by-step argument analysis tutor",
	Long:  "Trilogic — terminal tutor that walks learners through the shape of an argument, from its conclusion to its repair.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "HCL config file (overrides TRILOGIC_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "SQLite path or Postgres DSN (overrides TRILOGIC_DB env var)")
	rootCmd.PersistentFlags().String("db-driver", "", "Event store driver: sqlite or postgres (overrides TRILOGIC_DB_DRIVER)")
	rootCmd.PersistentFlags().String("problems", "", "Problem file or directory (overrides TRILOGIC_PROBLEMS)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(problemsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig layers defaults, the config file, the environment and flags,
// in that order.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.DefaultConfig()
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv(config.EnvFile)
	}
	if path != "" {
		var err error
		if cfg, err = config.LoadFile(path, cfg); err != nil {
			return cfg, err
		}
	}
	cfg = config.ApplyEnv(cfg)

	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBDSN = v
	}
	if v, _ := cmd.Flags().GetString("db-driver"); v != "" {
		cfg.DBDriver = v
	}
	if v, _ := cmd.Flags().GetString("problems"); v != "" {
		cfg.ProblemsPath = v
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.HTTP.Addr = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadBank loads the configured problem bank.
func loadBank(cfg config.Config) (*problem.Bank, error) {
	bank, err := problem.LoadOrDefault(cfg.ProblemsPath)
	if err != nil {
		return nil, fmt.Errorf("load problems: %w", err)
	}
	return bank, nil
}

// openStore opens the configured event store.
func openStore(cfg config.Config) (*store.Store, error) {
	drv, err := store.ParseDriver(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(drv, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
