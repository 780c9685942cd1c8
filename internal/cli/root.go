package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/config"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/logger"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags and the configuration resolved from them.
type RootOptions struct {
	EnvFile    string
	Storage    string
	SQLitePath string
	LogLevel   string

	cfg config.Config
	log zerolog.Logger
}

// NewRootCommand creates the root command of the cash ledger.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "cashledger",
		Short:         "Multi-store cash ledger",
		Long:          "Track cash added to and withdrawn from each store's safe, with public balances and admin audits.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file to load before reading the environment")
	cmd.PersistentFlags().StringVar(&opts.Storage, "storage", "", "storage backend (memory|sqlite|postgres); overrides CASHLEDGER_STORAGE")
	cmd.PersistentFlags().StringVar(&opts.SQLitePath, "sqlite-path", "", "sqlite database file; overrides CASHLEDGER_SQLITE_PATH")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level; overrides CASHLEDGER_LOG_LEVEL")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewBalanceCommand(opts))
	cmd.AddCommand(NewLedgerCommand(opts))
	cmd.AddCommand(NewSubmitCommand(opts))

	return cmd
}

func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.EnvFile)
	if err != nil {
		return err
	}
	if o.Storage != "" {
		cfg.Storage = o.Storage
	}
	if o.SQLitePath != "" {
		cfg.SQLitePath = o.SQLitePath
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	o.cfg = cfg
	o.log = logger.New(cfg.LogLevel)
	return nil
}
