package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/canonical/simpledb"
)

var (
	configPath string
	devMode    bool
)

var rootCmd = &cobra.Command{
	Use:   "simpledb",
	Short: "Run SQL statements through simpledb",
	Long: `simpledb runs a single SQL statement against the database described by a
YAML or TOML config file. Parameters are bound to the "?" placeholders in order.`,
	SilenceUsage: true,
}

var execCmd = &cobra.Command{
	Use:   "exec SQL [PARAM...]",
	Short: "Run a statement and print the number of rows affected",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		n, err := db.Query(cmd.Context()).Append(args[0], params(args[1:])...).Exec()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query SQL [PARAM...]",
	Short: "Run a query and print the rows as YAML",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		rows, err := db.Query(cmd.Context()).Append(args[0], params(args[1:])...).SelectRows()
		if err != nil {
			return err
		}
		return writeRows(cmd.OutOrStdout(), rows)
	},
}

func openDB() (*simpledb.DB, error) {
	cfg, err := simpledb.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := zap.NewNop()
	if devMode || cfg.DevMode {
		cfg.DevMode = true
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}
	return simpledb.New(*cfg, simpledb.WithLogger(logger))
}

// params turns command line arguments into statement parameters.
func params(args []string) []any {
	ps := make([]any, len(args))
	for i, a := range args {
		ps[i] = a
	}
	return ps
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "simpledb.yaml", "path to the config file")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "log every statement")
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(queryCmd)
}
