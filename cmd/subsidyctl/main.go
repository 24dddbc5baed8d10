// Command subsidyctl groups subsidy record files from the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/subsidywatch/internal/config"
	"github.com/aristath/subsidywatch/internal/modules/datasets"
	"github.com/aristath/subsidywatch/internal/modules/grouping"
	"github.com/aristath/subsidywatch/pkg/logger"
)

// app holds the global flags and the logger shared by every command
type app struct {
	dataDir  string
	by       string
	logLevel string
	jsonOut  bool
	timeout  time.Duration

	categoriesFile string

	cfgErr error
	log    zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	// Defaults come from the same .env and environment as the server
	cfg, err := config.Read()
	if err != nil {
		a.cfgErr = err
		cfg = &config.Config{}
	}
	a.categoriesFile = cfg.CategoriesFile

	rootCmd := &cobra.Command{
		Use:   "subsidyctl",
		Short: "Group public subsidy records by beneficiary",
		Long: `subsidyctl loads per-year subsidy record files (JSON or msgpack) from a
directory, groups them by normalized beneficiary name or registration id and
prints the aggregated views.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.cfgErr != nil {
				return a.cfgErr
			}
			if _, ok := grouping.ParseStrategy(a.by); !ok {
				return fmt.Errorf("invalid --by %q (expected name or registration)", a.by)
			}
			a.log = logger.New(logger.Config{
				Level:  a.logLevel,
				Pretty: true,
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.dataDir, "data-dir", "d", cfg.DataDir, "Directory with subsidy record files (SUBSIDY_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&a.by, "by", "name", "Grouping strategy: name or registration")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Print JSON instead of a table")
	rootCmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 2*time.Minute, "Load timeout")

	rootCmd.AddCommand(
		newNormalizeCmd(a),
		newTopCmd(a),
		newVariantsCmd(a),
		newSearchCmd(a),
		newCategoriesCmd(a),
		newStatsCmd(a),
	)

	return rootCmd
}

// loadGroups reads every record file in the data directory and groups them
func (a *app) loadGroups(ctx context.Context) (*grouping.Groups, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	result, err := datasets.NewLoader(datasets.NewDirSource(a.dataDir), a.log).Load(ctx)
	if err != nil {
		return nil, err
	}

	strategy, _ := grouping.ParseStrategy(a.by)
	return grouping.GroupBy(strategy, result.Records), nil
}

func (a *app) print(w io.Writer, data interface{}, table func(io.Writer) error) error {
	if a.jsonOut {
		return writeJSON(w, data)
	}
	return table(w)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
