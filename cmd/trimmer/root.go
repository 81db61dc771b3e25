package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aria-lang/barcode-trimmer/internal/config"
	"github.com/aria-lang/barcode-trimmer/pkg/trimmer"
)

// app is shared by the subcommands of one invocation.
type app struct {
	v        *viper.Viper
	logger   *log.Logger
	settings string
	verbose  bool
}

// loadConfig resolves settings and applies the log level. Flags override
// the settings file and environment.
func (a *app) loadConfig() (config.Config, error) {
	cfg, err := config.Load(a.v, a.settings)
	if err != nil {
		return cfg, err
	}
	if a.verbose {
		a.logger.SetLevel(log.DebugLevel)
	} else if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		a.logger.SetLevel(lvl)
	} else {
		a.logger.Warn("unknown log_level, defaulting to info", "provided", cfg.LogLevel)
		a.logger.SetLevel(log.InfoLevel)
	}
	a.logger.Debug("loaded config",
		"mode", cfg.Mode,
		"match", cfg.Scoring.Match,
		"mismatch", cfg.Scoring.Mismatch,
		"gap_open", cfg.Scoring.GapOpen,
		"gap_extend", cfg.Scoring.GapExtend,
		"min_score", cfg.Scoring.MinScore,
		"workers", cfg.Workers)
	return cfg, nil
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	a := &app{v: config.New(), logger: logger}

	root := &cobra.Command{
		Use:           "trimmer",
		Short:         "Filter reads carrying mid-read adapter or barcode sequence",
		Version:       trimmer.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.settings, "config", "c", "", "YAML settings file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newFilterCmd(a))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), trimmer.Info())
		},
	})
	return root
}
