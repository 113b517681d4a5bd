// Public domain.

package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/soniakeys/exit"
	"github.com/spf13/cobra"

	"github.com/soniakeys/gammastat/internal/gprog"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "gammastat",
	Short:         "reduce and fit gamma-ray ON/OFF spectrum datasets",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c",
		"run.yaml", "run configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v",
		false, "debug logging")
}

func logger() zerolog.Logger {
	lvl := zerolog.InfoLevel
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).With().Timestamp().Logger()
}

func loadProg() (*gprog.Prog, error) {
	cfg, err := gprog.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	return gprog.New(cfg, logger()), nil
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		exit.Log(err)
	}
}
