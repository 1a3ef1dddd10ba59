package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mevwatcher/config"
	"mevwatcher/evm"
	"mevwatcher/logger"
)

var quiet bool

var RootCmd = &cobra.Command{
	Use:   "mevwatcher",
	Short: "A tool for detecting sandwich attacks in clusters of EVM transactions",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			logger.SetConsoleEnabled(false)
		}
	},
}

// finderFromConfig builds the finder used by detect, serve and scan alike,
// with thresholds from flags, config.yaml or the environment.
func finderFromConfig() evm.SandwichFinder {
	finder := evm.NewSandwichFinder()
	finder.MaxTimeGap = viper.GetUint64("detect.max-time-gap")
	finder.MinSlippage = viper.GetFloat64("detect.min-slippage")
	return finder
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "write logs to files only, not to stderr")
	RootCmd.PersistentFlags().Uint64("max-time-gap", config.SANDWICH_MAX_TIME_GAP, "max seconds between front-run and back-run (exclusive)")
	RootCmd.PersistentFlags().Float64("min-slippage", config.VICTIM_MIN_SLIPPAGE, "victim slippage tolerance must be above this fraction")

	_ = viper.BindPFlag("detect.max-time-gap", RootCmd.PersistentFlags().Lookup("max-time-gap"))
	_ = viper.BindPFlag("detect.min-slippage", RootCmd.PersistentFlags().Lookup("min-slippage"))
}
