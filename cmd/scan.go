package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mevwatcher/config"
	"mevwatcher/db"
	"mevwatcher/evm"
	"mevwatcher/logger"
)

var (
	scanStart   uint64
	scanEnd     uint64
	scanPerSwap bool
	scanInput   string
)

var scanCmd = cobra.Command{
	Use:   "scan",
	Short: "Scan stored blocks cluster by cluster and log detected sandwiches",
	Run: func(cmd *cobra.Command, args []string) {
		logger.InitLogs("scan")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		database, err := openScanDB()
		if err != nil {
			logger.ScanLogger.Error("Failed to open database", "err", err)
			return
		}
		defer database.Close()

		scanner := newScannerFromConfig(database)
		logger.ScanLogger.Info("Running cmd scan, starting sandwich scan...",
			"start", scanStart,
			"end", scanEnd,
			"window", scanner.Window,
			"parallel", scanner.Parallel,
			"per_swap", scanner.PerSwap,
			"max_time_gap", scanner.Finder.MaxTimeGap,
			"min_slippage", scanner.Finder.MinSlippage,
		)

		if err := evm.RunScanCmd(ctx, scanner, scanStart, scanEnd); err != nil {
			logger.ScanLogger.Error("Error running scan command", "err", err)
		}
	},
}

// openScanDB returns ClickHouse, or an in-memory DB preloaded from --input for dry runs.
func openScanDB() (db.Database, error) {
	if scanInput == "" {
		ch, err := db.NewClickhouse()
		if err != nil {
			return nil, err
		}
		if err := ch.CreateTables(); err != nil {
			ch.Close()
			return nil, err
		}
		return ch, nil
	}

	txs, err := readTransactionsFile(scanInput)
	if err != nil {
		return nil, err
	}
	mem := db.NewMemoryDB()
	if err := mem.InsertTransactions(txs); err != nil {
		return nil, err
	}
	return mem, nil
}

func newScannerFromConfig(database db.Database) *evm.Scanner {
	scanner := evm.NewScanner(database)
	scanner.Window = viper.GetUint64("scan.window")
	scanner.BatchBlocks = viper.GetUint64("scan.batch")
	scanner.Parallel = viper.GetInt("scan.parallel")
	scanner.PerSwap = scanPerSwap
	scanner.Finder = finderFromConfig()
	return scanner
}

func init() {
	scanCmd.Flags().Uint64VarP(&scanStart, "start", "s", 0, "first block to scan")
	scanCmd.Flags().Uint64VarP(&scanEnd, "end", "e", 0, "last block to scan (0 = last stored block)")
	scanCmd.Flags().BoolVar(&scanPerSwap, "per-swap", false, "evaluate every swap in a cluster, not only the first")
	scanCmd.Flags().StringVarP(&scanInput, "input", "i", "", "scan a JSON file in memory instead of ClickHouse")

	scanCmd.Flags().Uint64P("window", "w", config.SCAN_CLUSTER_BLOCK_WINDOW, "number of consecutive blocks per cluster")
	scanCmd.Flags().Uint64("batch", config.SCAN_BATCH_BLOCKS, "number of blocks read from DB at once")
	scanCmd.Flags().IntP("parallel", "p", config.SCAN_PARALLEL_NUM, "number of clusters evaluated in parallel")

	_ = viper.BindPFlag("scan.window", scanCmd.Flags().Lookup("window"))
	_ = viper.BindPFlag("scan.batch", scanCmd.Flags().Lookup("batch"))
	_ = viper.BindPFlag("scan.parallel", scanCmd.Flags().Lookup("parallel"))

	RootCmd.AddCommand(&scanCmd)
}
