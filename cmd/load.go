package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"mevwatcher/db"
	"mevwatcher/logger"
	"mevwatcher/types"
)

var loadCmd = cobra.Command{
	Use:   "load <file>",
	Short: "Store a JSON list of observed transactions in ClickHouse for later scans",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger.InitLogs("load")

		txs, err := readTransactionsFile(args[0])
		if err != nil {
			logger.ScanLogger.Error("Failed to read transactions", "file", args[0], "err", err)
			return
		}

		ch, err := db.NewClickhouse()
		if err != nil {
			logger.ScanLogger.Error("Failed to open database", "err", err)
			return
		}
		defer ch.Close()

		if err := ch.CreateTables(); err != nil {
			logger.ScanLogger.Error("Failed to create tables", "err", err)
			return
		}
		if err := ch.InsertTransactions(txs); err != nil {
			logger.ScanLogger.Error("Failed to insert transactions", "err", err)
			return
		}
		logger.ScanLogger.Info("Inserted transactions", "file", args[0], "count", len(txs))
	},
}

func readTransactionsFile(path string) (types.Transactions, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return types.ParseTransactions(doc)
}

func init() {
	RootCmd.AddCommand(&loadCmd)
}
