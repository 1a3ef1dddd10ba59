package cmd

import (
	"github.com/spf13/cobra"

	"mevwatcher/db"
	"mevwatcher/logger"
)

var resetCmd = cobra.Command{
	Use:   "reset",
	Short: "Reset everything",
	Run: func(cmd *cobra.Command, args []string) {
		ch, err := db.NewClickhouse()
		if err != nil {
			logger.GlobalLogger.Error("Failed to open database", "err", err)
			return
		}
		defer ch.Close()

		// Drop tables
		logger.GlobalLogger.Info("Dropping tables in database...")
		if err := ch.DropTables(); err != nil {
			logger.GlobalLogger.Error("Failed to drop tables", "err", err)
		}
		logger.GlobalLogger.Info("Done.")
	},
}

func init() {
	RootCmd.AddCommand(&resetCmd)
}
