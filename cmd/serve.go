package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mevwatcher/config"
	"mevwatcher/logger"
	"mevwatcher/server"
)

var serveCmd = cobra.Command{
	Use:   "serve",
	Short: "Serve sandwich detection over HTTP (POST /detect)",
	Run: func(cmd *cobra.Command, args []string) {
		logger.InitLogs("serve")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.NewDetectServer(viper.GetString("serve.addr"), finderFromConfig())
		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.GlobalLogger.Error("Detect server failed", "err", err)
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				logger.GlobalLogger.Error("Failed to stop detect server", "err", err)
			}
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", config.DefaultServeAddr, "listen address")
	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
	RootCmd.AddCommand(&serveCmd)
}
