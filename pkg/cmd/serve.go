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
	"go.uber.org/zap"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/config"
	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/server"
)

const shutdownTimeout = 10 * time.Second

func init() {
	ServeCmd.Flags().String("address", ":8080", "listen address")
	viper.BindPFlag(config.KeyServerAddress, ServeCmd.Flags().Lookup("address"))
}

var (
	ServeCmd = &cobra.Command{
		Use:   ServeCmdName,
		Short: ServeCmdShort,
		Long:  ServeCmdLong,
		RunE:  serveCmdFunc(),
	}
)

func serveCmdFunc() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		a.log.Info("Started serve cmd", zap.String("address", a.cfg.Server.Address))

		serve := server.NewHTTPServer(a.cfg.Server.Address, a.registry, a.resolver, a.log.Named("http"))

		signalCh := make(chan os.Signal, 1)
		signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

		errCh := make(chan error, 1)
		go func() {
			if err := serve.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case sig := <-signalCh:
			a.log.Info("Shutdown the server...", zap.String("signal", sig.String()))
		case err := <-errCh:
			a.log.Error("Shutting down the server...", zap.Error(err))
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return serve.Shutdown(ctx)
	}
}
