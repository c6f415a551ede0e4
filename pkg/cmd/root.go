package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/config"
	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/logging"
	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/provider"
	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/valuation"
	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/vin"
)

var configFile string

var RootCmd = &cobra.Command{
	Use:           RootCmdName,
	Short:         RootCmdShort,
	Long:          RootCmdLong,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {

	if err := RootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(-1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a yaml config file")
	RootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().String("provider-mode", provider.ModeDemo, "provider set to query (demo, live)")
	viper.BindPFlag(config.KeyLogLevel, RootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag(config.KeyProviderMode, RootCmd.PersistentFlags().Lookup("provider-mode"))

	RootCmd.AddCommand(ServeCmd)
	RootCmd.AddCommand(EstimateCmd)
	RootCmd.AddCommand(DecodeCmd)
}

// app holds the wired components shared by every subcommand.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	registry *provider.Registry
	resolver *vin.Resolver
}

func newApp() (*app, error) {
	cfg, err := config.Load(viper.GetViper(), configFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	registry, err := provider.NewDefaultRegistry(cfg.Provider.Mode, cfg.Provider.Keys, valuation.NewEstimator(), logger.Named("provider"))
	if err != nil {
		return nil, err
	}

	fetcher := vin.NewFetcher(cfg.VIN.RequestTimeout, cfg.VIN.RetryAttempts, logger.Named("vin"))
	decoders := vin.Chain(cfg.VIN.Commercial.BaseURL, cfg.VIN.Commercial.APIKey, cfg.VIN.Fallback.BaseURL, fetcher)
	resolver, err := vin.NewResolver(decoders, vin.WithCache(cfg.VIN.CacheSize), vin.WithLogger(logger.Named("vin")))
	if err != nil {
		return nil, err
	}

	logger.Debug("configured",
		zap.String("provider_mode", cfg.Provider.Mode),
		zap.Bool("commercial_vin", cfg.CommercialEnabled()),
		zap.Int("vin_decoders", len(decoders)))

	return &app{cfg: cfg, log: logger, registry: registry, resolver: resolver}, nil
}
