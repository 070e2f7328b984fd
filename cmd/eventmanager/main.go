package main

import (
	"context"
	"flag"
	l "log"
	"os"
	"os/signal"
	"syscall"

	"event-manager-backend/config"
	c "event-manager-backend/context"
	"event-manager-backend/factory"
	"event-manager-backend/hook"
	"event-manager-backend/install"
	"event-manager-backend/listing"
	"event-manager-backend/logger"
	"event-manager-backend/maintenance"
	"event-manager-backend/router"
	"event-manager-backend/vault"

	"github.com/codegangsta/negroni"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultCorrelationID = "00000000.00000000"

var ctx context.Context

func init() {
	ctx = c.SetContextWithValue(context.Background(), c.ContextKeyCorrelationID, defaultCorrelationID)
}

// loadSecrets overrides config values with the ones stored in vault, when configured.
func loadSecrets() {
	address := viper.GetString(config.VaultAddress)
	if address == "" {
		return
	}
	v, err := vault.New(viper.GetString(config.VaultToken), address, viper.GetString(config.VaultSecretPath))
	if err != nil {
		logger.Fatalf(ctx, "main: Error creating vault client: %+v", err)
	}
	secrets, err := v.Secrets()
	if err != nil {
		logger.Fatalf(ctx, "main: Error reading secrets: %+v", err)
	}
	for k, val := range secrets {
		viper.Set(k, val)
	}
	logger.Infof(ctx, "main: loaded %d secrets from vault", len(secrets))
}

func main() {
	cfgPath := flag.String("CONFIG_PATH", "./config.yaml", "Path to config file")
	envPath := flag.String("ENV_PATH", ".env", "Optional .env file")
	flag.Parse()

	if err := godotenv.Load(*envPath); err != nil && !os.IsNotExist(err) {
		l.Fatalf("error reading %s: %v", *envPath, err)
	}

	viper.SetConfigFile(*cfgPath)
	if err := viper.ReadInConfig(); err != nil {
		l.Fatalln("error reading config")
	}
	logger.SetLevel(viper.GetString(config.LogLevel))
	loadSecrets()

	f := factory.NewFactory()
	s := f.Store(ctx)
	opts := f.Options(ctx)
	if err := s.CreateTables(ctx); err != nil {
		logger.Fatalf(ctx, "main: Error creating tables: %+v", err)
	}
	if err := install.New(s, opts, viper.GetString(config.AppVersion)).Run(ctx); err != nil {
		logger.Fatalf(ctx, "main: Error installing: %+v", err)
	}

	jobsCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	engine := listing.New(s, opts, hook.New(), router.SiteLocation(ctx))
	runner := maintenance.New(s, opts, engine, viper.GetDuration(config.MaintenancePreviewMaxAge))
	go runner.Run(jobsCtx, viper.GetDuration(config.MaintenanceInterval))

	muxRouter := router.Router(ctx, f)

	n := negroni.New()
	n.UseHandler(muxRouter)
	n.Run(viper.GetString(config.Port))
}
