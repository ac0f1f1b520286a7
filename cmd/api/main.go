package main

import (
	"context"
	"log"
	"net/http"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/pingwatch/pingwatch/internal/config"
	"github.com/pingwatch/pingwatch/internal/flagstore"
	fsflags "github.com/pingwatch/pingwatch/internal/flagstore/fs"
	"github.com/pingwatch/pingwatch/internal/flagstore/memory"
	"github.com/pingwatch/pingwatch/internal/flagstore/postgres"
	"github.com/pingwatch/pingwatch/internal/httpapi"
	"github.com/pingwatch/pingwatch/internal/logging"
	"github.com/pingwatch/pingwatch/internal/notify"
	"github.com/pingwatch/pingwatch/internal/probe"
	"github.com/pingwatch/pingwatch/internal/reconcile"
	"github.com/pingwatch/pingwatch/internal/runner"
	"github.com/pingwatch/pingwatch/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// Runs triggered against an incomplete config fail per-run with a 500
	// report; the server itself still comes up.
	if err := cfg.Validate(); err != nil {
		logger.Warn("config_incomplete", zap.Error(err))
	}

	flags, err := buildFlags(cfg)
	if err != nil {
		logger.Fatal("flag_store_init", zap.Error(err))
	}

	run := runner.New(logger, buildSource(cfg),
		probe.NewHTTPProber(cfg.ProbeTimeout()),
		reconcile.New(flags, buildNotifier(cfg)))
	run.Timeout = cfg.ProbeTimeout()

	api := httpapi.NewServer(logger, run)

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, api.Router(cfg.API.Keys, cfg.API.RPM, cfg.API.Burst)); err != nil {
		log.Fatal(err)
	}
}

func buildFlags(cfg *config.Config) (flagstore.Store, error) {
	switch cfg.Flags.Backend {
	case "memory":
		return memory.New(), nil
	case "postgres":
		return postgres.New(context.Background(), cfg.Flags.DatabaseURL)
	default:
		return fsflags.New(afero.NewOsFs(), cfg.Flags.Dir)
	}
}

func buildSource(cfg *config.Config) source.Loader {
	if cfg.Source.File != "" {
		return source.NewFile(afero.NewOsFs(), cfg.Source.File)
	}
	return source.NewHTTP(cfg.Source.URL)
}

func buildNotifier(cfg *config.Config) notify.Notifier {
	var all notify.Multi
	if s := notify.NewSlack(cfg.Notify.SlackWebhook); s != nil {
		all = append(all, s)
	}
	if k := notify.NewKafka(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic); k != nil {
		all = append(all, k)
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	default:
		return all
	}
}
