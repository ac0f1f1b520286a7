package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/pingwatch/pingwatch/internal/config"
	"github.com/pingwatch/pingwatch/internal/domain"
	"github.com/pingwatch/pingwatch/internal/flagstore"
	fsflags "github.com/pingwatch/pingwatch/internal/flagstore/fs"
	"github.com/pingwatch/pingwatch/internal/flagstore/memory"
	"github.com/pingwatch/pingwatch/internal/flagstore/postgres"
	"github.com/pingwatch/pingwatch/internal/logging"
	"github.com/pingwatch/pingwatch/internal/notify"
	"github.com/pingwatch/pingwatch/internal/probe"
	"github.com/pingwatch/pingwatch/internal/reconcile"
	"github.com/pingwatch/pingwatch/internal/runner"
	"github.com/pingwatch/pingwatch/internal/source"
)

// One evaluation pass from the terminal. URLs given as arguments override
// the configured urls document.
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

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	flags, err := buildFlags(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "flag store:", err)
		os.Exit(1)
	}

	var src source.Loader
	if args := os.Args[1:]; len(args) > 0 {
		src = source.Static(args)
	} else if cfg.Source.File != "" {
		src = source.NewFile(afero.NewOsFs(), cfg.Source.File)
	} else {
		src = source.NewHTTP(cfg.Source.URL)
	}

	run := runner.New(logger, src,
		probe.NewHTTPProber(cfg.ProbeTimeout()),
		reconcile.New(flags, buildNotifier(cfg)))
	run.Timeout = cfg.ProbeTimeout()

	report := run.Run(context.Background())
	if !report.OK {
		fmt.Fprintln(os.Stderr, report.Message)
		os.Exit(1)
	}

	render(report)
	logger.Info("cli_run_done", zap.Int("targets", len(report.Results)))
}

func render(report domain.RunReport) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"URL", "State", "HTTP", "Flag", "Action", "Error"})

	for _, r := range report.Results {
		state := text.FgGreen.Sprint("UP")
		if !r.Probe.Reachable {
			state = text.FgRed.Sprint("DOWN")
		}
		httpTxt := "n/a"
		if r.Probe.StatusCode != 0 {
			httpTxt = fmt.Sprintf("%d", r.Probe.StatusCode)
		}
		flagTxt := ""
		if r.FlagExisted {
			flagTxt = "flagged"
		}
		errTxt := r.Err
		if errTxt == "" {
			errTxt = r.Probe.Err
		}
		t.AppendRow(table.Row{r.URL, state, httpTxt, flagTxt, r.Action.String(), errTxt})
	}
	t.Render()
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
