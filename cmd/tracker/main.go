// cmd/tracker/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"application-tracker/internal/actions"
	sn "application-tracker/internal/actions/application/send-notification"
	"application-tracker/internal/common/aws"
	"application-tracker/internal/common/config"
	"application-tracker/internal/common/database"
	"application-tracker/internal/common/logger"
)

const usage = `Usage: tracker [-config path] <command> [flags]

Commands:
  init      create the applications file with only a header row
  add       add an application
  update    replace an application's fields by id
  status    change an application's status
  list      print every application
  search    print applications matching -q, -course and -status
  summary   print per-status counts
  export    write matching applications to an .xlsx file
  menu      interactive console menu (default)
  serve     run the web UI and JSON API
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) && !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// app is everything a command needs, built once per invocation.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	store    *database.CSVStore
	registry *actions.Registry
	in       io.Reader
	out      io.Writer
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("tracker", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "", "Path to a config YAML file (default: ./configs/config.yaml)")
	fs.Usage = func() {
		fmt.Fprint(out, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	command := "menu"
	rest := fs.Args()
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	cmd, ok := commands[command]
	if !ok {
		fs.Usage()
		return fmt.Errorf("unknown command %q", command)
	}

	a, cleanup, err := bootstrap(ctx, *configPath, in, out)
	if err != nil {
		return err
	}
	defer cleanup()

	return cmd(ctx, a, rest)
}

func bootstrap(ctx context.Context, configPath string, in io.Reader, out io.Writer) (*app, func(), error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
	})

	store := database.NewCSVStore(cfg.Store, log)
	if err := store.Initialize(); err != nil {
		return nil, nil, err
	}

	// a nil *SESClient must not reach the interface, or the notifier would
	// believe a client is configured
	var ses sn.SESService
	if cfg.Notifications.Email.Enabled {
		client, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			log.Warn("SES client unavailable, notifications disabled", map[string]interface{}{"error": err})
		} else {
			log.Debug("SES client ready", map[string]interface{}{"region": client.Region()})
			ses = client
		}
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		store:    store,
		registry: actions.NewRegistry(cfg, store, ses, log),
		in:       in,
		out:      out,
	}
	cleanup := func() {
		_ = store.Close()
		_ = zapLog.Sync()
	}
	return a, cleanup, nil
}
