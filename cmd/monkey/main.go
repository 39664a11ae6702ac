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

	"github.com/oarkflow/log"

	"github.com/oarkflow/monkey"
	"github.com/oarkflow/monkey/object"
	"github.com/oarkflow/monkey/pkg/config"
	"github.com/oarkflow/monkey/pkg/repl"
	"github.com/oarkflow/monkey/pkg/server"
	"github.com/oarkflow/monkey/pkg/transcript"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("monkey", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "Path to configuration file (.json, .yaml, .bcl)")
	serve := flags.Bool("serve", false, "Serve sessions over HTTP instead of starting the REPL")
	addr := flags.String("addr", "", "HTTP listen address (overrides config)")
	strict := flags.Bool("strict", false, "Turn unsupported operations into errors")
	transcriptPath := flags.String("transcript", "", "Append evaluated inputs to this JSON-lines file")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: monkey [flags] [script.monkey]")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "load config: %v\n", err)
			return 1
		}
		cfg = *loaded
	}
	if *strict {
		cfg.Strict = true
	}
	if *transcriptPath != "" {
		cfg.Transcript = *transcriptPath
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := newLogger(cfg.LogLevel)
	engine, err := monkey.NewEngine(
		monkey.WithLogger(logger),
		monkey.WithStrict(cfg.Strict),
		monkey.WithCacheSize(cfg.CacheSize),
		monkey.WithMaxDepth(cfg.MaxDepth),
		monkey.WithOutput(stdout),
	)
	if err != nil {
		fmt.Fprintf(stderr, "create engine: %v\n", err)
		return 1
	}
	defer engine.Close()

	if flags.NArg() > 0 {
		return runFile(engine, flags.Arg(0), stdout, stderr)
	}

	var w *transcript.Writer
	if cfg.Transcript != "" {
		w, err = transcript.Open(cfg.Transcript)
		if err != nil {
			fmt.Fprintf(stderr, "open transcript: %v\n", err)
			return 1
		}
		defer w.Close()
	}

	if *serve {
		return runServer(ctx, engine, cfg, w, logger)
	}

	opts := []repl.Option{repl.WithPrompt(cfg.Prompt)}
	if w != nil {
		opts = append(opts, repl.WithTranscript(w))
	}
	if err := repl.New(engine, stdin, stdout, opts...).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "repl: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(level string) *log.Logger {
	logger := log.DefaultLogger
	if level != "" {
		logger.Level = log.ParseLevel(level)
	}
	return &logger
}

// runFile evaluates a script and prints its final value. Diagnostics go to
// stderr and make the exit status non-zero.
func runFile(engine *monkey.Engine, path string, stdout, stderr io.Writer) int {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "read script: %v\n", err)
		return 1
	}

	result, err := engine.Exec(string(content), nil)
	var perr *monkey.ParseError
	var rerr *monkey.RuntimeError
	switch {
	case errors.As(err, &perr):
		for _, msg := range perr.Messages {
			fmt.Fprintln(stderr, msg)
		}
		return 1
	case errors.As(err, &rerr):
		fmt.Fprintf(stderr, "ERROR: %s\n", rerr.Message)
		return 1
	case err != nil:
		fmt.Fprintln(stderr, err)
		return 1
	}

	if result != nil && result != object.NULL {
		fmt.Fprintln(stdout, result.Inspect())
	}
	return 0
}

func runServer(ctx context.Context, engine *monkey.Engine, cfg config.Config, w *transcript.Writer, logger *log.Logger) int {
	srv := server.NewServer(engine, server.Config{
		Version:     version,
		SessionTTL:  cfg.Server.TTL(),
		MaxSessions: cfg.Server.MaxSessions,
		Transcript:  w,
		AccessLog:   logger.Level <= log.DebugLevel,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Str("addr", cfg.Server.Addr).Msg("server stopped")
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	if err := srv.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
		return 1
	}
	return 0
}
