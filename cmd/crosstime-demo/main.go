// Command crosstime-demo is an interactive playground for the timer
// facade.
//
// It arms delays, intervals, and timeouts from a readline prompt and
// prints their ready signals as they arrive, optionally tracing every
// backend registration to a CBOR file.
//
// Usage:
//
//	crosstime-demo [flags]
//
// Flags:
//
//	-config string  Configuration file path (YAML)
//	-trace string   Write a registration trace to this file
//	-verbose        Echo registration events to the console via slog
//
// Commands at the prompt:
//
//	delay <duration>    arm a one-shot delay (e.g. delay 500ms)
//	every <duration>    arm a repeating interval
//	timeout <duration>  race a never-completing operation against a deadline
//	list                show live constructs
//	cancel <id>         stop a live construct
//	quit                exit
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/crosstime-io/crosstime-go/pkg/log"
	"github.com/crosstime-io/crosstime-go/pkg/sched"
)

func main() {
	var (
		configFile = flag.String("config", "", "configuration file path (YAML)")
		traceFile  = flag.String("trace", "", "write a registration trace to this file")
		verbose    = flag.Bool("verbose", false, "echo registration events to the console")
	)
	flag.Parse()

	cfg := DefaultConfig()
	if *configFile != "" {
		loaded, err := LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *traceFile != "" {
		cfg.TraceFile = *traceFile
	}
	if *verbose {
		cfg.Verbose = true
	}

	scheduler, cleanup, err := buildScheduler(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up tracing: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	session, err := NewSession(scheduler, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start session: %v\n", err)
		os.Exit(1)
	}
	session.Run()
}

// buildScheduler wraps the platform scheduler with tracing according to
// the configuration. The returned cleanup closes any trace file.
func buildScheduler(cfg *Config) (sched.Scheduler, func(), error) {
	scheduler := sched.Default()
	cleanup := func() {}

	var loggers []log.Logger
	if cfg.TraceFile != "" {
		fl, err := log.NewFileLogger(cfg.TraceFile)
		if err != nil {
			return nil, nil, err
		}
		loggers = append(loggers, fl)
		cleanup = func() { fl.Close() }
	}
	if cfg.Verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		loggers = append(loggers, log.NewSlogAdapter(slog.New(handler)))
	}

	switch len(loggers) {
	case 0:
		return scheduler, cleanup, nil
	case 1:
		return sched.WithLogging(scheduler, loggers[0]), cleanup, nil
	default:
		return sched.WithLogging(scheduler, log.NewMultiLogger(loggers...)), cleanup, nil
	}
}
