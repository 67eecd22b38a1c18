// cmd/textfinder/main.go
package main

import (
	"context"
	"errors"
	stlog "log" // Use standard log for FATAL errors before logger is ready
	"os"
	"os/signal"
	"syscall"

	"github.com/bethropolis/textfinder/internal/app"
	"github.com/bethropolis/textfinder/internal/config"
	"github.com/bethropolis/textfinder/internal/logger"
	"github.com/jessevdk/go-flags"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	stlog.SetFlags(0)

	// --- Argument & Flag Parsing ---
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Usage = "[OPTIONS] FILE..."
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Stdout.WriteString(err.Error() + "\n")
			return 0
		}
		stlog.Printf("%v", err)
		return 2
	}

	// --- Configuration ---
	cfg, cfgErr := config.Load(opts.Config.ConfigFilePath, &opts.Config)

	// --- Logger Initialization ---
	logOutput, closeLog, err := logger.OpenOutput(cfg.Logger.LogFilePath)
	if err != nil {
		stlog.Printf("Failed to open log output: %v", err)
		return 1
	}
	defer closeLog()
	logger.InitWithConfig(cfg.Logger, logOutput)
	if cfgErr != nil {
		logger.Warnf("Using default configuration: %v", cfgErr)
	}
	logger.Debugf("Log level set to: %s", cfg.Logger.LogLevel)

	configPath := opts.Config.ConfigFilePath
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	// --- Create and Run App ---
	finder := app.NewApp(app.Options{
		Config:          cfg,
		ConfigPath:      configPath,
		Flags:           &opts.Config,
		Out:             os.Stdout,
		Status:          os.Stderr,
		SystemClipboard: opts.usesClipboard(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := finder.Run(ctx, opts.Request())
	if err := finder.Close(); err != nil {
		logger.Warnf("Shutdown: %v", err)
	}
	if runErr != nil {
		logger.Errorf("textfinder: %v", runErr)
		stlog.Printf("textfinder: %v", runErr)
		return 1
	}
	return 0
}
