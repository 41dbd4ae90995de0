package main

import (
	"fmt"
	"os"
	"strings"

	"quant_architect/internal/config"
	"quant_architect/internal/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const VersionFile = "version.latest"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quant_architect",
		Short:         "LLM-backed trading intelligence dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(newServeCmd(), newAnalyzeCmd(), newVersionCmd())
	return root
}

// bootstrap loads the configuration and sets up the process logger.
func bootstrap(logFile bool) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	cfg.Version = readVersion()

	opts := logger.Options{
		Level:      cfg.LogLevel,
		MaxSizeMB:  cfg.MaxLogSizeMB,
		MaxBackups: cfg.MaxLogBackups,
	}
	if logFile {
		opts.Filename = cfg.LogFile
	}
	return cfg, logger.Setup(opts), nil
}

func readVersion() string {
	version, err := os.ReadFile(VersionFile)
	if err != nil {
		return "v0.0.0-dev"
	}
	return strings.TrimSpace(string(version))
}
