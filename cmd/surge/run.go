package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/surgehttp/surge/internal/client"
	"github.com/surgehttp/surge/internal/config"
	"github.com/surgehttp/surge/internal/engine"
	"github.com/surgehttp/surge/internal/log"
	"github.com/surgehttp/surge/internal/report"
)

// runRootCmd executes a load run from parsed flags.
func runRootCmd(cmd *cobra.Command, args []string) error {
	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	cfg, err := buildConfig(cmd, args, logger)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	jsonReport, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownReport, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonReport && markdownReport {
		return fmt.Errorf("--json and --markdown are mutually exclusive")
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printBanner(out, cfg)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(out, color.YellowString("Stopping in-flight requests..."))
		cancel()
	}()

	if !cfg.NoDelayedStart {
		fmt.Fprintln(out, color.YellowString("Starting in 1.5 seconds..."))
		time.Sleep(config.StartupDelay)
	}

	eng := engine.New(cfg, client.New(client.Options{
		ConnectTimeout:     cfg.ConnectTimeout,
		RequestTimeout:     cfg.RequestTimeout,
		DisableCompression: cfg.DisableCompression,
		FollowRedirects:    cfg.FollowRedirects,
		AllowList:          cfg.AllowList,
	}),
		engine.WithLogger(logger),
		engine.WithProgress(func(total uint64) {
			fmt.Fprintf(out, "Processed %s requests...\n",
				color.GreenString(strconv.FormatUint(total, 10)))
		}),
	)

	started := time.Now()
	outcomes := eng.Run(ctx)
	elapsed := time.Since(started)

	summary := report.Compute(outcomes, elapsed, cfg.Concurrency)
	return writeReport(summary, out, jsonReport, markdownReport, outputPath)
}

// printBanner writes the pre-run banner describing the configured run.
func printBanner(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "*** %s - %s ***\n",
		color.GreenString(config.AppName),
		color.YellowString(getVersion()),
	)
	fmt.Fprintf(out, "Mode: %s with %s concurrent requests\n",
		cfg.Mode,
		color.MagentaString(strconv.Itoa(cfg.Concurrency)),
	)

	switch {
	case cfg.Requests != 0 && cfg.Duration != 0:
		fmt.Fprintf(out, "Running for %s requests or %s seconds\n",
			color.MagentaString(strconv.FormatUint(cfg.Requests, 10)),
			color.MagentaString(strconv.Itoa(int(cfg.Duration.Seconds()))),
		)
	case cfg.Requests != 0:
		fmt.Fprintf(out, "Running for %s requests\n",
			color.MagentaString(strconv.FormatUint(cfg.Requests, 10)))
	case cfg.Duration != 0:
		fmt.Fprintf(out, "Running for %s seconds\n",
			color.MagentaString(strconv.Itoa(int(cfg.Duration.Seconds()))))
	}

	fmt.Fprintln(out)
}

// writeReport writes the summary in the selected format to stdout or
// the --output file.
func writeReport(summary *report.Summary, stdout io.Writer, jsonReport, markdownReport bool, outputPath string) error {
	dest := stdout
	if outputPath != "" {
		if dir := filepath.Dir(outputPath); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Best effort on close
		dest = f
	}

	var w report.Writer
	switch {
	case jsonReport:
		w = report.NewJSONWriter(dest, report.WithPrettyPrint())
	case markdownReport:
		w = report.NewMarkdownWriter(dest)
	default:
		w = report.NewConsoleWriter(dest)
	}

	if _, err := w.Write(summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its
// parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
