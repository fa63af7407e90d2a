// Package main provides the entry point for the surge CLI.
package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/surgehttp/surge/internal/config"
)

// NewRootCmd creates the root command for surge.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "surge [target]",
		Short: "HTTP load generation and link discovery tool",
		Long: `Surge generates HTTP load against a target and reports response
time statistics when the run finishes.

Three modes are available:
  discover  crawl outward from the seed URL by following links found
            in returned HTML pages (default)
  single    request the same URL over and over
  file      cycle through a newline-separated URL list file

The target argument is the seed URL in discover and single modes, and
the path of the URL list file in file mode.

Examples:
  # Crawl a site with 4 concurrent requests for 30 seconds
  surge -c 4 -d 30s https://example.com/

  # Hammer one URL for 5000 requests
  surge -m single -n 5000 https://example.com/

  # Cycle through a URL list, following redirects
  surge -m file -f urls.txt

  # Allow crawling into subdomains
  surge -D '*.example.com' https://example.com/`,
		Version:       getVersion(),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging with a per-request trace")

	cmd.Flags().StringP("mode", "m", "discover", "Run mode: discover, single, or file")
	cmd.Flags().StringP("method", "M", "GET", "HTTP method for every request")
	cmd.Flags().IntP("concurrent", "c", config.DefaultConcurrency, "Number of concurrent requests")
	cmd.Flags().IntP("timeout-connect", "T", 1000, "Connection timeout in milliseconds")
	cmd.Flags().IntP("timeout", "t", 3000, "Request timeout in milliseconds")
	cmd.Flags().BoolP("disable-compression", "C", false, "Disable gzip compression negotiation")
	cmd.Flags().Uint64P("requests", "n", 0, "Stop after this many requests (default 1000 outside discover mode)")
	cmd.Flags().StringP("duration", "d", "", "Stop after this long, e.g. 30s, 5m, 1h")
	cmd.Flags().BoolP("follow-redirects", "f", false, "Follow redirects to allow-listed hosts (up to 5 hops)")
	cmd.Flags().StringArrayP("header", "H", nil, "Custom header as 'Key:Value' (repeatable)")
	cmd.Flags().StringSliceP("domains", "D", nil, "Additional allowed domains, '*' wildcards and the bare '*' accepted")
	cmd.Flags().BoolP("prevent-duplicate-requests", "p", false, "Request each discovered URL at most once")
	cmd.Flags().Bool("no-delayed-start", false, "Skip the 1.5 second pause before the run")
	cmd.Flags().StringP("basic-auth", "b", "", "HTTP Basic credentials as 'user:password'")
	cmd.Flags().BoolP("random-arguments", "r", false, "Expand %RAND(min,max)% tokens in URLs and header values")
	cmd.Flags().BoolP("json", "j", false, "Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().Bool("markdown", false, "Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "", "Write the report to the specified file path")
	cmd.Flags().String("config", "", "Configuration file path (default: .surge.yaml, then XDG config directory)")

	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildConfig creates a Config from cobra command flags and the
// positional target argument.
func buildConfig(cmd *cobra.Command, args []string, logger *slog.Logger) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.UserAgent = config.AppName + "/" + getVersion()

	var err error

	modeRaw, err := cmd.Flags().GetString("mode")
	if err != nil {
		return nil, err
	}
	cfg.Mode, err = config.ParseMode(modeRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, modeRaw)
	}

	methodRaw, err := cmd.Flags().GetString("method")
	if err != nil {
		return nil, err
	}
	cfg.Method, err = config.ParseMethod(methodRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, methodRaw)
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrent")
	if err != nil {
		return nil, err
	}

	connectMS, err := cmd.Flags().GetInt("timeout-connect")
	if err != nil {
		return nil, err
	}
	cfg.ConnectTimeout = time.Duration(connectMS) * time.Millisecond

	requestMS, err := cmd.Flags().GetInt("timeout")
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = time.Duration(requestMS) * time.Millisecond

	cfg.DisableCompression, err = cmd.Flags().GetBool("disable-compression")
	if err != nil {
		return nil, err
	}

	cfg.FollowRedirects, err = cmd.Flags().GetBool("follow-redirects")
	if err != nil {
		return nil, err
	}

	cfg.PreventDuplicates, err = cmd.Flags().GetBool("prevent-duplicate-requests")
	if err != nil {
		return nil, err
	}

	cfg.NoDelayedStart, err = cmd.Flags().GetBool("no-delayed-start")
	if err != nil {
		return nil, err
	}

	cfg.RandomArguments, err = cmd.Flags().GetBool("random-arguments")
	if err != nil {
		return nil, err
	}

	cfg.Verbose, err = cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	cfg.Requests, err = cmd.Flags().GetUint64("requests")
	if err != nil {
		return nil, err
	}

	durationRaw, err := cmd.Flags().GetString("duration")
	if err != nil {
		return nil, err
	}
	if durationRaw != "" {
		cfg.Duration, err = config.ParseDurationCap(durationRaw)
		if err != nil {
			return nil, err
		}
	}

	headerRaw, err := cmd.Flags().GetStringArray("header")
	if err != nil {
		return nil, err
	}
	cfg.Headers, err = config.ParseHeaders(headerRaw)
	if err != nil {
		return nil, err
	}

	basicAuthRaw, err := cmd.Flags().GetString("basic-auth")
	if err != nil {
		return nil, err
	}
	if basicAuthRaw != "" {
		cfg.BasicAuth, err = config.ParseBasicAuth(basicAuthRaw)
		if err != nil {
			return nil, err
		}
	}

	if err := loadTarget(cfg, args[0], logger); err != nil {
		return nil, err
	}

	domains, err := cmd.Flags().GetStringSlice("domains")
	if err != nil {
		return nil, err
	}

	if err := applyConfigFile(cmd, cfg, &domains); err != nil {
		return nil, err
	}

	cfg.AllowList, err = config.DeriveAllowList(domains, cfg.Mode, cfg.URL, cfg.URLs)
	if err != nil {
		return nil, err
	}

	cfg.ApplyRequestDefault(cmd.Flags().Changed("requests"))

	return cfg, nil
}

// loadTarget resolves the positional argument into the seed URL or,
// in file mode, the parsed URL list.
func loadTarget(cfg *config.Config, target string, logger *slog.Logger) error {
	if cfg.Mode == config.ModeFile {
		urls, err := config.LoadURLFile(target, logger)
		if err != nil {
			return err
		}
		cfg.URLs = urls
		return nil
	}

	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid target URL %q: %w", target, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("target URL %q must use http or https", target)
	}
	if u.Host == "" {
		return fmt.Errorf("target URL %q has no host", target)
	}
	cfg.URL = u
	return nil
}

// applyConfigFile loads the YAML config file, if any, and fills in
// defaults for values the user did not pass explicitly. The domains
// slice is seeded from the file only when the --domains flag is absent.
func applyConfigFile(cmd *cobra.Command, cfg *config.Config, domains *[]string) error {
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	path := config.FindConfigFile(explicit)
	if path == "" {
		if explicit != "" {
			return fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicit)
		}
		return nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return err
	}

	changed := map[string]bool{
		"concurrent":      cmd.Flags().Changed("concurrent"),
		"timeout-connect": cmd.Flags().Changed("timeout-connect"),
		"timeout":         cmd.Flags().Changed("timeout"),
	}
	file.Apply(cfg, changed)

	if len(*domains) == 0 {
		*domains = file.Domains
	}
	return nil
}
