package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/reqcheck/internal/app"
	"github.com/oshokin/reqcheck/internal/config"
	"github.com/oshokin/reqcheck/internal/logger"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "reqcheck [flags] {paths}",
		Short: "Probe HTTP endpoints and check their status codes.",
		Long: `Reqcheck sends one HTTP request per path and checks the response status code.
Every request and response is logged the way a test report shows it:
- Request line, headers and body
- Response status, duration, headers and body
- One check per response

Large bodies are saved as attachments and the whole run can be written as a YAML report.`,
		Args:             cobra.MinimumNArgs(1),
		PersistentPreRun: initConfig,
		SilenceUsage:     true,
		RunE: func(cmd *cobra.Command, paths []string) error {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				return fmt.Errorf("failed to parse flags: %w", err)
			}

			logger.SetLevel(appConfig.ParsedLogLevel)

			return app.ExecuteRootCommand(cmd.Context(), appConfig, paths)
		},
	}
)

// Execute executes the root command and exits with a non-zero code when it fails.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	result := make(chan error, 1)

	go func() {
		defer stop()

		result <- rootCmd.ExecuteContext(ctx)
	}()

	<-ctx.Done()

	var err error

	select {
	case err = <-result:
	default:
		err = context.Cause(ctx)
	}

	stop()

	_ = logger.Logger().Sync()

	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	registerProbeFlags(rootCmd.Flags())

	rootCmd.AddCommand(versionCmd, configCmd)
}

// registerProbeFlags adds the flags that override configuration values.
//
//nolint:funlen // One call per flag.
func registerProbeFlags(rootCmdFlags *pflag.FlagSet) {

	rootCmdFlags.StringP(
		"base-url",
		"b",
		"",
		"URL prefixed to every path, for example: https://api.example.net/v1.")

	rootCmdFlags.StringP(
		"method",
		"X",
		"",
		"HTTP method used for every request (default is GET).")

	rootCmdFlags.StringP(
		"expect",
		"e",
		"",
		"expected status code: 2xx, 201, 200-204 or a comma-separated list (default is 2xx).")

	rootCmdFlags.StringP(
		"mode",
		"m",
		"",
		"check mode: check, require, assert or raise (default is check).")

	rootCmdFlags.StringP(
		"policy",
		"p",
		"",
		"logging policy: on, off, no-headers or no-response-body (default is on).")

	rootCmdFlags.String(
		"hint",
		"",
		"label added to every logged request and response.")

	rootCmdFlags.StringArrayP(
		"header",
		"H",
		nil,
		"extra request header in 'Name: value' form, can be repeated.")

	rootCmdFlags.StringP(
		"data",
		"d",
		"",
		"raw request body.")

	rootCmdFlags.String(
		"json",
		"",
		"JSON request body.")

	rootCmdFlags.StringP(
		"report",
		"r",
		"",
		"path of the YAML report to write.")

	rootCmdFlags.StringP(
		"timeout",
		"t",
		"",
		"per-request timeout, for example: 5s, 1m (default is 30s).")

	rootCmdFlags.Float64(
		"rps",
		0,
		"maximum number of requests per second, 0 means unlimited.")

	rootCmdFlags.String(
		"max-inline-size",
		"",
		"body size above which bodies are saved as attachments, for example: 2KiB, 0 to keep every body inline.")

	rootCmdFlags.String(
		"attachments",
		"",
		"directory where attachments are saved.")

	rootCmdFlags.Bool(
		"debug-report",
		false,
		"log every request and response at debug level and keep bodies inline.")

	rootCmdFlags.StringP(
		"user-agent",
		"A",
		"",
		"User-Agent header sent with every request.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}
}

//nolint:cyclop,funlen // Every flag is bound the same way.
func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("base-url"); flag != nil && flag.Changed {
		cfg.BaseURL, _ = flags.GetString("base-url")
	}

	if flag := flags.Lookup("method"); flag != nil && flag.Changed {
		cfg.Method, _ = flags.GetString("method")
	}

	if flag := flags.Lookup("expect"); flag != nil && flag.Changed {
		cfg.ExpectedStatus, _ = flags.GetString("expect")
	}

	if flag := flags.Lookup("mode"); flag != nil && flag.Changed {
		cfg.CheckMode, _ = flags.GetString("mode")
	}

	if flag := flags.Lookup("policy"); flag != nil && flag.Changed {
		cfg.LoggingPolicy, _ = flags.GetString("policy")
	}

	if flag := flags.Lookup("hint"); flag != nil && flag.Changed {
		cfg.Hint, _ = flags.GetString("hint")
	}

	if flag := flags.Lookup("header"); flag != nil && flag.Changed {
		headers, _ := flags.GetStringArray("header")
		cfg.Headers = append(cfg.Headers, headers...)
	}

	if flag := flags.Lookup("data"); flag != nil && flag.Changed {
		cfg.Body, _ = flags.GetString("data")
	}

	if flag := flags.Lookup("json"); flag != nil && flag.Changed {
		cfg.JSONBody, _ = flags.GetString("json")
	}

	if flag := flags.Lookup("report"); flag != nil && flag.Changed {
		cfg.ReportPath, _ = flags.GetString("report")
	}

	if flag := flags.Lookup("timeout"); flag != nil && flag.Changed {
		cfg.Timeout, _ = flags.GetString("timeout")
	}

	if flag := flags.Lookup("rps"); flag != nil && flag.Changed {
		cfg.RequestsPerSecond, _ = flags.GetFloat64("rps")
	}

	if flag := flags.Lookup("max-inline-size"); flag != nil && flag.Changed {
		cfg.MaxInlineSize, _ = flags.GetString("max-inline-size")
	}

	if flag := flags.Lookup("attachments"); flag != nil && flag.Changed {
		cfg.AttachmentsPath, _ = flags.GetString("attachments")
	}

	if flag := flags.Lookup("debug-report"); flag != nil && flag.Changed {
		cfg.DebugReport, _ = flags.GetBool("debug-report")
	}

	if flag := flags.Lookup("user-agent"); flag != nil && flag.Changed {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}

	return config.ValidateConfig(cfg)
}
