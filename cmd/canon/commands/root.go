// Package commands implements the CLI commands for canon.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/canon/cmd"
	"github.com/thoreinstein/canon/internal/config"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// loadedConfig is the configuration read by initConfig.
var loadedConfig *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./config.yaml or $XDG_CONFIG_HOME/canon/config.yaml)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("canon version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "canon",
	Short: "Convert AI assistant instructions between dialects",
	Long: `canon converts AI coding assistant instruction artifacts between dialects:
Cursor rules, Claude skills and agents, Kiro steering files and agents,
Copilot instructions, Gemini commands and plain markdown.

Every conversion goes through one canonical model. canon reports what the
target cannot carry as warnings and scores each conversion from 0 to 100.`,
	Example: `  # Convert a Cursor rule to Kiro steering
  canon convert .cursor/rules/go.mdc --to kiro --inclusion always

  # See what each dialect can carry
  canon formats

  # Rate a skill for discovery ranking
  canon score .claude/skills/review/SKILL.md --verified`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging installs the command logger as slog's default and attaches
// it to the command context.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}
	switch logging.Format(logFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return errors.NewUserError(errors.Newf("unknown log format %q", logFormat), "use --log-format text or json")
	}

	level := logLevel(quiet, verbosity, os.Getenv("CANON_DEBUG"))
	handler := logging.New(logging.Config{
		Level:  level,
		Format: logging.Format(logFormat),
		Output: cmd.ErrOrStderr(),
	}).Handler()

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// The file always gets JSON so it can be shipped or grepped with jq.
		file := logging.New(logging.Config{Level: level, Format: logging.FormatJSON, Output: f})
		handler = logging.NewMultiHandler(handler, file.Handler())
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))
	return nil
}

// logLevel resolves the log level. -q wins, then -v, then CANON_DEBUG
// ("1"/"true" for debug, "2" for trace).
func logLevel(quiet bool, verbosity int, debugEnv string) slog.Level {
	if quiet {
		return slog.LevelError
	}
	if verbosity == 0 {
		switch debugEnv {
		case "1", "true":
			verbosity = 2
		case "2":
			verbosity = 3
		}
	}
	return logging.LevelFromVerbosity(verbosity)
}

// checkConfig surfaces config load errors for every command but help and
// version.
func checkConfig(cmd *cobra.Command) error {
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

// currentConfig returns the loaded configuration, loading defaults when
// commands run outside Execute.
func currentConfig() (*config.Config, error) {
	if loadedConfig != nil {
		return loadedConfig, nil
	}
	config.Init()
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	loadedConfig = cfg
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return errors.Wrap(rootCmd.Execute(), "executing root command")
}
