package cli

import (
	"context"
	"fmt"
	"io"

	"hirelink/internal/common"
	"hirelink/internal/config"
	"hirelink/internal/errors"
	"hirelink/internal/validation"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}
type outputKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}
var outputKey = outputKeyType{}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	ConfigFile string
	LogLevel   string
	Output     common.CommandConfig
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	gf := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "hirelink",
		Short: "Command-line client for the hirelink job portal",
		Long: `hirelink is a command-line client for the hirelink job portal. Candidates
browse open jobs, apply with a PDF resume and analyze a resume against a job
description. HR users post jobs and review the resumes sent for them.

Every sub-command opens one screen of the portal. Screens that need a login
or a particular role redirect instead of calling the API. The session is kept
between invocations; use "shell" to stay on one navigator across screens.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvironment(cmd, gf)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&gf.ConfigFile, "config", "", "Config file (default: search /etc/hirelink, $HOME/.hirelink, .)")
	pf.StringVar(&gf.LogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	pf.StringVarP(&gf.Output.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	pf.StringVar(&gf.Output.OutputFormat, "format", "", "Output format: json or text")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return common.NewOutputHandler(errors.Discard()).GetSupportedFormats(), cobra.ShellCompDirectiveNoFileComp
	})

	cmd.AddCommand(
		newHomeCmd(),
		newWhoamiCmd(),
		newLoginCmd(),
		newSignupCmd(),
		newLogoutCmd(),
		newJobsCmd(),
		newResumeCmd(),
		newChatCmd(),
		newShellCmd(),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the command line. Configuration is loaded once flags are
// parsed, so --config and --log-level take effect.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// ReportError writes the user-facing form of err.
func ReportError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", errors.Message(err, err.Error()))
}

// loadEnvironment loads configuration and the logger before any command runs.
func loadEnvironment(cmd *cobra.Command, gf *globalFlags) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.LoadConfig(gf.ConfigFile)
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "Failed to load configuration", err)
	}
	if gf.LogLevel != "" {
		cfg.App.LogLevel = gf.LogLevel
	}

	logger, err := errors.New(cmd.ErrOrStderr(), cfg.App.LogLevel)
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "Failed to initialize logger", err)
	}
	cfg.LogConfigurationSources(logger)

	out := gf.Output
	out.OutputFormat = common.NewOutputHandler(logger).ResolveFormat(out, cfg.App.DefaultFormat)
	if err := validation.ValidateOutputFormat(out.OutputFormat, cfg.App.SupportedFormats); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat, err.Error(), nil)
	}

	// Attach the config and logger to the context, making them available to all subcommands
	ctx := context.WithValue(cmd.Context(), configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	ctx = context.WithValue(ctx, outputKey, out)
	cmd.SetContext(ctx)
	return nil
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

func getOutputConfigFromContext(ctx context.Context) common.CommandConfig {
	out, _ := ctx.Value(outputKey).(common.CommandConfig)
	return out
}
