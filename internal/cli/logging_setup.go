package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/starwind-ui/starwind/internal/config"
	"github.com/starwind-ui/starwind/internal/logging"
)

type settingsKey struct{}

// setupLogging resolves the project root, loads settings for it and
// configures logging from settings, environment and CLI flags.
func setupLogging(cmd *cobra.Command) (logging.LogPathResult, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cwdFlag, _ := cmd.Flags().GetString("cwd")
	wd, err := os.Getwd()
	if err != nil {
		return logging.LogPathResult{}, fmt.Errorf("getting working directory: %w", err)
	}
	root := config.ResolveProjectRoot(ctx, cwdFlag, wd)
	config.SetResolvedProjectRoot(root)

	settings := config.LoadSettingsForProject(ctx, root)

	loggingCfg := settings.Logging
	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = "console"
		loggingCfg.File = ""
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	traceID := os.Getenv(logging.TraceIDEnv)
	if traceID == "" {
		traceID = logging.GetOrGenerateTraceID(ctx)
	}
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	ctx = context.WithValue(ctx, settingsKey{}, settings)
	cmd.SetContext(ctx)

	logger.Debug().
		Ctx(ctx).
		Str("command", cmd.Name()).
		Str("project_root", root).
		Msg("command started")

	return result, nil
}

// settingsFrom returns the settings loaded for this invocation.
func settingsFrom(ctx context.Context) *config.Settings {
	if s, ok := ctx.Value(settingsKey{}).(*config.Settings); ok && s != nil {
		return s
	}
	s := config.DefaultSettings()
	s.SetPath(config.SettingsPath())
	return s
}
