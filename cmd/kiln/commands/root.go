// Package commands implements the CLI commands for the kiln build tool.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/adapters/config"    //nolint:depguard // settings are resolved at the edge
	"go.trai.ch/kiln/internal/adapters/telemetry" //nolint:depguard // tracing is installed at the edge
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/build"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// dotEnvFile is read from the working directory before settings are resolved.
const dotEnvFile = ".env"

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.BuildOptions) error
	Run(ctx context.Context, opts app.RunOptions) error
	Watch(ctx context.Context, opts app.WatchOptions) error
	Fetch(ctx context.Context, manifest string) error
	Status() error
	Init(dir, name string) error
}

// configurableLogger is implemented by loggers whose format and level can change at runtime.
type configurableLogger interface {
	SetJSON(enable bool)
	SetLevel(level slog.Level)
}

// CLI represents the command line interface for kiln.
type CLI struct {
	app      Application
	logger   ports.Logger
	rootCmd  *cobra.Command
	settings config.Settings
	shutdown func(context.Context) error
}

// New creates a new CLI instance with the given app. Settings are applied to logger before
// any command runs.
func New(a Application, logger ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "kiln",
		Short:         "A small build orchestrator for C and C++ projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("manifest", "m", domain.ManifestFileName, "Path to the project manifest")
	flags.Bool("json", false, "Log in JSON instead of text")
	flags.BoolP("quiet", "q", false, "Only log warnings and errors")
	flags.Bool("trace", false, "Log a span for every compile, link and fetch step")
	flags.String("metrics-out", "", "Write Prometheus metrics to this file after the command")
	flags.BoolP("sequential", "s", false, "Compile one source at a time")

	c := &CLI{
		app:     a,
		logger:  logger,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRunE = c.configure

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newFetchCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newNewCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// configure resolves the settings of the command about to run from flags, KILN_* variables
// and the .env file, then applies them to the logger and the tracer.
func (c *CLI) configure(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		return err
	}

	v := config.NewViper()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	c.settings = config.Decode(v)

	if l, ok := c.logger.(configurableLogger); ok {
		l.SetJSON(c.settings.JSON)
		l.SetLevel(c.settings.LogLevel())
	}
	if c.settings.Trace {
		c.shutdown = telemetry.Setup(c.logger)
	}
	return nil
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	err := c.rootCmd.Execute()
	if c.shutdown != nil {
		err = errors.Join(err, c.shutdown(context.WithoutCancel(ctx)))
	}
	return err
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// Settings returns the settings resolved for the last executed command.
func (c *CLI) Settings() config.Settings {
	return c.settings
}

func (c *CLI) buildOptions(targets []string) app.BuildOptions {
	return app.BuildOptions{
		Manifest:   c.settings.Manifest,
		Targets:    targets,
		Sequential: c.settings.Sequential,
		Rebuild:    c.settings.Rebuild,
		MetricsOut: c.settings.MetricsOut,
	}
}

func addRebuildFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("rebuild", "B", false, "Recompile every source, ignoring object timestamps")
}
