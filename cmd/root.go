/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"os"

	"github.com/fulmenhq/assetpipe/internal/ops"
	"github.com/fulmenhq/assetpipe/pkg/buildinfo"
	"github.com/fulmenhq/assetpipe/pkg/exitcode"
	"github.com/fulmenhq/assetpipe/pkg/logger"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// Tests build isolated command trees from it.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assetpipe",
		Short: "Collect, filter and fingerprint web assets",
		Long: `Assetpipe groups scripts and stylesheets into named collections, runs them
through configured filters and writes fingerprinted bundles plus a manifest.

Examples:
   assetpipe build              # Build every outstanding collection
   assetpipe build app --force  # Rebuild one collection
   assetpipe clean              # Remove superseded bundles
   assetpipe tags app           # Print HTML tags for a collection`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("project", ".", "Project directory")
	cmd.PersistentFlags().String("config", "", "Configuration file (default <project>/assetpipe.yaml)")
	cmd.PersistentFlags().String("env", "", "Override the application environment")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("assetpipe {{.Version}}\n")

	return cmd
}

// registerSubcommands registers and attaches all subcommands.
func registerSubcommands(root *cobra.Command, reg *ops.Registry) {
	commands := []struct {
		group ops.CommandGroup
		cmd   *cobra.Command
	}{
		{ops.GroupPipeline, newBuildCommand()},
		{ops.GroupPipeline, newCleanCommand()},
		{ops.GroupInspect, newCollectionsCommand()},
		{ops.GroupInspect, newResolveCommand()},
		{ops.GroupInspect, newTagsCommand()},
		{ops.GroupInspect, newManifestCommand()},
		{ops.GroupSupport, newEnvinfoCommand()},
		{ops.GroupSupport, newVersionCommand()},
	}
	for _, c := range commands {
		if err := reg.Register(c.cmd.Name(), c.group, c.cmd, c.cmd.Short); err != nil {
			panic(err)
		}
	}
	reg.Attach(root)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func init() {
	registerSubcommands(rootCmd, ops.GetRegistry())
}

// Execute runs the root command and exits with the mapped status code.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

// exitError attaches a process exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

func exitCodeFor(err error) int {
	if err == nil {
		return exitcode.Success
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitcode.GeneralError
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "assetpipe",
	}

	if err := logger.Initialize(config); err != nil {
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
	logger.SetOutput(cmd.ErrOrStderr())
}
