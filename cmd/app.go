package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fulmenhq/assetpipe/internal/bootstrap"
	"github.com/fulmenhq/assetpipe/pkg/config"
	"github.com/fulmenhq/assetpipe/pkg/exitcode"
	"github.com/fulmenhq/assetpipe/pkg/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// appOptions customize bootstrap wiring; tests swap in fakes.
var appOptions bootstrap.Options

func loadApp(cmd *cobra.Command) (*bootstrap.App, error) {
	project, _ := cmd.Flags().GetString("project")
	file, _ := cmd.Flags().GetString("config")
	env, _ := cmd.Flags().GetString("env")

	app, err := bootstrap.Load(config.LoadOptions{
		ProjectDir:  project,
		File:        file,
		Environment: env,
	}, appOptions)
	if err != nil {
		return nil, withExitCode(exitcode.ConfigError, err)
	}
	return app, nil
}

// groupsFromArg parses an optional group argument; empty means both.
func groupsFromArg(arg string) ([]pipeline.Group, error) {
	if arg == "" {
		return pipeline.Groups, nil
	}
	g, err := pipeline.ParseGroup(arg)
	if err != nil {
		return nil, withExitCode(exitcode.GeneralError, err)
	}
	return []pipeline.Group{g}, nil
}

// formatValue is a string flag restricted to a fixed set of values.
type formatValue struct {
	value   string
	allowed []string
}

var _ pflag.Value = (*formatValue)(nil)

func (f *formatValue) String() string { return f.value }

func (f *formatValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range f.allowed {
		if s == a {
			f.value = s
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q (%s)", s, strings.Join(f.allowed, "|"))
}

// Type reports string so cobra's GetString accessors keep working.
func (f *formatValue) Type() string { return "string" }

func addFormatFlag(cmd *cobra.Command, allowed ...string) {
	if len(allowed) == 0 {
		allowed = []string{"text", "json", "yaml"}
	}
	v := &formatValue{value: allowed[0], allowed: allowed}
	cmd.Flags().Var(v, "format", fmt.Sprintf("Output format (%s)", strings.Join(allowed, "|")))
}

func outputFormat(cmd *cobra.Command) (string, error) {
	return cmd.Flags().GetString("format")
}

// writeStructured renders v as json or yaml.
func writeStructured(out io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON output: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to format YAML output: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
}
