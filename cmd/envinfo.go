/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/fulmenhq/assetpipe/pkg/ascii"
	"github.com/fulmenhq/assetpipe/pkg/buildinfo"
	"github.com/fulmenhq/assetpipe/pkg/transform"
	"github.com/spf13/cobra"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorBlue  = "\033[34m"
	colorBold  = "\033[1m"
)

// colorize returns colored text if colors are enabled
func colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + colorReset
}

// EnvData represents the structured data for environment information.
type EnvData struct {
	System      SystemInfo    `json:"system" yaml:"system"`
	Environment string        `json:"environment" yaml:"environment"`
	Production  bool          `json:"production" yaml:"production"`
	PublicPath  string        `json:"publicPath" yaml:"publicPath"`
	BuildPath   string        `json:"buildPath" yaml:"buildPath"`
	Manifest    string        `json:"manifest" yaml:"manifest"`
	ConfigFile  string        `json:"configFile,omitempty" yaml:"configFile,omitempty"`
	Filters     []FilterLookup `json:"filters" yaml:"filters"`
}

// SystemInfo holds system-related information.
type SystemInfo struct {
	OS           string    `json:"os" yaml:"os"`
	Architecture string    `json:"architecture" yaml:"architecture"`
	GoVersion    string    `json:"goVersion" yaml:"goVersion"`
	NumCPU       int       `json:"numCPU" yaml:"numCPU"`
	WorkingDir   string    `json:"workingDir" yaml:"workingDir"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	Version      string    `json:"version" yaml:"version"`
}

// FilterLookup reports where a filter's executable would come from.
type FilterLookup struct {
	Name       string `json:"name" yaml:"name"`
	Executable string `json:"executable,omitempty" yaml:"executable,omitempty"`
	EnvVar     string `json:"envVar,omitempty" yaml:"envVar,omitempty"`
	Resolved   string `json:"resolved,omitempty" yaml:"resolved,omitempty"`
	Source     string `json:"source" yaml:"source"`
}

func newEnvinfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "envinfo",
		Short: "Show environment and filter availability",
		Long: `Display the active configuration, system information and, for every filter
definition, whether its executable can be found through its <NAME>_BIN
variable or the node and PATH search.`,
		RunE: runEnvinfo,
	}
	addFormatFlag(cmd)
	return cmd
}

func runEnvinfo(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	cfg := app.Config

	wd, _ := os.Getwd()
	data := EnvData{
		System: SystemInfo{
			OS:           runtime.GOOS,
			Architecture: runtime.GOARCH,
			GoVersion:    runtime.Version(),
			NumCPU:       runtime.NumCPU(),
			WorkingDir:   wd,
			Timestamp:    time.Now(),
			Version:      buildinfo.BinaryVersion,
		},
		Environment: cfg.Environment,
		Production:  app.Environment.RunningInProduction(),
		PublicPath:  cfg.PublicPath,
		BuildPath:   cfg.BuildPath,
		Manifest:    cfg.ManifestPath,
		ConfigFile:  cfg.File,
	}

	finder := appOptions.Finder
	if finder == nil {
		finder = transform.NewLocalFinder(cfg.NodePaths...)
	}
	for _, def := range app.Filters.Definitions() {
		lookup := FilterLookup{Name: def.Name, Executable: def.Executable, Source: "builtin"}
		if def.Executable != "" {
			lookup.EnvVar = def.EnvVarName()
			lookup.Source = "missing"
			if v, ok := os.LookupEnv(lookup.EnvVar); ok && v != "" {
				lookup.Resolved, lookup.Source = v, "env"
			} else if p, ok := finder.Find(def.Executable); ok {
				lookup.Resolved, lookup.Source = p, "path"
			}
		}
		data.Filters = append(data.Filters, lookup)
	}

	out := cmd.OutOrStdout()
	if format != "text" {
		return writeStructured(out, format, data)
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	useColor := !noColor

	_, _ = fmt.Fprintln(out, colorize("System Information", colorBold+colorBlue, useColor))
	_, _ = fmt.Fprint(out, ascii.Box([]string{
		fmt.Sprintf("%-16s | %s/%s", "Platform", data.System.OS, data.System.Architecture),
		fmt.Sprintf("%-16s | %s", "Go Version", data.System.GoVersion),
		fmt.Sprintf("%-16s | %d", "CPU Cores", data.System.NumCPU),
		fmt.Sprintf("%-16s | %s", "Assetpipe", data.System.Version),
		fmt.Sprintf("%-16s | %s", "Environment", data.Environment),
		fmt.Sprintf("%-16s | %t", "Production", data.Production),
		fmt.Sprintf("%-16s | %s", "Public Path", data.PublicPath),
		fmt.Sprintf("%-16s | %s", "Build Path", data.BuildPath),
		fmt.Sprintf("%-16s | %s", "Manifest", data.Manifest),
	}))

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, colorize("Filters", colorBold+colorBlue, useColor))
	table := ascii.NewTable("FILTER", "EXECUTABLE", "VARIABLE", "SOURCE", "RESOLVED")
	for _, p := range data.Filters {
		table.AddRow(p.Name, p.Executable, p.EnvVar, p.Source, p.Resolved)
	}
	_, _ = fmt.Fprint(out, table.String())
	return nil
}
