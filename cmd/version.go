/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/fulmenhq/assetpipe/pkg/buildinfo"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE:  runVersion,
	}
	cmd.Flags().Bool("extended", false, "Show module and platform details")
	cmd.Flags().Bool("json", false, "Output version information in JSON format")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	out := cmd.OutOrStdout()

	if jsonOutput {
		versionInfo := map[string]interface{}{
			"version":   buildinfo.BinaryVersion,
			"goVersion": runtime.Version(),
			"platform":  runtime.GOOS,
			"arch":      runtime.GOARCH,
		}
		if extended {
			versionInfo["moduleVersion"] = buildinfo.ModuleVersion()
		}
		jsonData, err := json.MarshalIndent(versionInfo, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(jsonData))
		return nil
	}

	_, _ = fmt.Fprintln(out, buildinfo.Summary())
	if extended {
		mv := buildinfo.ModuleVersion()
		if mv == "" {
			mv = "unknown"
		}
		_, _ = fmt.Fprintf(out, "Module version: %s\n", mv)
	}
	return nil
}
