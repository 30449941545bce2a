/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/fulmenhq/assetpipe/pkg/exitcode"
	"github.com/spf13/cobra"
)

func newCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [collection...]",
		Short: "Remove superseded bundles",
		Long: `Remove bundles of the named collections (all collections in the manifest
when none are given) whose fingerprint is not the one currently recorded.`,
		RunE: runClean,
	}
	cmd.Flags().Bool("dry-run", false, "List the files that would be removed")
	return cmd
}

func runClean(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	app.Cleaner.DryRun = dryRun

	removed, err := app.Cleaner.Clean(args...)
	verb := "removed"
	if dryRun {
		verb = "would remove"
	}
	out := cmd.OutOrStdout()
	for _, p := range removed {
		if rel, relErr := filepath.Rel(app.Config.BuildPath, p); relErr == nil {
			p = rel
		}
		_, _ = fmt.Fprintf(out, "%s %s\n", verb, filepath.ToSlash(p))
	}
	if err != nil {
		return withExitCode(exitcode.FileSystemError, err)
	}
	return nil
}
