/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/fulmenhq/assetpipe/pkg/build"
	"github.com/fulmenhq/assetpipe/pkg/exitcode"
	"github.com/spf13/cobra"
)

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [collection...]",
		Short: "Build outstanding collections",
		Long: `Compile every group of the named collections (all collections when none are
given) and write fingerprinted bundles. Groups whose output is unchanged are
skipped unless --force is set.`,
		RunE: runBuild,
	}
	cmd.Flags().Bool("force", false, "Rebuild even when the fingerprint is unchanged")
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	app.Builder.SetForce(force)

	report, err := app.Builder.BuildOutstanding(cmd.Context(), app.Environment, args...)
	if errors.Is(err, build.ErrUnknownCollection) {
		return withExitCode(exitcode.NotFound, err)
	}

	out := cmd.OutOrStdout()
	if report != nil {
		for _, res := range report.Built {
			_, _ = fmt.Fprintf(out, "built    %-20s %-8s %s (%d bytes, %d assets)\n",
				res.Collection, res.Group, res.Name, res.Size, res.Assets)
		}
		for _, skip := range report.Skipped {
			_, _ = fmt.Fprintf(out, "skipped  %-20s %-8s %s\n", skip.Collection, skip.Group, skip.Reason)
		}
	}
	if err != nil {
		return withExitCode(exitcode.BuildError, err)
	}
	return nil
}
