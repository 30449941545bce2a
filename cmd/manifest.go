package cmd

import (
	"github.com/fulmenhq/assetpipe/pkg/exitcode"
	"github.com/spf13/cobra"
)

func newManifestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the build manifest",
		RunE:  runManifest,
	}
	addFormatFlag(cmd, "json", "yaml")
	return cmd
}

func runManifest(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	doc, err := app.Manifest.Snapshot()
	if err != nil {
		return withExitCode(exitcode.FileSystemError, err)
	}
	return writeStructured(cmd.OutOrStdout(), format, doc)
}
