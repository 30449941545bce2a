package cmd

import (
	"errors"
	"fmt"

	"github.com/fulmenhq/assetpipe/pkg/exitcode"
	"github.com/fulmenhq/assetpipe/pkg/output"
	"github.com/spf13/cobra"
)

func newTagsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tags <collection> [scripts|styles]",
		Short: "Print HTML tags for a collection",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runTags,
	}
}

func runTags(cmd *cobra.Command, args []string) error {
	groupArg := ""
	if len(args) > 1 {
		groupArg = args[1]
	}
	groups, err := groupsFromArg(groupArg)
	if err != nil {
		return err
	}
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}

	for _, g := range groups {
		html, err := app.Resolver.Tags(args[0], g)
		if err != nil {
			if errors.Is(err, output.ErrUnknownCollection) {
				return withExitCode(exitcode.NotFound, err)
			}
			return withExitCode(exitcode.BuildError, err)
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), html)
	}
	return nil
}
