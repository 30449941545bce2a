package cmd

import (
	"errors"
	"fmt"

	"github.com/fulmenhq/assetpipe/pkg/exitcode"
	"github.com/fulmenhq/assetpipe/pkg/output"
	"github.com/spf13/cobra"
)

type resolvedAssetView struct {
	Identity string `json:"identity" yaml:"identity"`
	URL      string `json:"url" yaml:"url"`
	Remote   bool   `json:"remote,omitempty" yaml:"remote,omitempty"`
	Size     int    `json:"size" yaml:"size"`
}

type resolutionView struct {
	Collection string              `json:"collection" yaml:"collection"`
	Group      string              `json:"group" yaml:"group"`
	Kind       string              `json:"kind" yaml:"kind"`
	URL        string              `json:"url,omitempty" yaml:"url,omitempty"`
	Assets     []resolvedAssetView `json:"assets,omitempty" yaml:"assets,omitempty"`
}

func newResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <collection> [scripts|styles]",
		Short: "Show how a collection is served",
		Long: `Resolve a collection to its built bundle (production with a current manifest
entry) or to per-asset dynamic routes.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runResolve,
	}
	addFormatFlag(cmd)
	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
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

	var views []resolutionView
	for _, g := range groups {
		res, err := app.Resolver.Resolve(args[0], g)
		if err != nil {
			if errors.Is(err, output.ErrUnknownCollection) {
				return withExitCode(exitcode.NotFound, err)
			}
			return withExitCode(exitcode.BuildError, err)
		}
		view := resolutionView{Collection: res.Collection, Group: g.String(), Kind: res.Kind.String(), URL: res.URL}
		for _, a := range res.Assets {
			view.Assets = append(view.Assets, resolvedAssetView{Identity: a.Identity, URL: a.URL, Remote: a.Remote, Size: len(a.Content)})
		}
		views = append(views, view)
	}

	out := cmd.OutOrStdout()
	if format != "text" {
		return writeStructured(out, format, views)
	}
	for _, v := range views {
		if v.Kind == output.Static.String() {
			_, _ = fmt.Fprintf(out, "%s %s static %s\n", v.Collection, v.Group, v.URL)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s %s dynamic (%d assets)\n", v.Collection, v.Group, len(v.Assets))
		for _, a := range v.Assets {
			_, _ = fmt.Fprintf(out, "  %s -> %s\n", a.Identity, a.URL)
		}
	}
	return nil
}
