package cmd

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/assetpipe/pkg/ascii"
	"github.com/fulmenhq/assetpipe/pkg/pipeline"
	"github.com/spf13/cobra"
)

type assetView struct {
	Identity string   `json:"identity" yaml:"identity"`
	Group    string   `json:"group" yaml:"group"`
	Remote   bool     `json:"remote,omitempty" yaml:"remote,omitempty"`
	Ignored  bool     `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	Filters  []string `json:"filters,omitempty" yaml:"filters,omitempty"`
}

type collectionView struct {
	Name   string      `json:"name" yaml:"name"`
	Assets []assetView `json:"assets" yaml:"assets"`
}

func newCollectionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections [collection...]",
		Short: "List collections and their assets",
		RunE:  runCollections,
	}
	addFormatFlag(cmd)
	return cmd
}

func runCollections(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = app.Environment.Names()
	}
	views := make([]collectionView, 0, len(names))
	for _, name := range names {
		col, ok := app.Environment.Get(name)
		if !ok {
			return fmt.Errorf("unknown collection %q", name)
		}
		views = append(views, describeCollection(col))
	}

	out := cmd.OutOrStdout()
	if format != "text" {
		return writeStructured(out, format, views)
	}

	table := ascii.NewTable("COLLECTION", "GROUP", "IDENTITY", "FILTERS", "FLAGS")
	table.MaxWidth = 60
	for _, v := range views {
		if len(v.Assets) == 0 {
			table.AddRow(v.Name, "-", "(empty)")
			continue
		}
		for _, a := range v.Assets {
			var flags []string
			if a.Remote {
				flags = append(flags, "remote")
			}
			if a.Ignored {
				flags = append(flags, "ignored")
			}
			table.AddRow(v.Name, a.Group, a.Identity, strings.Join(a.Filters, ","), strings.Join(flags, ","))
		}
	}
	_, err = fmt.Fprint(out, table.String())
	return err
}

func describeCollection(col *pipeline.Collection) collectionView {
	view := collectionView{Name: col.Name(), Assets: []assetView{}}
	for _, a := range col.Assets(pipeline.NoGroup) {
		av := assetView{
			Identity: a.Identity(),
			Group:    a.Group().String(),
			Remote:   a.IsRemote(),
			Ignored:  a.IsIgnored(),
		}
		for _, f := range a.Filters() {
			av.Filters = append(av.Filters, f.Name())
		}
		view.Assets = append(view.Assets, av)
	}
	return view
}
