/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fulmenhq/assetpipe/pkg/pipeline"
)

// FilterSpec declares a filter application or a filter alias.
type FilterSpec struct {
	Filter       string   `mapstructure:"filter" yaml:"filter" toml:"filter" json:"filter"`
	Arguments    []string `mapstructure:"arguments" yaml:"arguments" toml:"arguments" json:"arguments,omitempty"`
	Environments []string `mapstructure:"environments" yaml:"environments" toml:"environments" json:"environments,omitempty"`
	// Only is scripts or styles
	Only string `mapstructure:"only" yaml:"only" toml:"only" json:"only,omitempty"`
	// When is a doublestar pattern matched against the asset identity
	When            string `mapstructure:"when" yaml:"when" toml:"when" json:"when,omitempty"`
	FindMissingArgs bool   `mapstructure:"find_missing_args" yaml:"find_missing_args" toml:"find_missing_args" json:"find_missing_args,omitempty"`
}

// Configure applies the declared restrictions to f.
func (s FilterSpec) Configure(f *pipeline.Filter) error {
	if len(s.Arguments) > 0 {
		f.SetArguments(s.Arguments...)
	}
	f.OnEnvironments(s.Environments...)
	if s.Only != "" {
		g, err := pipeline.ParseGroup(s.Only)
		if err != nil {
			return err
		}
		if g == pipeline.Scripts {
			f.OnlyScripts()
		} else {
			f.OnlyStylesheets()
		}
	}
	if s.When != "" {
		f.WhenAssetIs(s.When)
	}
	if s.FindMissingArgs {
		f.FindMissingConstructorArgs()
	}
	return nil
}

// Step is one declarative collection instruction. Exactly one of Add,
// Directory, RequireDirectory, RequireTree or Apply is set.
type Step struct {
	Add              string `mapstructure:"add" yaml:"add" toml:"add" json:"add,omitempty"`
	Directory        string `mapstructure:"directory" yaml:"directory" toml:"directory" json:"directory,omitempty"`
	RequireDirectory string `mapstructure:"require_directory" yaml:"require_directory" toml:"require_directory" json:"require_directory,omitempty"`
	RequireTree      string `mapstructure:"require_tree" yaml:"require_tree" toml:"require_tree" json:"require_tree,omitempty"`
	// Apply attaches a collection-wide filter
	Apply *FilterSpec `mapstructure:"apply" yaml:"apply" toml:"apply" json:"apply,omitempty"`

	// Require is "directory" or "tree" on a directory step and requires
	// the working directory itself
	Require string `mapstructure:"require" yaml:"require" toml:"require" json:"require,omitempty"`
	Steps   []Step `mapstructure:"steps" yaml:"steps" toml:"steps" json:"steps,omitempty"`

	Ignore  bool         `mapstructure:"ignore" yaml:"ignore" toml:"ignore" json:"ignore,omitempty"`
	As      string       `mapstructure:"as" yaml:"as" toml:"as" json:"as,omitempty"`
	Only    []string     `mapstructure:"only" yaml:"only" toml:"only" json:"only,omitempty"`
	Except  []string     `mapstructure:"except" yaml:"except" toml:"except" json:"except,omitempty"`
	Filters []FilterSpec `mapstructure:"filters" yaml:"filters" toml:"filters" json:"filters,omitempty"`
}

// Kind names the instruction the step carries.
func (s Step) Kind() string {
	switch {
	case s.Add != "":
		return "add"
	case s.Directory != "":
		return "directory"
	case s.RequireDirectory != "":
		return "require_directory"
	case s.RequireTree != "":
		return "require_tree"
	case s.Apply != nil:
		return "apply"
	default:
		return ""
	}
}

// Validate checks that the step carries exactly one instruction and only
// modifiers that instruction understands.
func (s Step) Validate() error {
	set := 0
	for _, v := range []string{s.Add, s.Directory, s.RequireDirectory, s.RequireTree} {
		if v != "" {
			set++
		}
	}
	if s.Apply != nil {
		set++
	}
	if set != 1 {
		return errors.New("a step needs exactly one of add, directory, require_directory, require_tree or apply")
	}

	kind := s.Kind()
	if s.Require != "" && kind != "directory" {
		return fmt.Errorf("require is only valid on directory steps")
	}
	if s.Require != "" && s.Require != "directory" && s.Require != "tree" {
		return fmt.Errorf("require must be directory or tree, got %q", s.Require)
	}
	if kind == "directory" && s.Require == "" && len(s.Filters) > 0 {
		return fmt.Errorf("filters on a directory step need require")
	}
	if len(s.Steps) > 0 && kind != "directory" {
		return fmt.Errorf("steps are only valid on directory steps")
	}
	if (len(s.Only) > 0 || len(s.Except) > 0) && kind != "require_directory" && kind != "require_tree" && s.Require == "" {
		return fmt.Errorf("only/except need a required directory")
	}
	if (s.Ignore || s.As != "") && kind != "add" {
		return fmt.Errorf("ignore and as are only valid on add steps")
	}
	if s.As != "" {
		if _, err := pipeline.ParseGroup(s.As); err != nil {
			return err
		}
	}
	if kind == "apply" && strings.TrimSpace(s.Apply.Filter) == "" {
		return fmt.Errorf("apply needs a filter name")
	}
	if kind == "apply" && len(s.Filters) > 0 {
		return fmt.Errorf("filters are not valid on apply steps")
	}
	for _, f := range s.Filters {
		if strings.TrimSpace(f.Filter) == "" {
			return fmt.Errorf("filter entry without a filter name")
		}
	}
	for i, child := range s.Steps {
		if err := child.Validate(); err != nil {
			return fmt.Errorf("nested step %d: %w", i+1, err)
		}
	}
	return nil
}

// AssembleCollection replays declared steps onto a collection.
func AssembleCollection(c *pipeline.Collection, steps []Step) error {
	var errs []error
	for i, s := range steps {
		if err := applyStep(c, s); err != nil {
			errs = append(errs, fmt.Errorf("collection %q step %d (%s): %w", c.Name(), i+1, s.Kind(), err))
		}
	}
	return errors.Join(errs...)
}

func applyStep(c *pipeline.Collection, s Step) error {
	switch s.Kind() {
	case "add":
		a := c.Add(s.Add)
		if s.As != "" {
			g, err := pipeline.ParseGroup(s.As)
			if err != nil {
				return err
			}
			a.As(g)
		}
		if s.Ignore {
			a.Ignore()
		}
		return applyFilters(s.Filters, a.Apply)

	case "require_directory":
		return requireDirectory(c.RequireDirectory(s.RequireDirectory), s)

	case "require_tree":
		return requireDirectory(c.RequireTree(s.RequireTree), s)

	case "directory":
		var err error
		c.Directory(s.Directory, func(c *pipeline.Collection) {
			var errs []error
			switch s.Require {
			case "directory":
				errs = append(errs, requireDirectory(c.RequireDirectory(), s))
			case "tree":
				errs = append(errs, requireDirectory(c.RequireTree(), s))
			}
			for _, child := range s.Steps {
				errs = append(errs, applyStep(c, child))
			}
			err = errors.Join(errs...)
		})
		return err

	case "apply":
		return applyFilters([]FilterSpec{*s.Apply}, c.Apply)

	default:
		return errors.New("empty step")
	}
}

func requireDirectory(d *pipeline.Directory, s Step) error {
	if err := d.Err(); err != nil {
		return err
	}
	if len(s.Only) > 0 {
		d.Only(s.Only...)
	}
	if len(s.Except) > 0 {
		d.Except(s.Except...)
	}
	return applyFilters(s.Filters, d.Apply)
}

func applyFilters(specs []FilterSpec, apply func(string, ...func(*pipeline.Filter)) *pipeline.Filter) error {
	var errs []error
	for _, spec := range specs {
		name := strings.TrimSpace(spec.Filter)
		if name == "" {
			errs = append(errs, errors.New("filter entry without a filter name"))
			continue
		}
		if err := spec.Configure(apply(name)); err != nil {
			errs = append(errs, fmt.Errorf("filter %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
