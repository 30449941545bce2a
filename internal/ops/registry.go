/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package ops

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/cobra"
)

// CommandGroup represents the operational classification of commands
type CommandGroup string

const (
	GroupPipeline CommandGroup = "pipeline" // build, clean
	GroupInspect  CommandGroup = "inspect"  // collections, resolve, tags, manifest
	GroupSupport  CommandGroup = "support"  // envinfo, version
)

// Titles used for cobra help grouping
var groupTitles = map[CommandGroup]string{
	GroupPipeline: "Pipeline Commands:",
	GroupInspect:  "Inspection Commands:",
	GroupSupport:  "Support Commands:",
}

// Groups lists the known groups in help order
func Groups() []CommandGroup {
	return []CommandGroup{GroupPipeline, GroupInspect, GroupSupport}
}

// Title returns the help heading for the group
func (g CommandGroup) Title() string {
	if t, ok := groupTitles[g]; ok {
		return t
	}
	return string(g) + ":"
}

// CommandRegistration represents a registered command with its classification
type CommandRegistration struct {
	Name        string
	Group       CommandGroup
	Command     *cobra.Command
	Description string
}

// Registry manages command classifications and registrations
type Registry struct {
	mu         sync.RWMutex
	commands   map[string]*CommandRegistration
	groupIndex map[CommandGroup][]*CommandRegistration
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		commands:   make(map[string]*CommandRegistration),
		groupIndex: make(map[CommandGroup][]*CommandRegistration),
	}
}

var globalRegistry = NewRegistry()

// GetRegistry returns the global command registry
func GetRegistry() *Registry {
	return globalRegistry
}

// RegisterCommand registers a command with its operational classification
func RegisterCommand(name string, group CommandGroup, cmd *cobra.Command, description string) error {
	return GetRegistry().Register(name, group, cmd, description)
}

// Register adds a command to the registry
func (r *Registry) Register(name string, group CommandGroup, cmd *cobra.Command, description string) error {
	if _, known := groupTitles[group]; !known {
		return fmt.Errorf("command %s: unknown group %q", name, group)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command %s already registered", name)
	}

	registration := &CommandRegistration{
		Name:        name,
		Group:       group,
		Command:     cmd,
		Description: description,
	}

	r.commands[name] = registration
	r.groupIndex[group] = append(r.groupIndex[group], registration)

	return nil
}

// GetCommand returns a registered command by name
func (r *Registry) GetCommand(name string) (*CommandRegistration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetCommandsByGroup returns all commands in a specific group
func (r *Registry) GetCommandsByGroup(group CommandGroup) []*CommandRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*CommandRegistration, len(r.groupIndex[group]))
	copy(out, r.groupIndex[group])
	return out
}

// Names returns registered command names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListGroups returns all command groups and their command counts
func (r *Registry) ListGroups() map[CommandGroup]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[CommandGroup]int)
	for group, commands := range r.groupIndex {
		result[group] = len(commands)
	}
	return result
}

// Attach adds every registered command to root under its help group.
func (r *Registry) Attach(root *cobra.Command) {
	for _, group := range Groups() {
		regs := r.GetCommandsByGroup(group)
		if len(regs) == 0 {
			continue
		}
		if !root.ContainsGroup(string(group)) {
			root.AddGroup(&cobra.Group{ID: string(group), Title: group.Title()})
		}
		for _, reg := range regs {
			reg.Command.GroupID = string(group)
			root.AddCommand(reg.Command)
		}
	}
}
