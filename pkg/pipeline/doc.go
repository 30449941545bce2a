/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

// Package pipeline resolves collections of stylesheets and scripts and
// compiles them through ordered filter chains.
//
// An Environment holds named Collections. A Collection gathers Assets by
// name, from required Directories, or from remote URLs. Filters attached
// at asset, directory or collection scope are restricted by group,
// application environment and identity pattern, and are only instantiated
// when an asset is compiled. Filters that cannot be instantiated are
// skipped rather than failing the bundle.
package pipeline
