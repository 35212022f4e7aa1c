// Package modules contains the self-contained application features.
//
// Each subdirectory is a module implementing `module.Module`. Modules are
// assembled in `internal/app/modules.go` and booted by the server at startup.
package modules
