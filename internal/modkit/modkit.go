// Package modkit assembles API modules from shared dependencies and options
package modkit

import "bluebird/internal/modkit/module"

// Module is what api.Mount wires: a named route set with an optional port bundle
type Module = module.Module
