//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultExportPath is the default export artifact file.
const DefaultExportPath = "redpiler_graph.bin"

// Params specify compiler parameters.
type Params struct {
	Verbose     bool
	Diagnostics bool

	// Optimize enables the graph optimization passes.
	Optimize bool

	// Export enables writing the flattened graph artifact to
	// ExportOut, or to ExportPath if ExportOut is unset.
	Export     bool
	ExportOut  io.WriteCloser
	ExportPath string

	DotOut io.WriteCloser

	// Disabled lists passes, by name, that are skipped.
	Disabled map[string]bool

	Logger *logrus.Logger
}

// NewParams returns new compiler params object, initialized with the
// default values.
func NewParams() *Params {
	return &Params{
		Optimize:   true,
		ExportPath: DefaultExportPath,
		Disabled:   make(map[string]bool),
		Logger:     NewLogger(os.Stderr, false),
	}
}

// Log returns the params logger, creating a default logger if the
// params has none.
func (p *Params) Log() *logrus.Logger {
	if p.Logger == nil {
		p.Logger = NewLogger(os.Stderr, p.Verbose)
	}
	return p.Logger
}

// PassDisabled tests if the named pass is disabled.
func (p *Params) PassDisabled(name string) bool {
	return p.Disabled[name]
}

// Close closes all open resources.
func (p *Params) Close() {
	if p.ExportOut != nil {
		p.ExportOut.Close()
		p.ExportOut = nil
	}
	if p.DotOut != nil {
		p.DotOut.Close()
		p.DotOut = nil
	}
}
