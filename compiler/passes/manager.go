//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package passes

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/markkurossi/redpiler/compiler/graph"
	"github.com/markkurossi/redpiler/compiler/utils"
	"github.com/sirupsen/logrus"
)

// ErrCancelled is returned with the partially optimized graph when
// the compilation is cancelled. The graph is valid but may not be
// fully optimized.
var ErrCancelled = errors.New("compilation cancelled")

// Monitor reports compilation progress and carries the cancellation
// flag. The compiling goroutine updates the progress; other
// goroutines may read it and cancel the compilation.
type Monitor struct {
	progress  atomic.Uint64
	total     atomic.Uint64
	cancelled atomic.Bool
	status    atomic.Value
}

// NewMonitor creates a new progress monitor.
func NewMonitor() *Monitor {
	m := new(Monitor)
	m.status.Store("")
	return m
}

// Cancel requests the compilation to stop before the next pass.
func (m *Monitor) Cancel() {
	m.cancelled.Store(true)
}

// Cancelled tests if the compilation has been cancelled.
func (m *Monitor) Cancelled() bool {
	return m.cancelled.Load()
}

// Progress returns the number of completed passes and the total
// number of passes.
func (m *Monitor) Progress() (done, total int) {
	return int(m.progress.Load()), int(m.total.Load())
}

// Status returns the status message of the current pass.
func (m *Monitor) Status() string {
	return m.status.Load().(string)
}

func (m *Monitor) start(total int) {
	m.progress.Store(0)
	m.total.Store(uint64(total))
}

func (m *Monitor) inc() {
	m.progress.Add(1)
}

// Manager runs a fixed sequence of passes over a compile graph.
type Manager struct {
	passes  []Pass
	monitor *Monitor
	timing  *Timing
}

// NewManager creates a pass manager for the passes. If monitor is
// nil, the manager creates its own monitor.
func NewManager(monitor *Monitor, passes ...Pass) *Manager {
	if monitor == nil {
		monitor = NewMonitor()
	}
	return &Manager{
		passes:  passes,
		monitor: monitor,
	}
}

// Monitor returns the manager's progress monitor.
func (m *Manager) Monitor() *Monitor {
	return m.monitor
}

// Timing returns the timing samples of the last run.
func (m *Manager) Timing() *Timing {
	return m.timing
}

// Run runs the passes in order over a new empty graph. The manager
// checks for cancellation before each pass and returns the current
// graph with ErrCancelled if the compilation was cancelled.
func (m *Manager) Run(params *utils.Params, input *Input) (
	*graph.Graph, error) {

	g := graph.New()
	log := params.Log()

	m.timing = NewTiming()
	m.monitor.start(len(m.passes))

	for _, pass := range m.passes {
		entry := log.WithField("pass", pass.Name())
		if m.monitor.Cancelled() {
			entry.Info("compilation cancelled")
			return g, ErrCancelled
		}
		m.monitor.status.Store(pass.StatusMessage())

		if !pass.ShouldRun(params) || params.PassDisabled(pass.Name()) {
			entry.Debug("skipping pass")
			m.monitor.inc()
			continue
		}

		start := time.Now()
		err := pass.Run(g, params, input)
		sample := m.timing.Sample(pass.Name(), start, g)
		if err != nil {
			return g, fmt.Errorf("%s: %w", pass.Name(), err)
		}
		entry.WithFields(logrus.Fields{
			"nodes":   sample.Nodes,
			"links":   sample.Links,
			"elapsed": sample.End.Sub(sample.Start),
		}).Debug(pass.StatusMessage())

		m.monitor.inc()
	}
	m.monitor.status.Store("Done")

	if params.Diagnostics {
		m.timing.Print(os.Stdout)
	}
	return g, nil
}
