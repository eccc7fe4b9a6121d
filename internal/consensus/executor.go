// SPDX-License-Identifier: AGPL-3.0-or-later
// minutemodem - HF WALE waveform codec, DTE session, and eParl consensus core
// Copyright (C) 2023-2026 Jacob McSwain
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

package consensus

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

const missingDepGrace = 2 * time.Second

// Executor applies committed instances to the application state in a
// dependency-respecting order, resolving cycles via Tarjan's strongly
// connected components, and tracks dependencies on instances it has not
// yet seen committed so it can trigger recovery for them.
type Executor struct {
	cmds  CommandModule
	index *InstanceIndex
	rec   RecoverySupervisor
	log   *slog.Logger

	mu        sync.Mutex
	committed map[InstanceID]Instance
	executed  map[InstanceID]struct{}
	missing   map[InstanceID]time.Time
	recovering map[InstanceID]struct{}

	notify chan struct{}

	state any
}

// NewExecutor builds an idle Executor; call Run to start its background
// readiness/missing-dependency loop.
func NewExecutor(cmds CommandModule, index *InstanceIndex, rec RecoverySupervisor, log *slog.Logger) *Executor {
	return &Executor{
		cmds:       cmds,
		index:      index,
		rec:        rec,
		log:        log,
		committed:  make(map[InstanceID]Instance),
		executed:   make(map[InstanceID]struct{}),
		missing:    make(map[InstanceID]time.Time),
		recovering: make(map[InstanceID]struct{}),
		notify:     make(chan struct{}, 1),
	}
}

// Enqueue implements ExecutorQueue: it records a newly committed
// instance and wakes the readiness loop.
func (ex *Executor) Enqueue(inst Instance) {
	ex.mu.Lock()
	ex.committed[inst.ID] = inst
	delete(ex.missing, inst.ID)
	delete(ex.recovering, inst.ID)
	ex.mu.Unlock()
	ex.wake()
}

func (ex *Executor) wake() {
	select {
	case ex.notify <- struct{}{}:
	default:
	}
}

// Run drives the readiness scan and the missing-dependency grace-period
// check until ctx is cancelled.
func (ex *Executor) Run(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ex.notify:
			ex.drainReady()
			ex.scanMissing()
		case <-ticker.C:
			ex.scanMissing()
		}
	}
}

// drainReady repeatedly partitions every committed-not-yet-executed
// instance into strongly connected components and executes each
// component whose external dependencies (deps leaving the component)
// are all already executed, looping until no component is ready.
// Readiness is gated at SCC granularity, not per-instance: two
// instances with interfering concurrent proposals can commit with
// deps pointing at each other, and a per-instance "deps ⊆ executed"
// check would deadlock on that cycle forever.
func (ex *Executor) drainReady() {
	for ex.executeReadySCCs() {
	}
}

// executeReadySCCs computes the SCCs of the committed-not-yet-executed
// dependency graph in topological order and executes every component
// whose external dependencies are satisfied, recording any dependency
// this replica has not seen committed as missing. It reports whether
// it executed at least one component.
func (ex *Executor) executeReadySCCs() bool {
	ex.mu.Lock()
	defer ex.mu.Unlock()

	committed := make([]Instance, 0, len(ex.committed))
	for _, inst := range ex.committed {
		committed = append(committed, inst)
	}
	sccs := stronglyConnectedComponents(committed)

	executedAny := false
	for _, scc := range sccs {
		members := make(map[InstanceID]struct{}, len(scc))
		for _, id := range scc {
			members[id] = struct{}{}
		}

		ready := true
		for _, id := range scc {
			for dep := range ex.committed[id].Deps {
				if _, inside := members[dep]; inside {
					continue
				}
				if _, done := ex.executed[dep]; done {
					continue
				}
				ready = false
				if _, pending := ex.committed[dep]; !pending {
					if _, tracked := ex.missing[dep]; !tracked {
						ex.missing[dep] = time.Now()
					}
				}
			}
		}
		if !ready {
			continue
		}

		for _, id := range scc {
			inst := ex.committed[id]
			_, newState := ex.cmds.Execute(inst.Command, ex.state)
			ex.state = newState
			ex.executed[id] = struct{}{}
			delete(ex.committed, id)
			executedAny = true
		}
	}
	return executedAny
}

// scanMissing checks every tracked missing dependency against its grace
// period and triggers recovery for any that has expired and is not
// already being recovered.
func (ex *Executor) scanMissing() {
	ex.mu.Lock()
	var toRecover []InstanceID
	now := time.Now()
	for id, firstSeen := range ex.missing {
		if _, done := ex.executed[id]; done {
			delete(ex.missing, id)
			continue
		}
		if _, already := ex.recovering[id]; already {
			continue
		}
		if now.Sub(firstSeen) >= missingDepGrace {
			ex.recovering[id] = struct{}{}
			toRecover = append(toRecover, id)
		}
	}
	ex.mu.Unlock()

	for _, id := range toRecover {
		ex.log.Warn("consensus: missing dependency past grace period, triggering recovery", "instance", id)
		ex.rec.Recover(id)
	}
}

// stronglyConnectedComponents partitions insts's dependency graph into
// strongly connected components, returned in topological order (a
// component containing only edges into another component comes before
// it); members within a component are ordered by (seq ascending,
// instance_id ascending).
func stronglyConnectedComponents(insts []Instance) [][]InstanceID {
	byID := make(map[InstanceID]Instance, len(insts))
	for _, inst := range insts {
		byID[inst.ID] = inst
	}

	t := &tarjan{
		byID:    byID,
		index:   make(map[InstanceID]int),
		lowlink: make(map[InstanceID]int),
		onStack: make(map[InstanceID]bool),
	}

	ids := make([]InstanceID, 0, len(insts))
	for _, inst := range insts {
		ids = append(ids, inst.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return idLess(ids[i], ids[j]) })

	for _, id := range ids {
		if _, visited := t.index[id]; !visited {
			t.strongConnect(id)
		}
	}

	// strongConnect appends finished SCCs in reverse topological order
	// (dependencies before dependents); reverse and sort each's members.
	out := make([][]InstanceID, 0, len(t.sccs))
	for i := len(t.sccs) - 1; i >= 0; i-- {
		scc := t.sccs[i]
		sort.Slice(scc, func(a, b int) bool {
			ia, ib := byID[scc[a]], byID[scc[b]]
			if ia.Seq != ib.Seq {
				return ia.Seq < ib.Seq
			}
			return idLess(ia.ID, ib.ID)
		})
		out = append(out, scc)
	}
	return out
}

// tarjanOrder flattens insts into a single total order following
// stronglyConnectedComponents' component order, so each component
// precedes the components it depends on; cycles are resolved via
// Tarjan's strongly connected components. It has no readiness gating
// and is not called by the executor's drain loop.
func tarjanOrder(insts []Instance) []Instance {
	byID := make(map[InstanceID]Instance, len(insts))
	for _, inst := range insts {
		byID[inst.ID] = inst
	}
	var out []Instance
	for _, scc := range stronglyConnectedComponents(insts) {
		for _, id := range scc {
			out = append(out, byID[id])
		}
	}
	return out
}

func idLess(a, b InstanceID) bool {
	if a.Replica != b.Replica {
		return a.Replica < b.Replica
	}
	return a.Seq < b.Seq
}

type tarjan struct {
	byID    map[InstanceID]Instance
	index   map[InstanceID]int
	lowlink map[InstanceID]int
	onStack map[InstanceID]bool
	stack   []InstanceID
	counter int
	sccs    [][]InstanceID
}

func (t *tarjan) strongConnect(v InstanceID) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	inst, ok := t.byID[v]
	if ok {
		deps := inst.Deps.Slice()
		sort.Slice(deps, func(i, j int) bool { return idLess(deps[i], deps[j]) })
		for _, w := range deps {
			if _, known := t.byID[w]; !known {
				continue // dependency outside this batch; already executed or tracked as missing
			}
			if _, visited := t.index[w]; !visited {
				t.strongConnect(w)
				if t.lowlink[w] < t.lowlink[v] {
					t.lowlink[v] = t.lowlink[w]
				}
			} else if t.onStack[w] {
				if t.index[w] < t.lowlink[v] {
					t.lowlink[v] = t.index[w]
				}
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []InstanceID
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}
