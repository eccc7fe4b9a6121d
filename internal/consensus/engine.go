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
	"sync"
	"sync/atomic"

	"github.com/HeroesLament/minutemodem-sub001/internal/consensus/wire"
)

// Engine is one replica's consensus runtime: it owns the leader-side
// actor for every instance this replica has proposed, the responder
// that answers requests from remote leaders, and the dependency
// executor that applies committed commands to the application state.
type Engine struct {
	replicas  ReplicaSet
	cmds      CommandModule
	transport Transport
	storage   Storage
	notifier  ClientNotifier
	log       *slog.Logger

	index    *InstanceIndex
	executor *Executor

	mu      sync.Mutex
	actors  map[InstanceID]*instanceActor
	resp    *responder
	nextSeq atomic.Uint64

	ctx context.Context
}

// NewEngine builds an idle Engine; call Start to start the executor and
// begin accepting proposals and incoming protocol traffic.
func NewEngine(replicas ReplicaSet, cmds CommandModule, transport Transport, storage Storage, notifier ClientNotifier, log *slog.Logger) *Engine {
	index := NewInstanceIndex()
	e := &Engine{
		replicas:  replicas,
		cmds:      cmds,
		transport: transport,
		storage:   storage,
		notifier:  notifier,
		log:       log,
		index:     index,
		actors:    make(map[InstanceID]*instanceActor),
	}
	e.executor = NewExecutor(cmds, index, e, log)
	e.resp = newResponder(replicas.Local(), index, cmds, transport, storage, e.executor)
	return e
}

// Recover implements RecoverySupervisor: it starts a leader-side
// recovery FSM for an instance id this replica only knows about as a
// dependency, never having seen it proposed locally.
func (e *Engine) Recover(id InstanceID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.actors[id]; ok {
		return
	}
	inst := Instance{ID: id, Ballot: Ballot{Replica: e.replicas.Local()}}
	if known, ok := e.index.Get(id); ok {
		inst = known
	}
	a := newInstanceActor(inst, e.replicas, e.cmds, e.transport, e.storage, e.executor, e.notifier, e.index, e, e.log)
	e.actors[id] = a
	a.phase = phaseRecovering
	go func() {
		timer := newArmedTimer(0)
		a.enterRecovering(timer)
		for a.phase != phaseCommitted {
			select {
			case <-e.ctx.Done():
				return
			case msg := <-a.inbox:
				a.handleMessage(msg, timer)
			case <-timer.C:
				a.handleTimeout(timer)
			}
		}
	}()
}

// Start records ctx and launches the executor's background readiness
// loop in its own goroutine; it returns immediately, so the context is
// visible to Propose/Recover/Dispatch before any instance work begins.
func (e *Engine) Start(ctx context.Context) {
	e.ctx = ctx
	go e.executor.Run(ctx)
}

// LoadInstances warm-starts the engine from a replica's persisted
// instance table: every instance is added to the index, and committed
// instances already known at restart are re-enqueued so the executor can
// resume applying them in dependency order. Call before Start.
func (e *Engine) LoadInstances(insts []Instance) {
	for _, inst := range insts {
		e.index.Put(inst)
		if inst.Status == StatusCommitted {
			e.executor.Enqueue(inst)
		}
		if inst.ID.Replica == e.replicas.Local() && inst.ID.Seq > e.nextSeq.Load() {
			e.nextSeq.Store(inst.ID.Seq)
		}
	}
}

// Propose starts a new instance for cmd, proposed by this replica, and
// returns its id immediately. A recovery that ends in not_found or
// recovery_timeout is reported asynchronously via the ClientNotifier;
// the result of executing a committed command is not reported.
func (e *Engine) Propose(cmd Command) InstanceID {
	seq := e.nextSeq.Add(1)
	id := InstanceID{Replica: e.replicas.Local(), Seq: seq}

	ownSeq, deps := e.index.ComputeSeqDeps(cmd, e.cmds, id)
	inst := Instance{
		ID:      id,
		Command: cmd,
		Seq:     ownSeq,
		Deps:    deps,
		Status:  StatusPreAccepted,
	}
	e.index.Put(inst)

	a := newInstanceActor(inst, e.replicas, e.cmds, e.transport, e.storage, e.executor, e.notifier, e.index, e, e.log)

	e.mu.Lock()
	e.actors[id] = a
	e.mu.Unlock()

	go a.run(e.ctx)
	return id
}

// Dispatch routes one incoming protocol message: a response addressed
// to an instance this replica leads goes to that actor's inbox; a
// request from a remote leader goes to the responder.
func (e *Engine) Dispatch(msg wire.ProtocolMessage) {
	switch msg.Type {
	case wire.MsgPreAcceptOK, wire.MsgAcceptOK, wire.MsgPrepareOK, wire.MsgTryPreAcceptOK:
		id := InstanceID{Replica: msg.InstanceReplica, Seq: msg.InstanceSeq}
		e.mu.Lock()
		a, ok := e.actors[id]
		e.mu.Unlock()
		if ok {
			a.deliver(msg)
		}
	default:
		e.resp.handle(msg, e.log)
	}
}
