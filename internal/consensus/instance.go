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
	"time"

	"github.com/HeroesLament/minutemodem-sub001/internal/consensus/wire"
)

const (
	preAcceptTimeout = 2 * time.Second
	acceptTimeout    = 2 * time.Second
	recoverTimeout   = 5 * time.Second
	tryPreAcceptTimeout = 3 * time.Second
)

// phase is the leader-side FSM's live state. It is a superset of the
// persisted Status: Recovering and TryPreAccepting are transient and
// never written to storage as a status (entering Recovering persists the
// instance with its raised ballot under its existing status; leaving
// either phase persists it as accepted or pre-accepted).
type phase int

const (
	phasePreAccepted phase = iota
	phaseAccepted
	phaseCommitted
	phaseRecovering
	phaseTryPreAccepting
)

func (p phase) String() string {
	switch p {
	case phasePreAccepted:
		return "pre_accepted"
	case phaseAccepted:
		return "accepted"
	case phaseCommitted:
		return "committed"
	case phaseRecovering:
		return "recovering"
	case phaseTryPreAccepting:
		return "try_pre_accepting"
	default:
		return "unknown"
	}
}

// Transport sends and broadcasts protocol messages over the replica bus.
type Transport interface {
	Send(to string, msg wire.ProtocolMessage) error
	Broadcast(to []string, msg wire.ProtocolMessage) error
}

// Storage persists instance records across leader FSM transitions.
type Storage interface {
	SaveInstance(inst Instance) error
}

// ExecutorQueue is handed every instance as soon as it commits.
type ExecutorQueue interface {
	Enqueue(inst Instance)
}

// ClientNotifier is told when a leader-side recovery ends an instance
// without committing it (result is a not_found or recovery_timeout
// error). The executor does not call it: the result of executing a
// committed command is not reported.
type ClientNotifier interface {
	Executed(id InstanceID, result any)
}

// instanceActor drives one instance's leader-side FSM: the goroutine
// that owns the instance from proposal through commit (or a terminal
// failure), reacting to protocol responses and state timeouts.
type instanceActor struct {
	inst     Instance
	replicas ReplicaSet
	quorumN  int // replicas.Size() snapshotted at creation, per the membership invariant
	cmds     CommandModule
	transport Transport
	storage   Storage
	executor  ExecutorQueue
	notifier  ClientNotifier
	index     *InstanceIndex
	recovery  RecoverySupervisor
	log       *slog.Logger

	inbox chan wire.ProtocolMessage

	phase phase

	preAcceptAcks  map[string]preAcceptAck
	acceptAcks     map[string]bool
	prepareAcks    map[string]prepareAck
	tryAcks        map[string]tryPreAcceptAck
	leaderAnswered bool
}

type preAcceptAck struct {
	seq  uint64
	deps DepSet
}

type prepareAck struct {
	found         bool
	inst          Instance
	fromOrigLeader bool
}

type tryPreAcceptAck struct {
	ok bool
}

// RecoverySupervisor starts recovery for an instance id, used both by
// the executor's missing-dependency tracker and by a replica that
// notices a peer has stalled.
type RecoverySupervisor interface {
	Recover(id InstanceID)
}

func newInstanceActor(inst Instance, replicas ReplicaSet, cmds CommandModule, t Transport, s Storage, ex ExecutorQueue, n ClientNotifier, idx *InstanceIndex, rec RecoverySupervisor, log *slog.Logger) *instanceActor {
	return &instanceActor{
		inst:      inst,
		replicas:  replicas,
		quorumN:   replicas.Size(),
		cmds:      cmds,
		transport: t,
		storage:   s,
		executor:  ex,
		notifier:  n,
		index:     idx,
		recovery:  rec,
		log:       log,
		inbox:     make(chan wire.ProtocolMessage, 16),
	}
}

// deliver hands an incoming protocol message to the actor; non-blocking,
// drops the message if the actor's inbox is saturated (the sender's own
// timeout will drive a retry via recovery).
func (a *instanceActor) deliver(msg wire.ProtocolMessage) {
	select {
	case a.inbox <- msg:
	default:
		a.log.Warn("consensus: instance inbox full, dropping message", "instance", a.inst.ID, "type", msg.Type)
	}
}

// newArmedTimer returns a fired, drained timer ready for an immediate
// resetTimer call, used so every entry action can use the same
// stop-drain-reset sequence regardless of whether a timer already exists.
func newArmedTimer(d time.Duration) *time.Timer {
	t := time.NewTimer(d)
	if d == 0 {
		<-t.C
	}
	return t
}

// run drives the FSM until the instance commits or a terminal error
// occurs; intended to be started in its own goroutine per instance.
func (a *instanceActor) run(ctx context.Context) {
	timer := newArmedTimer(0)
	a.enterPreAccepted(timer)

	for a.phase != phaseCommitted {
		select {
		case <-ctx.Done():
			return
		case msg := <-a.inbox:
			a.handleMessage(msg, timer)
		case <-timer.C:
			a.handleTimeout(timer)
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

func (a *instanceActor) broadcastPeers(msg wire.ProtocolMessage) {
	if err := a.transport.Broadcast(a.replicas.Remote(), msg); err != nil {
		a.log.Warn("consensus: broadcast failed", "instance", a.inst.ID, "type", msg.Type, "error", err)
	}
}

func (a *instanceActor) baseMessage(t wire.MessageType) wire.ProtocolMessage {
	return wire.ProtocolMessage{
		Type:            t,
		InstanceReplica: a.inst.ID.Replica,
		InstanceSeq:     a.inst.ID.Seq,
		BallotNumber:    a.inst.Ballot.Number,
		BallotReplica:   a.inst.Ballot.Replica,
		From:            a.replicas.Local(),
		Command:         a.inst.Command,
	}
}

// --- PreAccepted ---

func (a *instanceActor) enterPreAccepted(timer *time.Timer) {
	a.phase = phasePreAccepted
	a.preAcceptAcks = map[string]preAcceptAck{a.replicas.Local(): {seq: a.inst.Seq, deps: a.inst.Deps}}
	a.broadcastPeers(a.baseMessage(wire.MsgPreAccept))
	resetTimer(timer, preAcceptTimeout)
}

func (a *instanceActor) onPreAcceptOK(msg wire.ProtocolMessage, timer *time.Timer) {
	deps := depsFromWire(msg.Deps)
	a.preAcceptAcks[msg.From] = preAcceptAck{seq: msg.OrderSeq, deps: deps}

	fast := FastQuorum(a.quorumN)
	slow := SlowQuorum(a.quorumN)
	if len(a.preAcceptAcks) >= fast && allAgree(a.preAcceptAcks) {
		a.commit(timer)
		return
	}
	if len(a.preAcceptAcks) >= slow {
		a.mergeAndAccept(timer)
	}
}

func allAgree(acks map[string]preAcceptAck) bool {
	var first preAcceptAck
	i := 0
	for _, ack := range acks {
		if i == 0 {
			first = ack
		} else if ack.seq != first.seq || !ack.deps.Equal(first.deps) {
			return false
		}
		i++
	}
	return true
}

func (a *instanceActor) mergeAndAccept(timer *time.Timer) {
	merged := make(DepSet)
	var maxSeq uint64
	for _, ack := range a.preAcceptAcks {
		merged = merged.Union(ack.deps)
		if ack.seq > maxSeq {
			maxSeq = ack.seq
		}
	}
	a.inst.Seq = maxSeq
	a.inst.Deps = merged
	a.inst.Status = StatusAccepted
	a.persist()
	a.enterAccepted(timer)
}

func (a *instanceActor) preAcceptTimeoutFired(timer *time.Timer) {
	if len(a.preAcceptAcks) >= SlowQuorum(a.quorumN) {
		a.mergeAndAccept(timer)
		return
	}
	a.enterRecovering(timer)
}

// --- Accepted ---

func (a *instanceActor) enterAccepted(timer *time.Timer) {
	a.phase = phaseAccepted
	a.acceptAcks = map[string]bool{a.replicas.Local(): true}
	msg := a.baseMessage(wire.MsgAccept)
	msg.OrderSeq = a.inst.Seq
	msg.Deps = depsToWire(a.inst.Deps)
	a.broadcastPeers(msg)
	resetTimer(timer, acceptTimeout)
}

func (a *instanceActor) onAcceptOK(msg wire.ProtocolMessage, timer *time.Timer) {
	a.acceptAcks[msg.From] = true
	if len(a.acceptAcks) >= SlowQuorum(a.quorumN) {
		a.commit(timer)
	}
}

func (a *instanceActor) acceptTimeoutFired(timer *time.Timer) {
	a.enterRecovering(timer)
}

// --- Committed ---

func (a *instanceActor) commit(timer *time.Timer) {
	a.inst.Status = StatusCommitted
	a.persist()
	a.phase = phaseCommitted
	msg := a.baseMessage(wire.MsgCommit)
	msg.OrderSeq = a.inst.Seq
	msg.Deps = depsToWire(a.inst.Deps)
	a.broadcastPeers(msg)
	a.executor.Enqueue(a.inst)
}

// --- Recovering ---

func (a *instanceActor) enterRecovering(timer *time.Timer) {
	a.phase = phaseRecovering
	a.inst.Ballot = HigherThan(a.inst.Ballot, a.replicas.Local())
	a.persist()
	a.prepareAcks = make(map[string]prepareAck)
	a.leaderAnswered = false
	a.broadcastPeers(a.baseMessage(wire.MsgPrepare))
	resetTimer(timer, recoverTimeout)
}

func (a *instanceActor) onPrepareOK(msg wire.ProtocolMessage, timer *time.Timer) {
	ack := prepareAck{found: msg.HasInstance}
	if msg.HasInstance {
		ack.inst = instanceFromSnapshot(msg.Instance)
	}
	ack.fromOrigLeader = msg.From == a.inst.ID.Replica
	if ack.fromOrigLeader {
		a.leaderAnswered = true
	}
	a.prepareAcks[msg.From] = ack

	if len(a.prepareAcks)+1 < SlowQuorum(a.quorumN) {
		return
	}
	outcome := analyseRecovery(a.inst, a.prepareAcks, a.leaderAnswered)
	switch outcome.kind {
	case recoveryCommit:
		a.inst = outcome.inst
		a.commit(timer)
	case recoveryAccept:
		a.inst = outcome.inst
		a.inst.Status = StatusAccepted
		a.persist()
		a.enterAccepted(timer)
	case recoveryTryPreAccept:
		a.inst = outcome.inst
		a.enterTryPreAccepting(timer)
	case recoveryRestartPhase1:
		a.inst = outcome.inst
		a.inst.Status = StatusPreAccepted
		a.persist()
		a.enterPreAccepted(timer)
	case recoveryNotFound:
		a.phase = phaseCommitted // terminal: not_found ends the FSM without committing
		a.log.Warn("consensus: recovery found no trace of instance", "instance", a.inst.ID)
		a.notifier.Executed(a.inst.ID, notFoundError{id: a.inst.ID})
	}
}

func (a *instanceActor) recoverTimeoutFired(timer *time.Timer) {
	a.phase = phaseCommitted // terminal: recovery_timeout ends the FSM without committing
	a.log.Warn("consensus: recovery timed out", "instance", a.inst.ID)
	a.notifier.Executed(a.inst.ID, recoveryTimeoutError{id: a.inst.ID})
}

type recoveryTimeoutError struct{ id InstanceID }

func (e recoveryTimeoutError) Error() string { return "recovery_timeout: " + e.id.String() }

type notFoundError struct{ id InstanceID }

func (e notFoundError) Error() string { return "not_found: " + e.id.String() }

// --- TryPreAccepting ---

func (a *instanceActor) enterTryPreAccepting(timer *time.Timer) {
	a.phase = phaseTryPreAccepting
	a.tryAcks = make(map[string]tryPreAcceptAck)
	msg := a.baseMessage(wire.MsgTryPreAccept)
	msg.OrderSeq = a.inst.Seq
	msg.Deps = depsToWire(a.inst.Deps)
	a.broadcastPeers(msg)
	resetTimer(timer, tryPreAcceptTimeout)
}

func (a *instanceActor) onTryPreAcceptOK(msg wire.ProtocolMessage, timer *time.Timer) {
	a.tryAcks[msg.From] = tryPreAcceptAck{ok: msg.HasInstance == false}
	agree := 0
	for _, ack := range a.tryAcks {
		if ack.ok {
			agree++
		}
	}
	if agree+1 >= SlowQuorum(a.quorumN) {
		a.inst.Status = StatusAccepted
		a.persist()
		a.enterAccepted(timer)
		return
	}
	if len(a.tryAcks) >= SlowQuorum(a.quorumN) {
		a.inst.Status = StatusPreAccepted
		a.persist()
		a.enterPreAccepted(timer)
	}
}

func (a *instanceActor) tryPreAcceptTimeoutFired(timer *time.Timer) {
	a.inst.Status = StatusPreAccepted
	a.persist()
	a.enterPreAccepted(timer)
}

// --- dispatch ---

func (a *instanceActor) handleMessage(msg wire.ProtocolMessage, timer *time.Timer) {
	switch {
	case a.phase == phasePreAccepted && msg.Type == wire.MsgPreAcceptOK:
		a.onPreAcceptOK(msg, timer)
	case a.phase == phaseAccepted && msg.Type == wire.MsgAcceptOK:
		a.onAcceptOK(msg, timer)
	case a.phase == phaseRecovering && msg.Type == wire.MsgPrepareOK:
		a.onPrepareOK(msg, timer)
	case a.phase == phaseTryPreAccepting && msg.Type == wire.MsgTryPreAcceptOK:
		a.onTryPreAcceptOK(msg, timer)
	default:
		a.log.Debug("consensus: stale or unexpected response ignored", "instance", a.inst.ID, "phase", a.phase, "type", msg.Type)
	}
}

func (a *instanceActor) handleTimeout(timer *time.Timer) {
	switch a.phase {
	case phasePreAccepted:
		a.preAcceptTimeoutFired(timer)
	case phaseAccepted:
		a.acceptTimeoutFired(timer)
	case phaseRecovering:
		a.recoverTimeoutFired(timer)
	case phaseTryPreAccepting:
		a.tryPreAcceptTimeoutFired(timer)
	}
}

func (a *instanceActor) persist() {
	a.index.Put(a.inst)
	if err := a.storage.SaveInstance(a.inst); err != nil {
		a.log.Error("consensus: failed to persist instance", "instance", a.inst.ID, "error", err)
	}
}

func depsToWire(d DepSet) []wire.DepRef {
	out := make([]wire.DepRef, 0, len(d))
	for id := range d {
		out = append(out, wire.DepRef{Replica: id.Replica, Seq: id.Seq})
	}
	return out
}

func depsFromWire(refs []wire.DepRef) DepSet {
	out := make(DepSet, len(refs))
	for _, r := range refs {
		out[InstanceID{Replica: r.Replica, Seq: r.Seq}] = struct{}{}
	}
	return out
}

func instanceFromSnapshot(s wire.InstanceSnapshot) Instance {
	return Instance{
		ID:      InstanceID{Replica: s.Replica, Seq: s.Seq},
		Command: Command(s.Command),
		Seq:     s.OrderSeq,
		Deps:    depsFromWire(s.Deps),
		Status:  Status(s.Status),
		Ballot:  Ballot{Number: s.BallotNumber, Replica: s.BallotReplica},
	}
}

func instanceToSnapshot(inst Instance) wire.InstanceSnapshot {
	return wire.InstanceSnapshot{
		Replica:       inst.ID.Replica,
		Seq:           inst.ID.Seq,
		Command:       inst.Command,
		OrderSeq:      inst.Seq,
		Deps:          depsToWire(inst.Deps),
		Status:        uint8(inst.Status),
		BallotNumber:  inst.Ballot.Number,
		BallotReplica: inst.Ballot.Replica,
	}
}
