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
	"log/slog"

	"github.com/HeroesLament/minutemodem-sub001/internal/consensus/wire"
)

// responder answers protocol requests a remote leader sends this
// replica: PreAccept, Accept, Prepare, TryPreAccept, and the unilateral
// Commit broadcast. It is the local-replica half of the protocol,
// distinct from instanceActor, which plays the leader role for
// instances proposed locally.
type responder struct {
	local     string
	index     *InstanceIndex
	cmds      CommandModule
	transport Transport
	storage   Storage
	executor  ExecutorQueue
}

func newResponder(local string, idx *InstanceIndex, cmds CommandModule, t Transport, s Storage, ex ExecutorQueue) *responder {
	return &responder{local: local, index: idx, cmds: cmds, transport: t, storage: s, executor: ex}
}

func (r *responder) handle(msg wire.ProtocolMessage, log *slog.Logger) {
	id := InstanceID{Replica: msg.InstanceReplica, Seq: msg.InstanceSeq}
	switch msg.Type {
	case wire.MsgPreAccept:
		r.onPreAccept(id, msg, log)
	case wire.MsgAccept:
		r.onAccept(id, msg, log)
	case wire.MsgPrepare:
		r.onPrepare(id, msg, log)
	case wire.MsgTryPreAccept:
		r.onTryPreAccept(id, msg, log)
	case wire.MsgCommit:
		r.onCommit(id, msg, log)
	}
}

func (r *responder) onPreAccept(id InstanceID, msg wire.ProtocolMessage, log *slog.Logger) {
	cmd := Command(msg.Command)
	seq, deps := r.index.ComputeSeqDeps(cmd, r.cmds, id)

	inst := Instance{
		ID:      id,
		Command: cmd,
		Seq:     seq,
		Deps:    deps,
		Status:  StatusPreAccepted,
		Ballot:  Ballot{Number: msg.BallotNumber, Replica: msg.BallotReplica},
	}
	r.index.Put(inst)
	if err := r.storage.SaveInstance(inst); err != nil {
		log.Error("consensus: failed to persist pre-accepted instance", "instance", id, "error", err)
	}

	reply := wire.ProtocolMessage{
		Type:            wire.MsgPreAcceptOK,
		InstanceReplica: id.Replica,
		InstanceSeq:     id.Seq,
		BallotNumber:    msg.BallotNumber,
		BallotReplica:   msg.BallotReplica,
		From:            r.local,
		OrderSeq:        seq,
		Deps:            depsToWire(deps),
	}
	if err := r.transport.Send(msg.From, reply); err != nil {
		log.Warn("consensus: failed to send pre_accept_ok", "instance", id, "error", err)
	}
}

func (r *responder) onAccept(id InstanceID, msg wire.ProtocolMessage, log *slog.Logger) {
	inst := Instance{
		ID:      id,
		Command: Command(msg.Command),
		Seq:     msg.OrderSeq,
		Deps:    depsFromWire(msg.Deps),
		Status:  StatusAccepted,
		Ballot:  Ballot{Number: msg.BallotNumber, Replica: msg.BallotReplica},
	}
	r.index.Put(inst)
	if err := r.storage.SaveInstance(inst); err != nil {
		log.Error("consensus: failed to persist accepted instance", "instance", id, "error", err)
	}

	reply := wire.ProtocolMessage{
		Type:            wire.MsgAcceptOK,
		InstanceReplica: id.Replica,
		InstanceSeq:     id.Seq,
		BallotNumber:    msg.BallotNumber,
		BallotReplica:   msg.BallotReplica,
		From:            r.local,
	}
	if err := r.transport.Send(msg.From, reply); err != nil {
		log.Warn("consensus: failed to send accept_ok", "instance", id, "error", err)
	}
}

func (r *responder) onPrepare(id InstanceID, msg wire.ProtocolMessage, log *slog.Logger) {
	reply := wire.ProtocolMessage{
		Type:            wire.MsgPrepareOK,
		InstanceReplica: id.Replica,
		InstanceSeq:     id.Seq,
		BallotNumber:    msg.BallotNumber,
		BallotReplica:   msg.BallotReplica,
		From:            r.local,
	}
	if inst, ok := r.index.Get(id); ok {
		reply.HasInstance = true
		reply.Instance = instanceToSnapshot(inst)
	}
	if err := r.transport.Send(msg.From, reply); err != nil {
		log.Warn("consensus: failed to send prepare_ok", "instance", id, "error", err)
	}
}

func (r *responder) onTryPreAccept(id InstanceID, msg wire.ProtocolMessage, log *slog.Logger) {
	candidateDeps := depsFromWire(msg.Deps)
	conflict := r.findInterferingConflict(id, Command(msg.Command), candidateDeps)

	reply := wire.ProtocolMessage{
		Type:            wire.MsgTryPreAcceptOK,
		InstanceReplica: id.Replica,
		InstanceSeq:     id.Seq,
		BallotNumber:    msg.BallotNumber,
		BallotReplica:   msg.BallotReplica,
		From:            r.local,
	}
	if conflict != nil {
		reply.HasInstance = true
		reply.Instance = instanceToSnapshot(*conflict)
	} else {
		inst := Instance{
			ID:      id,
			Command: Command(msg.Command),
			Seq:     msg.OrderSeq,
			Deps:    candidateDeps,
			Status:  StatusPreAccepted,
			Ballot:  Ballot{Number: msg.BallotNumber, Replica: msg.BallotReplica},
		}
		r.index.Put(inst)
	}
	if err := r.transport.Send(msg.From, reply); err != nil {
		log.Warn("consensus: failed to send try_pre_accept_ok", "instance", id, "error", err)
	}
}

// findInterferingConflict looks for a different, already known instance
// that interferes with cmd but is not present in candidateDeps — such an
// instance would make the proposed (seq, deps) unsafe to adopt.
func (r *responder) findInterferingConflict(exclude InstanceID, cmd Command, candidateDeps DepSet) *Instance {
	for _, inst := range r.index.All() {
		if inst.ID == exclude {
			continue
		}
		if !r.cmds.Interferes(cmd, inst.Command) {
			continue
		}
		if _, ok := candidateDeps[inst.ID]; !ok {
			c := inst
			return &c
		}
	}
	return nil
}

// onCommit adopts the leader's committed (seq, deps) verbatim rather
// than this replica's own locally-computed PreAccept values: a replica
// outside the Accept quorum never learns the leader's merge and would
// otherwise commit with a stale, possibly-divergent (seq, deps).
func (r *responder) onCommit(id InstanceID, msg wire.ProtocolMessage, log *slog.Logger) {
	inst := Instance{
		ID:      id,
		Command: Command(msg.Command),
		Status:  StatusCommitted,
		Ballot:  Ballot{Number: msg.BallotNumber, Replica: msg.BallotReplica},
		Seq:     msg.OrderSeq,
		Deps:    depsFromWire(msg.Deps),
	}
	r.index.Put(inst)
	if err := r.storage.SaveInstance(inst); err != nil {
		log.Error("consensus: failed to persist committed instance", "instance", id, "error", err)
	}
	r.executor.Enqueue(inst)
}
