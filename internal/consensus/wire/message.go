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

// Package wire defines the ProtocolMessage envelope exchanged between
// consensus replicas over the replica message bus, msgp-encoded for
// compact, schema-stable transport.
//
//go:generate msgp
package wire

// MessageType discriminates the envelope's payload.
type MessageType uint8

const (
	MsgPreAccept MessageType = iota
	MsgPreAcceptOK
	MsgAccept
	MsgAcceptOK
	MsgCommit
	MsgPrepare
	MsgPrepareOK
	MsgTryPreAccept
	MsgTryPreAcceptOK
)

// DepRef is a wire-format reference to one instance dependency.
type DepRef struct {
	Replica string `msg:"replica"`
	Seq     uint64 `msg:"seq"`
}

// InstanceSnapshot carries a full instance record, used by PrepareOK
// and TryPreAcceptOK payloads.
type InstanceSnapshot struct {
	Replica       string   `msg:"replica"`
	Seq           uint64   `msg:"seq"`
	Command       []byte   `msg:"command"`
	OrderSeq      uint64   `msg:"order_seq"`
	Deps          []DepRef `msg:"deps"`
	Status        uint8    `msg:"status"`
	BallotNumber  uint64   `msg:"ballot_number"`
	BallotReplica string   `msg:"ballot_replica"`
}

// ProtocolMessage is the single envelope type carried over the replica
// bus; which fields are populated depends on Type.
type ProtocolMessage struct {
	Type MessageType `msg:"type"`

	InstanceReplica string `msg:"instance_replica"`
	InstanceSeq     uint64 `msg:"instance_seq"`

	BallotNumber  uint64 `msg:"ballot_number"`
	BallotReplica string `msg:"ballot_replica"`

	From string `msg:"from"`

	// PreAccept / Accept broadcasts.
	Command []byte `msg:"command"`

	// PreAcceptOK response.
	OrderSeq uint64   `msg:"order_seq"`
	Deps     []DepRef `msg:"deps"`

	// PrepareOK / TryPreAcceptOK payload.
	Instance InstanceSnapshot `msg:"instance"`
	HasInstance bool `msg:"has_instance"`
}
