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

// Package kvstate is the default consensus.CommandModule: a replicated
// key-value map proposed and applied through the eParl engine. It is the
// "replicated KV state used by the broader fabric" that any caller, not
// just a DTE session, can propose writes against.
package kvstate

import (
	"github.com/HeroesLament/minutemodem-sub001/internal/consensus"
)

// Op discriminates a Command's operation.
type Op uint8

const (
	OpSet Op = iota
	OpDelete
)

// Command is the wire/persisted form of a single KV write, encoded via
// the same hand-authored msgp shape as internal/consensus/wire so it can
// cross the replica bus and the instance table unchanged.
type Command struct {
	Op    Op     `msg:"op"`
	Key   string `msg:"key"`
	Value []byte `msg:"value"`
}

// Encode serializes cmd into a consensus.Command ready for Engine.Propose.
func Encode(cmd Command) (consensus.Command, error) {
	b, err := cmd.MarshalMsg(nil)
	if err != nil {
		return nil, err
	}
	return consensus.Command(b), nil
}

// Decode parses raw back into a Command.
func Decode(raw consensus.Command) (Command, error) {
	var cmd Command
	_, err := cmd.UnmarshalMsg([]byte(raw))
	return cmd, err
}
