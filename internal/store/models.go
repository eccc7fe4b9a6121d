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

package store

// InstanceRecord is the persisted row for one consensus instance,
// matching the schema {command, ballot, seq, deps, status}: Replica+Seq
// together form the instance id, ballot is split into its number and
// tie-breaking replica, and deps is a flattened "replica.seq,..." list.
type InstanceRecord struct {
	Replica       string `gorm:"primaryKey;column:replica"`
	Seq           uint64 `gorm:"primaryKey;column:seq"`
	Command       []byte `gorm:"column:command"`
	OrderSeq      uint64 `gorm:"column:order_seq"`
	Deps          string `gorm:"column:deps"`
	Status        uint8  `gorm:"column:status"`
	BallotNumber  uint64 `gorm:"column:ballot_number"`
	BallotReplica string `gorm:"column:ballot_replica"`
}

// TableName pins the table name rather than relying on gorm's pluralized
// default, so it stays stable across gorm versions.
func (InstanceRecord) TableName() string {
	return "consensus_instances"
}
