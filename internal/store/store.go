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

// Package store persists consensus instances to SQLite via gorm, giving
// a replica a durable record of every instance it has seen across
// restarts.
package store

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HeroesLament/minutemodem-sub001/internal/config"
	"github.com/HeroesLament/minutemodem-sub001/internal/consensus"
)

const (
	connsPerCPU = 10
	maxIdleTime = 10 * time.Minute
)

// Open opens (creating if necessary) the SQLite-backed instance table at
// cfg.Store.Path, runs its migrations, and tunes the connection pool.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Store.Path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if cfg.Metrics.OTLPEndpoint != "" {
		if err := db.Use(otelgorm.NewPlugin()); err != nil {
			return nil, fmt.Errorf("failed to instrument store: %w", err)
		}
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(runtime.GOMAXPROCS(0))
	sqlDB.SetMaxOpenConns(runtime.GOMAXPROCS(0) * connsPerCPU)
	sqlDB.SetConnMaxIdleTime(maxIdleTime)

	return db, nil
}

// Store adapts a gorm.DB to consensus.Storage and offers a warm-start
// load of every previously persisted instance.
type Store struct {
	db *gorm.DB
}

// New wraps db as a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ consensus.Storage = (*Store)(nil)

// SaveInstance upserts inst, keyed by (replica, seq).
func (s *Store) SaveInstance(inst consensus.Instance) error {
	rec := InstanceRecord{
		Replica:       inst.ID.Replica,
		Seq:           inst.ID.Seq,
		Command:       inst.Command,
		OrderSeq:      inst.Seq,
		Deps:          encodeDeps(inst.Deps),
		Status:        uint8(inst.Status),
		BallotNumber:  inst.Ballot.Number,
		BallotReplica: inst.Ballot.Replica,
	}
	result := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec)
	if result.Error != nil {
		return fmt.Errorf("failed to save instance %s.%d: %w", inst.ID.Replica, inst.ID.Seq, result.Error)
	}
	return nil
}

// LoadAll returns every persisted instance, for warm-starting a
// replica's InstanceIndex after a restart.
func (s *Store) LoadAll() ([]consensus.Instance, error) {
	var recs []InstanceRecord
	if err := s.db.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to load instances: %w", err)
	}
	out := make([]consensus.Instance, 0, len(recs))
	for _, rec := range recs {
		out = append(out, consensus.Instance{
			ID:      consensus.InstanceID{Replica: rec.Replica, Seq: rec.Seq},
			Command: consensus.Command(rec.Command),
			Seq:     rec.OrderSeq,
			Deps:    decodeDeps(rec.Deps),
			Status:  consensus.Status(rec.Status),
			Ballot:  consensus.Ballot{Number: rec.BallotNumber, Replica: rec.BallotReplica},
		})
	}
	return out, nil
}

func encodeDeps(deps consensus.DepSet) string {
	ids := deps.Slice()
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ",")
}

func decodeDeps(s string) consensus.DepSet {
	out := make(consensus.DepSet)
	if s == "" {
		return out
	}
	for _, part := range strings.Split(s, ",") {
		idx := strings.LastIndex(part, ".")
		if idx < 0 {
			continue
		}
		seq, err := strconv.ParseUint(part[idx+1:], 10, 64)
		if err != nil {
			continue
		}
		out[consensus.InstanceID{Replica: part[:idx], Seq: seq}] = struct{}{}
	}
	return out
}
