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

// Package members provides a KV-backed liveness registry for consensus
// replicas: each replica heartbeats its own key and can query who else
// is currently alive. This supplements the static seed peer list
// (consensus.StaticReplicaSet) with a live view used for operational
// visibility; it deliberately does not
// implement consensus.ReplicaSet itself, since a proposed instance's
// quorum size must stay fixed for that instance's lifetime even as
// membership changes underneath it.
package members

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/HeroesLament/minutemodem-sub001/internal/kv"
)

const (
	keyPrefix = "minutemodem:replica:"
	// ttl is the KV TTL for a replica's liveness key; must exceed
	// heartbeat so the key survives between refreshes.
	ttl = 30 * time.Second
	// heartbeat is how often a replica refreshes its own liveness key.
	heartbeat = 10 * time.Second
)

// Registry tracks live replicas in the shared KV store.
type Registry struct {
	store      kv.KV
	replicaID  string
	log        *slog.Logger
	cancel     context.CancelFunc
}

// New registers replicaID in the KV store and starts a background
// heartbeat that refreshes its liveness key.
func New(ctx context.Context, store kv.KV, replicaID string, log *slog.Logger) *Registry {
	r := &Registry{store: store, replicaID: replicaID, log: log}

	key := keyPrefix + replicaID
	if err := r.store.Set(ctx, key, []byte(replicaID)); err != nil {
		log.Error("members: failed to register replica", "replica", replicaID, "error", err)
	}
	if err := r.store.Expire(ctx, key, ttl); err != nil {
		log.Error("members: failed to set replica TTL", "replica", replicaID, "error", err)
	}

	hbCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	go r.loop(hbCtx)

	log.Info("members: registered replica", "replica", replicaID)
	return r
}

func (r *Registry) loop(ctx context.Context) {
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			key := keyPrefix + r.replicaID
			if err := r.store.Set(ctx, key, []byte(r.replicaID)); err != nil {
				r.log.Warn("members: heartbeat set failed", "error", err)
				continue
			}
			if err := r.store.Expire(ctx, key, ttl); err != nil {
				r.log.Warn("members: heartbeat expire failed", "error", err)
			}
		}
	}
}

// Live returns the ids of every replica with a currently unexpired
// liveness key, including this replica.
func (r *Registry) Live(ctx context.Context) []string {
	keys, _, err := r.store.Scan(ctx, 0, keyPrefix+"*", 0)
	if err != nil {
		r.log.Warn("members: scan failed", "error", err)
		return nil
	}
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, strings.TrimPrefix(key, keyPrefix))
	}
	sort.Strings(out)
	return out
}

// OtherReplicasLive reports whether any replica other than this one
// currently holds a live registration.
func (r *Registry) OtherReplicasLive(ctx context.Context) bool {
	for _, id := range r.Live(ctx) {
		if id != r.replicaID {
			return true
		}
	}
	return false
}

// Deregister removes this replica's liveness key and stops the
// heartbeat loop.
func (r *Registry) Deregister(ctx context.Context) {
	if r.cancel != nil {
		r.cancel()
	}
	key := keyPrefix + r.replicaID
	if err := r.store.Delete(ctx, key); err != nil {
		r.log.Warn("members: deregister failed", "replica", r.replicaID, "error", err)
		return
	}
	r.log.Info("members: deregistered replica", "replica", r.replicaID)
}
