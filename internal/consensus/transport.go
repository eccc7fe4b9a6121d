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

	"github.com/HeroesLament/minutemodem-sub001/internal/consensus/wire"
	"github.com/HeroesLament/minutemodem-sub001/internal/pubsub"
)

// PubSubTransport implements Transport over the replica message bus:
// one topic per replica id, msgp-encoded ProtocolMessage envelopes.
type PubSubTransport struct {
	bus pubsub.PubSub
	log *slog.Logger
}

// NewPubSubTransport wraps bus as a Transport.
func NewPubSubTransport(bus pubsub.PubSub, log *slog.Logger) *PubSubTransport {
	return &PubSubTransport{bus: bus, log: log}
}

// Send publishes msg to the single topic named by to.
func (t *PubSubTransport) Send(to string, msg wire.ProtocolMessage) error {
	b, err := msg.MarshalMsg(nil)
	if err != nil {
		return err
	}
	return t.bus.Publish(to, b)
}

// Broadcast publishes msg to every topic in to.
func (t *PubSubTransport) Broadcast(to []string, msg wire.ProtocolMessage) error {
	b, err := msg.MarshalMsg(nil)
	if err != nil {
		return err
	}
	var firstErr error
	for _, replica := range to {
		if err := t.bus.Publish(replica, b); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Listen subscribes to the local replica's own topic and dispatches
// every decoded message to engine until ctx is cancelled.
func Listen(ctx context.Context, bus pubsub.PubSub, localReplica string, engine *Engine, log *slog.Logger) {
	sub := bus.Subscribe(localReplica)
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-sub.Channel():
			if !ok {
				return
			}
			var msg wire.ProtocolMessage
			if _, err := msg.UnmarshalMsg(raw); err != nil {
				log.Warn("consensus: failed to decode protocol message", "error", err)
				continue
			}
			engine.Dispatch(msg)
		}
	}
}
