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

// Package pubsub provides the replica message bus §6 describes: a
// topic-based publish/subscribe abstraction backed by either Redis (for
// clusters that span processes) or an in-process fan-out (for
// single-process and test clusters).
package pubsub

import (
	"context"

	"github.com/HeroesLament/minutemodem-sub001/internal/config"
)

// PubSub is the replica message bus contract consensus.Transport is built
// on: each consensus replica endpoint corresponds to one topic.
type PubSub interface {
	Publish(topic string, message []byte) error
	Subscribe(topic string) Subscription
	Close() error
}

// Subscription delivers messages published to one topic.
type Subscription interface {
	Close() error
	Channel() <-chan []byte
}

// MakePubSub constructs a PubSub backed by Redis when enabled, or an
// in-process fan-out otherwise.
func MakePubSub(ctx context.Context, cfg *config.Config) (PubSub, error) {
	if cfg.Redis.Enabled {
		return makePubSubFromRedis(ctx, cfg)
	}
	return makeInMemoryPubSub(), nil
}
