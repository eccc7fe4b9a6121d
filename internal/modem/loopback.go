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

package modem

import (
	"context"
	"log/slog"
	"sync"

	"github.com/HeroesLament/minutemodem-sub001/internal/dte"
	"github.com/HeroesLament/minutemodem-sub001/internal/wale"
)

const (
	loopbackMaxQueue   = 32
	loopbackFreeBytes  = 4096
	loopbackFifoSpace  = 4096
	loopbackDataRate   = 2400
	loopbackBlockFactor = 1
)

type pendingChunk struct {
	payload []byte
	order   dte.OrderFlag
}

// Loopback is a simulated Control that drives the real WALE codec
// end-to-end (assemble, detect, decode) but loops the resulting PDU back
// to its own RX path instead of radiating it over a channel, standing in
// for the real HF channel DSP that §1 treats as an out-of-scope black
// box.
type Loopback struct {
	log      *slog.Logger
	waveform wale.Waveform

	mu          sync.Mutex
	state       dte.TXState
	queue       []pendingChunk
	subscribers map[int]chan Event
	nextSub     int
}

// NewLoopback returns a Loopback that assembles frames using waveform.
func NewLoopback(log *slog.Logger, waveform wale.Waveform) *Loopback {
	if log == nil {
		log = slog.Default()
	}
	return &Loopback{
		log:         log,
		waveform:    waveform,
		state:       dte.TXFlushed,
		subscribers: make(map[int]chan Event),
	}
}

func (l *Loopback) ArmTX(_ context.Context, _ string) (dte.TXState, error) {
	l.mu.Lock()
	l.state = dte.TXArmed
	l.mu.Unlock()
	l.publish(Event{Kind: EventTXStatus, TXStatus: l.txStatusLocked()})
	return dte.TXArmed, nil
}

func (l *Loopback) StartTX(_ context.Context, _ string) (TXStart, error) {
	l.mu.Lock()
	if l.state != dte.TXArmed && l.state != dte.TXStarted {
		l.mu.Unlock()
		return 0, ErrNotArmed
	}
	l.state = dte.TXStarted
	pending := l.queue
	l.queue = nil
	l.mu.Unlock()

	l.publish(Event{Kind: EventTXStatus, TXStatus: l.txStatusLocked()})

	go l.drain(pending)

	return TXStarted, nil
}

// drain assembles, detects, and decodes each queued chunk through the
// real WALE pipeline, then republishes the recovered payload as an
// rx_data event — the loopback.
func (l *Loopback) drain(pending []pendingChunk) {
	for _, chunk := range pending {
		frame := wale.AssembleFrame(l.waveform, chunk.payload, wale.Options{PreambleCount: 1})
		info, data, err := wale.DetectWaveform(frame)
		if err != nil {
			l.log.Error("loopback: frame detection failed", "error", err)
			continue
		}
		recovered := wale.DecodePDU(info.Waveform, data, len(chunk.payload))
		l.publish(Event{
			Kind: EventRXData,
			RXData: RXDataEvent{
				Payload: recovered,
				Order:   chunk.order,
			},
		})
	}

	l.mu.Lock()
	l.state = dte.TXDrainingOK
	l.mu.Unlock()
	l.publish(Event{Kind: EventTXStatus, TXStatus: l.txStatusLocked()})
}

func (l *Loopback) TxData(_ context.Context, _ string, payload []byte, order dte.OrderFlag) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != dte.TXArmed && l.state != dte.TXStarted {
		return ErrNotArmed
	}
	if len(l.queue) >= loopbackMaxQueue {
		return ErrQueueFull
	}
	payloadCopy := make([]byte, len(payload))
	copy(payloadCopy, payload)
	l.queue = append(l.queue, pendingChunk{payload: payloadCopy, order: order})
	return nil
}

func (l *Loopback) AbortTX(_ context.Context, _ string) error {
	l.mu.Lock()
	l.state = dte.TXFlushed
	l.queue = nil
	l.mu.Unlock()
	return nil
}

func (l *Loopback) AbortRX(_ context.Context, _ string) error {
	return nil
}

func (l *Loopback) TxStatus(_ context.Context, _ string) (TXStatus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.txStatusLocked(), nil
}

func (l *Loopback) txStatusLocked() TXStatus {
	queued := 0
	for _, c := range l.queue {
		queued += len(c.payload)
	}
	return TXStatus{
		State:       l.state,
		QueuedBytes: queued,
		FreeBytes:   loopbackFreeBytes - queued,
		FifoSpace:   loopbackFifoSpace,
	}
}

func (l *Loopback) RxStatus(_ context.Context, _ string) (RXStatus, error) {
	return RXStatus{
		State:          RXIdle,
		DataRate:       loopbackDataRate,
		BlockingFactor: loopbackBlockFactor,
	}, nil
}

func (l *Loopback) Subscribe(_ context.Context, _ string) (<-chan Event, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextSub
	l.nextSub++
	ch := make(chan Event, 64)
	l.subscribers[id] = ch

	unsubscribe := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.subscribers[id]; ok {
			delete(l.subscribers, id)
			close(ch)
		}
	}
	return ch, unsubscribe
}

func (l *Loopback) publish(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.subscribers {
		select {
		case ch <- ev:
		default:
			l.log.Warn("loopback: dropping event, subscriber channel full")
		}
	}
}
