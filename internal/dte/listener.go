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

package dte

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync/atomic"

	"github.com/HeroesLament/minutemodem-sub001/internal/modem"
)

// DefaultPort is the TCP port a DTE listener binds by default.
const DefaultPort = 3000

// Listener accepts exactly one DTE session at a time: while a session is
// active, subsequent connections are accepted and immediately closed,
// and normal accepting resumes once the active session ends.
type Listener struct {
	ln      net.Listener
	modem   modem.Control
	opts    SessionOptions
	log     *slog.Logger
}

// NewListener binds addr (e.g. ":3000") and returns a ready Listener.
func NewListener(addr string, ctl modem.Control, opts SessionOptions) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	opts = opts.normalized()
	return &Listener{
		ln:    ln,
		modem: ctl,
		opts:  opts,
		log:   opts.Logger.With("component", "dte.listener"),
	}, nil
}

// Addr returns the listener's bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Close stops accepting new connections.
func (l *Listener) Close() error { return l.ln.Close() }

// Serve accepts connections until ctx is canceled or the listener is
// closed, running at most one DTE session at a time.
func (l *Listener) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		l.ln.Close()
	}()

	var active atomic.Bool
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return ctx.Err()
			}
			l.log.Error("dte: accept failed", "error", err)
			continue
		}

		if !active.CompareAndSwap(false, true) {
			l.log.Warn("dte: rejecting connection, session already active", "remote", conn.RemoteAddr())
			conn.Close()
			continue
		}

		sess := NewSession(conn, l.modem, l.opts)
		go func() {
			defer active.Store(false)
			if err := sess.Run(ctx); err != nil {
				l.log.Info("dte: session ended", "error", err)
			}
		}()
	}
}
