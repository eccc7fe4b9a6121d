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

package config

import "errors"

var (
	ErrInvalidLogLevel       = errors.New("invalid log level provided")
	ErrInvalidRedisHost      = errors.New("invalid Redis host provided")
	ErrInvalidRedisPort      = errors.New("invalid Redis port provided")
	ErrInvalidDTEBindAddress = errors.New("invalid DTE bind address provided")
	ErrInvalidDTEPort        = errors.New("invalid DTE port provided")
	ErrConsensusReplicaID    = errors.New("consensus replica-id is required")
	ErrInvalidStorePath      = errors.New("store path is required")
	ErrInvalidMetricsBind    = errors.New("invalid metrics server bind address provided")
	ErrInvalidMetricsPort    = errors.New("invalid metrics server port provided")
	ErrInvalidPProfBind      = errors.New("invalid pprof server bind address provided")
	ErrInvalidPProfPort      = errors.New("invalid pprof server port provided")
)

// Validate validates the Redis configuration.
func (r Redis) Validate() error {
	if !r.Enabled {
		return nil
	}
	if r.Host == "" {
		return ErrInvalidRedisHost
	}
	if r.Port <= 0 || r.Port > 65535 {
		return ErrInvalidRedisPort
	}
	return nil
}

// Validate validates the DTE listener configuration.
func (d DTE) Validate() error {
	if d.Bind == "" {
		return ErrInvalidDTEBindAddress
	}
	if d.Port <= 0 || d.Port > 65535 {
		return ErrInvalidDTEPort
	}
	return nil
}

// Validate validates the consensus membership configuration.
func (c Consensus) Validate() error {
	if c.ReplicaID == "" {
		return ErrConsensusReplicaID
	}
	return nil
}

// Validate validates the persisted instance table configuration.
func (s Store) Validate() error {
	if s.Path == "" {
		return ErrInvalidStorePath
	}
	return nil
}

// Validate validates the Metrics configuration.
func (m Metrics) Validate() error {
	if !m.Enabled {
		return nil
	}
	if m.Bind == "" {
		return ErrInvalidMetricsBind
	}
	if m.Port <= 0 || m.Port > 65535 {
		return ErrInvalidMetricsPort
	}
	return nil
}

// Validate validates the PProf configuration.
func (p PProf) Validate() error {
	if !p.Enabled {
		return nil
	}
	if p.Bind == "" {
		return ErrInvalidPProfBind
	}
	if p.Port <= 0 || p.Port > 65535 {
		return ErrInvalidPProfPort
	}
	return nil
}

// Validate validates the full configuration tree.
func (c Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return ErrInvalidLogLevel
	}

	if err := c.DTE.Validate(); err != nil {
		return err
	}
	if err := c.Consensus.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	return nil
}
