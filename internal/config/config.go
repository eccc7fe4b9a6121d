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

// Package config holds the application configuration, loaded via
// configulator from environment variables, flags, and an optional config
// file.
package config

// Config stores the application configuration.
type Config struct {
	LogLevel LogLevel `mapstructure:"log-level"`

	DTE       DTE       `mapstructure:"dte"`
	Consensus Consensus `mapstructure:"consensus"`
	Store     Store     `mapstructure:"store"`
	Redis     Redis     `mapstructure:"redis"`
	Metrics   Metrics   `mapstructure:"metrics"`
	PProf     PProf     `mapstructure:"pprof"`
}

// DTE configures the MIL-110D Appendix A socket listener.
type DTE struct {
	Bind string `mapstructure:"bind"`
	Port int    `mapstructure:"port"`
	Rig  string `mapstructure:"rig"`
}

// Consensus configures the eParl engine's membership.
type Consensus struct {
	// ReplicaID uniquely identifies this process among the cluster.
	ReplicaID string `mapstructure:"replica-id"`
	// Peers is the static seed list of other replica endpoints; the
	// membership registry supplements this with heartbeat-discovered
	// peers at runtime.
	Peers []string `mapstructure:"peers"`
}

// Store configures the persisted instance table.
type Store struct {
	Path string `mapstructure:"path"`
}

// Redis configures the optional Redis-backed KV and pub/sub backends.
type Redis struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
}

// Metrics configures the Prometheus metrics HTTP exposer.
type Metrics struct {
	Enabled      bool   `mapstructure:"enabled"`
	Bind         string `mapstructure:"bind"`
	Port         int    `mapstructure:"port"`
	OTLPEndpoint string `mapstructure:"otlp-endpoint"`
}

// PProf configures the stdlib net/http/pprof exposer.
type PProf struct {
	Enabled bool   `mapstructure:"enabled"`
	Bind    string `mapstructure:"bind"`
	Port    int    `mapstructure:"port"`
}

// Default returns a Config populated with the same defaults DMRHub's
// loadConfig applied inline, adapted to this project's ports and names.
func Default() Config {
	return Config{
		LogLevel: LogLevelInfo,
		DTE: DTE{
			Bind: "0.0.0.0",
			Port: 3000,
			Rig:  "rig0",
		},
		Consensus: Consensus{
			ReplicaID: "replica0",
		},
		Store: Store{
			Path: "minutemodem.sqlite3",
		},
		Redis: Redis{
			Host: "localhost",
			Port: 6379,
		},
		Metrics: Metrics{
			Bind: "0.0.0.0",
			Port: 9100,
		},
		PProf: PProf{
			Bind: "127.0.0.1",
			Port: 6060,
		},
	}
}
