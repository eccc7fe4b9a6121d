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

package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HeroesLament/minutemodem-sub001/internal/config"
)

func TestDefaultConfigValidates(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidateRejectsBadLogLevel(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.LogLevel = "trace"
	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidLogLevel)
}

func TestConsensusValidateRequiresReplicaID(t *testing.T) {
	t.Parallel()
	c := config.Consensus{}
	require.ErrorIs(t, c.Validate(), config.ErrConsensusReplicaID)
}

func TestDTEValidateRejectsBadPort(t *testing.T) {
	t.Parallel()
	d := config.DTE{Bind: "0.0.0.0", Port: 70000}
	require.ErrorIs(t, d.Validate(), config.ErrInvalidDTEPort)
}

func TestRedisValidateDisabledSkipsChecks(t *testing.T) {
	t.Parallel()
	r := config.Redis{Enabled: false}
	require.NoError(t, r.Validate())
}

func TestRedisValidateRequiresHostWhenEnabled(t *testing.T) {
	t.Parallel()
	r := config.Redis{Enabled: true, Port: 6379}
	require.ErrorIs(t, r.Validate(), config.ErrInvalidRedisHost)
}

func TestMetricsValidateDisabledSkipsChecks(t *testing.T) {
	t.Parallel()
	m := config.Metrics{Enabled: false}
	require.NoError(t, m.Validate())
}
