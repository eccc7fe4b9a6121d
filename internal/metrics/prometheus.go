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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every Prometheus collector the process exposes: WALE
// frame throughput, DTE session lifecycle, and consensus engine
// progress.
type Metrics struct {
	WALEFramesEncodedTotal *prometheus.CounterVec
	WALEFramesDecodedTotal *prometheus.CounterVec
	WALEDetectDuration     prometheus.Histogram

	DTESessionTransitionsTotal *prometheus.CounterVec
	DTEWatchdogTripsTotal      prometheus.Counter
	DTEActiveSessions          prometheus.Gauge

	ConsensusInstancesByStatus  *prometheus.GaugeVec
	ConsensusFastPathTotal      prometheus.Counter
	ConsensusSlowPathTotal      prometheus.Counter
	ConsensusRecoveriesTotal    prometheus.Counter
	ConsensusExecutorQueueDepth prometheus.Gauge
	ConsensusMissingDepsTotal   prometheus.Gauge
}

// NewMetrics builds and registers every collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		WALEFramesEncodedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wale_frames_encoded_total",
			Help: "The total number of WALE frames encoded, by waveform.",
		}, []string{"waveform"}),
		WALEFramesDecodedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wale_frames_decoded_total",
			Help: "The total number of WALE frames successfully decoded, by waveform.",
		}, []string{"waveform"}),
		WALEDetectDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wale_detect_duration_seconds",
			Help:    "Duration of preamble/waveform detection.",
			Buckets: prometheus.DefBuckets,
		}),

		DTESessionTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dte_session_transitions_total",
			Help: "The total number of DTE session state transitions, by resulting state.",
		}, []string{"state"}),
		DTEWatchdogTripsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dte_watchdog_trips_total",
			Help: "The total number of DTE sessions terminated by watchdog timeout.",
		}),
		DTEActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dte_active_sessions",
			Help: "Whether a DTE session is currently connected (0 or 1).",
		}),

		ConsensusInstancesByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "consensus_instances_by_status",
			Help: "The current number of known consensus instances, by status.",
		}, []string{"status"}),
		ConsensusFastPathTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "consensus_fast_path_commits_total",
			Help: "The total number of instances committed via the fast path.",
		}),
		ConsensusSlowPathTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "consensus_slow_path_commits_total",
			Help: "The total number of instances committed via the slow path.",
		}),
		ConsensusRecoveriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "consensus_recoveries_total",
			Help: "The total number of instances that entered the recovering state.",
		}),
		ConsensusExecutorQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "consensus_executor_queue_depth",
			Help: "The current number of committed instances awaiting execution.",
		}),
		ConsensusMissingDepsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "consensus_executor_missing_deps",
			Help: "The current number of dependencies the executor is tracking as missing.",
		}),
	}
	m.register()
	return m
}

func (m *Metrics) register() {
	prometheus.MustRegister(
		m.WALEFramesEncodedTotal,
		m.WALEFramesDecodedTotal,
		m.WALEDetectDuration,
		m.DTESessionTransitionsTotal,
		m.DTEWatchdogTripsTotal,
		m.DTEActiveSessions,
		m.ConsensusInstancesByStatus,
		m.ConsensusFastPathTotal,
		m.ConsensusSlowPathTotal,
		m.ConsensusRecoveriesTotal,
		m.ConsensusExecutorQueueDepth,
		m.ConsensusMissingDepsTotal,
	)
}

// RecordDTETransition counts a session entering state.
func (m *Metrics) RecordDTETransition(state string) {
	m.DTESessionTransitionsTotal.WithLabelValues(state).Inc()
}

// RecordWatchdogTrip counts a watchdog-triggered session termination.
func (m *Metrics) RecordWatchdogTrip() {
	m.DTEWatchdogTripsTotal.Inc()
}

// SetConsensusInstancesByStatus overwrites the gauge for one status.
func (m *Metrics) SetConsensusInstancesByStatus(status string, count float64) {
	m.ConsensusInstancesByStatus.WithLabelValues(status).Set(count)
}

// SetExecutorQueueDepth overwrites the executor queue depth gauge.
func (m *Metrics) SetExecutorQueueDepth(depth float64) {
	m.ConsensusExecutorQueueDepth.Set(depth)
}

// SetMissingDeps overwrites the tracked-missing-dependency gauge.
func (m *Metrics) SetMissingDeps(count float64) {
	m.ConsensusMissingDepsTotal.Set(count)
}
