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

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/HeroesLament/minutemodem-sub001/internal/consensus/members"
)

const housekeepingInterval = 30 * time.Second

// setupScheduler creates the gocron scheduler driving periodic
// housekeeping: the executor's own missing-dependency scan (500 ms) and
// the membership registry's heartbeat (10 s) run on dedicated tickers
// instead; the scheduler carries the coarser operational check that
// scheduleMembershipReport adds. It creates no job itself.
func setupScheduler() (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return scheduler, nil
}

// scheduleMembershipReport logs the current live replica set every
// housekeepingInterval, giving an operator a coarse liveness signal
// independent of the metrics scrape interval.
func scheduleMembershipReport(scheduler gocron.Scheduler, registry *members.Registry, log *slog.Logger) error {
	_, err := scheduler.NewJob(
		gocron.DurationJob(housekeepingInterval),
		gocron.NewTask(func() {
			live := registry.Live(context.Background())
			log.Info("housekeeping: replica liveness", "live", live, "count", len(live))
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule membership report: %w", err)
	}
	return nil
}
