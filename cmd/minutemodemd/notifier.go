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
	"log/slog"

	"github.com/HeroesLament/minutemodem-sub001/internal/consensus"
)

// logNotifier implements consensus.ClientNotifier by logging the
// not_found or recovery-timeout error an instance ended with. A real client
// (e.g. the DTE session proposing a channel reservation) would instead
// route this back to whatever proposed the instance; the engine itself
// is agnostic to who's waiting.
type logNotifier struct {
	log *slog.Logger
}

func newLogNotifier(log *slog.Logger) *logNotifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) Executed(id consensus.InstanceID, result any) {
	if err, ok := result.(error); ok && err != nil {
		n.log.Warn("consensus: instance finished with error", "instance", id.String(), "error", err)
		return
	}
	n.log.Debug("consensus: instance executed", "instance", id.String())
}
