// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-data-vault/internal/logger"
)

// SessionRegistry is the subset of the session authority the sweeper needs.
type SessionRegistry interface {
	SweepExpired(ctx context.Context) int
}

// SessionSweeper periodically drops expired sessions from the session
// registry so abandoned tokens do not accumulate for the whole process
// lifetime. Expiry is still enforced at validation time; the sweeper only
// reclaims memory.
type SessionSweeper struct {
	sessions SessionRegistry
	interval time.Duration
	logger   *logger.Logger
}

// NewSessionSweeper constructs a sweeper ticking at the given interval.
func NewSessionSweeper(sessions SessionRegistry, interval time.Duration, log *logger.Logger) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		interval: interval,
		logger:   log,
	}
}

// Run implements Worker.
func (w *SessionSweeper) Run(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := w.sessions.SweepExpired(ctx); removed > 0 {
					w.logger.Debug().Int("removed", removed).Msg("swept expired sessions")
				}
			}
		}
	}()
}
