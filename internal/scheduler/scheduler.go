// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic background jobs: exchange-rate
// warming, GeoIP database reloads and event log pruning.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sellkit/sellkit/internal/fx"
	"github.com/sellkit/sellkit/internal/geoip"
	"github.com/sellkit/sellkit/internal/store"
)

// eventRetention is how long event rows are kept.
const eventRetention = 30 * 24 * time.Hour

// Scheduler owns the cron instance and its jobs.
type Scheduler struct {
	db     *sql.DB
	fx     *fx.Service
	geo    *geoip.Lookup
	cron   *cron.Cron
	logger *slog.Logger

	// warmBases are the currencies whose rate tables are refreshed
	// ahead of visitor traffic.
	warmBases []string
}

// New creates a scheduler. geo may be nil when GeoIP is not configured.
func New(db *sql.DB, fxService *fx.Service, geo *geoip.Lookup, warmBases []string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		db:        db,
		fx:        fxService,
		geo:       geo,
		cron:      cron.New(),
		logger:    logger,
		warmBases: warmBases,
	}
}

// Start registers the jobs and begins the cron loop.
func (s *Scheduler) Start() error {
	// Refresh rate tables hourly, just inside the cache TTL.
	if _, err := s.cron.AddFunc("0 * * * *", s.warmRates); err != nil {
		return err
	}

	// Pick up replaced GeoIP database files daily.
	if _, err := s.cron.AddFunc("30 4 * * *", s.reloadGeoIP); err != nil {
		return err
	}

	// Prune old event rows daily.
	if _, err := s.cron.AddFunc("0 3 * * *", s.pruneEvents); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "category", "system", "jobs", len(s.cron.Entries()))

	// Warm the cache immediately so the first visitor does not pay
	// for the rate fetch.
	go s.warmRates()
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped", "category", "system")
}

func (s *Scheduler) warmRates() {
	if len(s.warmBases) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	s.fx.WarmRates(ctx, s.warmBases)
}

func (s *Scheduler) reloadGeoIP() {
	if s.geo == nil || !s.geo.IsEnabled() {
		return
	}
	if err := s.geo.Reload(); err != nil {
		s.logger.Warn("geoip reload failed", "category", "system", "error", err)
	}
}

func (s *Scheduler) pruneEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := store.New(s.db).PruneEvents(ctx, time.Now().UTC().Add(-eventRetention))
	if err != nil {
		s.logger.Warn("event pruning failed", "category", "system", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("pruned events", "category", "system", "count", n)
	}
}
