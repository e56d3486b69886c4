// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellkit/sellkit/internal/cache"
	"github.com/sellkit/sellkit/internal/fx"
	"github.com/sellkit/sellkit/internal/store"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	db, err := store.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))

	backend := cache.NewMemory(cache.MemoryOptions{})
	t.Cleanup(func() { _ = backend.Close() })
	fxService := fx.NewService(backend, nil, fx.Options{DefaultCurrency: "USD"})

	return New(db, fxService, nil, nil, nil)
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler(t)

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 3)
	s.Stop()
}

func TestPruneEvents(t *testing.T) {
	s := newTestScheduler(t)
	q := store.New(s.db)
	ctx := context.Background()

	require.NoError(t, q.CreateEvent(ctx, store.CreateEventParams{
		Level:    "warning",
		Category: "system",
		Message:  "old enough to prune",
		Metadata: "{}",
	}))

	// Nothing is old enough yet.
	s.pruneEvents()
	events, err := q.ListRecentEvents(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	// Age the row past the retention window.
	_, err = s.db.ExecContext(ctx, "UPDATE events SET created_at = ?",
		time.Now().UTC().Add(-eventRetention-time.Hour))
	require.NoError(t, err)

	s.pruneEvents()
	events, err = q.ListRecentEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestWarmRatesNoBases(t *testing.T) {
	s := newTestScheduler(t)

	// No provider configured and no bases; must not panic or block.
	s.warmRates()
}
