// Package notify fans out post-commit part change events to the search
// index and the read caches.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"repairshop.GO/core/cache"
)

// Notifier is told about parts whose row changed after a commit.
type Notifier interface {
	PartsChanged(ctx context.Context, partIDs ...string)
	PartsDeleted(ctx context.Context, partIDs ...string)
}

// Nop ignores every event.
type Nop struct{}

func (Nop) PartsChanged(context.Context, ...string) {}
func (Nop) PartsDeleted(context.Context, ...string) {}

// Fanout delivers each event to every notifier in order.
type Fanout []Notifier

func (f Fanout) PartsChanged(ctx context.Context, partIDs ...string) {
	for _, n := range f {
		n.PartsChanged(ctx, partIDs...)
	}
}

func (f Fanout) PartsDeleted(ctx context.Context, partIDs ...string) {
	for _, n := range f {
		n.PartsDeleted(ctx, partIDs...)
	}
}

// CacheInvalidator drops inventory and sales cache entries on any change.
type CacheInvalidator struct {
	Store cache.Store
	Log   logrus.FieldLogger
}

func (c CacheInvalidator) PartsChanged(ctx context.Context, _ ...string) {
	c.invalidate(ctx)
}

func (c CacheInvalidator) PartsDeleted(ctx context.Context, _ ...string) {
	c.invalidate(ctx)
}

func (c CacheInvalidator) invalidate(ctx context.Context) {
	if c.Store == nil {
		return
	}
	if err := c.Store.Invalidate(ctx, cache.TagInventory, cache.TagSales); err != nil && c.Log != nil {
		c.Log.WithError(err).Warn("cache invalidation failed")
	}
}

// Recorder keeps events in memory. Tests only.
type Recorder struct {
	Changed []string
	Deleted []string
}

func (r *Recorder) PartsChanged(_ context.Context, ids ...string) { r.Changed = append(r.Changed, ids...) }
func (r *Recorder) PartsDeleted(_ context.Context, ids ...string) { r.Deleted = append(r.Deleted, ids...) }
