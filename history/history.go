// Package history persists how far each title was watched so playback can resume.
package history

import (
	"sync"
	"time"

	"github.com/marquee-cli/marquee/filesystem"
	"github.com/marquee-cli/marquee/source"
	"github.com/marquee-cli/marquee/where"
	"github.com/metafates/gache"
	"github.com/samber/mo"
)

// finished is the watched percentage past which a title starts over instead of resuming.
const finished = 90.0

var (
	cacherOnce sync.Once
	cacher     *gache.Cache[map[string]*Entry]
)

func cache() *gache.Cache[map[string]*Entry] {
	cacherOnce.Do(func() {
		cacher = filesystem.NewCache[map[string]*Entry](where.History(), 0)
	})
	return cacher
}

// Get returns every saved entry keyed by title.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cache().Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Save records the position reached in meta.
// The furthest watched percentage is kept so a rewatch never lowers it.
func Save(meta source.Meta, position, duration float64) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	entry := newEntry(meta)
	entry.Time = position
	entry.Duration = duration
	entry.WatchedPercentage = percentage(position, duration)
	entry.UpdatedAt = time.Now()

	if existing, ok := saved[entry.key()]; ok && existing.WatchedPercentage > entry.WatchedPercentage {
		entry.WatchedPercentage = existing.WatchedPercentage
	}

	saved[entry.key()] = entry
	return cache().Set(saved)
}

// Resume returns where to restart meta. Finished titles and titles never played yield None.
func Resume(meta source.Meta) (mo.Option[float64], error) {
	saved, err := Get()
	if err != nil {
		return mo.None[float64](), err
	}

	entry, ok := saved[newEntry(meta).key()]
	if !ok || entry.Time <= 0 || percentage(entry.Time, entry.Duration) >= finished {
		return mo.None[float64](), nil
	}
	return mo.Some(entry.Time), nil
}

// Remove deletes the entry of meta.
func Remove(meta source.Meta) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, newEntry(meta).key())
	return cache().Set(saved)
}

func percentage(position, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return min(position/duration*100, 100)
}
