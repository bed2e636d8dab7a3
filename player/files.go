package player

import (
	"encoding/json"
	"sync"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// FileLoad is the load request a playlist entry was started for.
type FileLoad struct {
	Epoch    uint64
	Adaptive bool
}

// fileTracker binds the files mpv starts to the loads that asked for them, so
// events about a replaced file keep the epoch of the load that started it.
//
// Loads are queued before the command reaches mpv. mpv versions that answer
// loadfile with the playlist entry id bind it directly; otherwise start-file
// takes the oldest queued load.
type fileTracker struct {
	mu      sync.Mutex
	pending []FileLoad
	byEntry map[int64]FileLoad

	current      mo.Option[FileLoad]
	currentEntry int64
}

func newFileTracker() *fileTracker {
	return &fileTracker{byEntry: make(map[int64]FileLoad)}
}

// queue records a load whose file has not started yet.
func (t *fileTracker) queue(load FileLoad) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = append(t.pending, load)
}

// drop forgets a queued load that never reached mpv.
func (t *fileTracker) drop(epoch uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = lo.Reject(t.pending, func(l FileLoad, _ int) bool { return l.Epoch == epoch })
}

// bind ties a load to the playlist entry mpv created for it.
func (t *fileTracker) bind(entry int64, load FileLoad) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.byEntry[entry] = load
	t.prune(load.Epoch)
	if t.currentEntry == entry {
		t.current = mo.Some(load)
	}
}

// started is called on start-file and returns the load the entry belongs to.
func (t *fileTracker) started(entry int64) mo.Option[FileLoad] {
	t.mu.Lock()
	defer t.mu.Unlock()

	load, ok := t.byEntry[entry]
	switch {
	case ok:
	case len(t.pending) > 0:
		load, t.pending = t.pending[0], t.pending[1:]
		ok = true
	default:
		// adopted before the listener saw this entry start
		if current, adopted := t.current.Get(); adopted && t.currentEntry == 0 {
			load, ok = current, true
		}
	}

	t.currentEntry = entry
	if !ok {
		t.current = mo.None[FileLoad]()
		return t.current
	}

	t.byEntry[entry] = load
	t.prune(load.Epoch)
	t.current = mo.Some(load)
	return t.current
}

// ended is called on end-file and returns the load of the finished entry.
func (t *fileTracker) ended(entry int64) mo.Option[FileLoad] {
	t.mu.Lock()
	defer t.mu.Unlock()

	if load, ok := t.byEntry[entry]; ok {
		delete(t.byEntry, entry)
		return mo.Some(load)
	}
	if entry == t.currentEntry {
		return t.current
	}
	return mo.None[FileLoad]()
}

// adopt binds the oldest queued load to the file that is already playing.
// It covers a first file that started before events were observed.
func (t *fileTracker) adopt() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current.IsPresent() || len(t.pending) == 0 {
		return
	}
	t.current = mo.Some(t.pending[0])
	t.pending = t.pending[1:]
	t.currentEntry = 0
}

// playing returns the load of the file mpv is currently playing.
func (t *fileTracker) playing() mo.Option[FileLoad] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// tag stamps ev with the load it is about.
func (t *fileTracker) tag(ev *Event) {
	switch ev.Event {
	case "start-file":
		ev.Load = t.started(ev.PlaylistEntryID)
	case "end-file":
		ev.Load = t.ended(ev.PlaylistEntryID)
	default:
		ev.Load = t.playing()
	}
}

// prune drops queued loads superseded by epoch. Callers hold mu.
func (t *fileTracker) prune(epoch uint64) {
	t.pending = lo.Reject(t.pending, func(l FileLoad, _ int) bool { return l.Epoch <= epoch })
}

// entryID reads the playlist entry id from a loadfile reply.
func entryID(data json.RawMessage) mo.Option[int64] {
	var reply struct {
		ID *int64 `json:"playlist_entry_id"`
	}
	if len(data) == 0 || json.Unmarshal(data, &reply) != nil || reply.ID == nil {
		return mo.None[int64]()
	}
	return mo.Some(*reply.ID)
}
