package playback

import (
	"sort"
	"sync"

	"github.com/marquee-cli/marquee/log"
	"github.com/marquee-cli/marquee/quality"
	"github.com/marquee-cli/marquee/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Observer is notified once per commit with the state before and after it.
type Observer func(prev, next State)

// Option configures a Controller.
type Option func(*Controller)

// WithPolicy replaces the default quality policy.
func WithPolicy(policy quality.Policy) Option {
	return func(c *Controller) {
		c.policy = policy
	}
}

// Controller owns playback state and drives the display engine.
//
// Every operation commits its changes as one unit, so observers and State callers
// only ever see whole transitions. Display commands are issued after the commit and
// outside the lock, which lets the engine report back from any goroutine.
type Controller struct {
	display Display
	prefs   quality.PreferenceProvider
	policy  quality.Policy

	mu        sync.Mutex
	state     State
	observers map[int]Observer
	nextID    int
}

// New creates a controller in the idle state.
// display may be nil, in which case no engine commands are sent.
func New(display Display, prefs quality.PreferenceProvider, opts ...Option) *Controller {
	c := &Controller{
		display:   display,
		prefs:     prefs,
		policy:    quality.DefaultPolicy(),
		state:     initialState(),
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Epoch returns the identifier of the current load attempt.
func (c *Controller) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Epoch
}

// Subscribe registers an observer and returns a function removing it.
func (c *Controller) Subscribe(fn Observer) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.observers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

// commit applies mutate to a copy of the state and swaps it in when mutate returns true.
// Observers are called once, after the lock is released.
func (c *Controller) commit(mutate func(*State) bool) (State, bool) {
	c.mu.Lock()
	prev := c.state
	next := prev.clone()
	if !mutate(&next) {
		c.mu.Unlock()
		return prev.clone(), false
	}
	c.state = next

	ids := lo.Keys(c.observers)
	sort.Ints(ids)
	observers := lo.Map(ids, func(id int, _ int) Observer { return c.observers[id] })
	c.mu.Unlock()

	for _, fn := range observers {
		fn(prev.clone(), next.clone())
	}
	return next.clone(), true
}

func (c *Controller) update(mutate func(*State)) State {
	next, _ := c.commit(func(s *State) bool {
		mutate(s)
		return true
	})
	return next
}

// SetStatus transitions unconditionally. Any status is reachable from any other.
func (c *Controller) SetStatus(status source.Status) {
	c.update(func(s *State) {
		s.Status = status
	})
	log.WithField("status", status).Debug("status set")
}

// SetMeta replaces the title metadata and shows the next episode button again.
// An optional status is applied in the same commit.
func (c *Controller) SetMeta(meta source.Meta, status ...source.Status) {
	c.update(func(s *State) {
		s.Meta = mo.Some(cloneMeta(meta))
		s.Interface.HideNextEpisodeButton = false
		if len(status) > 0 {
			s.Status = status[0]
		}
	})
	log.WithFields(log.Fields{"title": meta.Title, "type": meta.Type}).Info("meta set")
}

// SetSourceID records the identifier of the active source attempt and forces playing.
func (c *Controller) SetSourceID(id string) {
	c.update(func(s *State) {
		s.SourceID = mo.Some(id)
		s.Status = source.StatusPlaying
	})
}

// IsCurrentSourceID reports whether id is still the active source attempt.
// Callers drop late results for which it returns false.
func (c *Controller) IsCurrentSourceID(id string) bool {
	current, ok := c.State().SourceID.Get()
	return ok && current == id
}

// SetSource replaces the source and loads it at startAt.
//
// Quality is resolved from the stored preferences. Audio tracks are reset, the caption
// list is replaced and a selected caption missing from it is dropped. Everything,
// including the new epoch, is committed at once before the load is dispatched. A file
// source without a playable stream is rejected and leaves the state untouched.
func (c *Controller) SetSource(src source.Descriptor, captions []source.CaptionListItem, startAt float64) error {
	prefs := c.prefs.Preferences()
	sel, err := c.policy.Select(src, prefs)
	if err != nil {
		return err
	}

	next := c.update(func(s *State) {
		s.Source = src
		s.Qualities = qualitiesOf(src, c.policy.Sort)
		s.CurrentQuality = sel.Quality

		s.AudioTracks = []source.AudioTrack{}
		s.CurrentAudioTrack = mo.None[source.AudioTrack]()

		s.CaptionList = append([]source.CaptionListItem{}, captions...)
		if selected, ok := s.Caption.Selected.Get(); ok && !source.ContainsCaption(captions, selected.ID) {
			s.Caption.Selected = mo.None[source.Caption]()
		}

		s.startLoad(startAt)
	})

	log.WithFields(log.Fields{
		"kind":    src.Kind(),
		"quality": sel.Quality.OrEmpty(),
		"start":   startAt,
		"epoch":   next.Epoch,
	}).Info("source set")

	c.load(next, LoadRequest{
		Stream:           sel.Stream,
		StartAt:          startAt,
		AutomaticQuality: prefs.Automatic,
		PreferredQuality: prefs.LastChosen,
	})
	return nil
}

// RedisplaySource loads the current source again at startAt without touching the
// source, qualities or captions. A manually chosen quality is kept. No-op without a source.
func (c *Controller) RedisplaySource(startAt float64) {
	prefs := c.prefs.Preferences()

	var sel quality.Selection
	next, ok := c.commit(func(s *State) bool {
		if !s.HasSource() {
			return false
		}

		// The current quality already reflects the preferences applied by SetSource or a
		// manual switch, so it is resolved as a manual choice.
		var err error
		sel, err = c.policy.Select(s.Source, quality.Preferences{LastChosen: s.CurrentQuality})
		if err != nil {
			log.Errorf("redisplay source: %v", err)
			return false
		}

		s.startLoad(startAt)
		return true
	})
	if !ok {
		return
	}

	c.load(next, LoadRequest{
		Stream:           sel.Stream,
		StartAt:          startAt,
		AutomaticQuality: prefs.Automatic,
		PreferredQuality: prefs.LastChosen,
	})
}

// SwitchQuality changes quality by hand.
//
// File sources are reloaded at the current position with automatic quality off; a label
// that is not playable in the source is ignored. Adaptive sources delegate to the
// engine, which reports the resulting quality back.
func (c *Controller) SwitchQuality(q source.Quality) {
	var (
		adaptive bool
		stream   source.Stream
	)

	next, reload := c.commit(func(s *State) bool {
		if !s.HasSource() {
			return false
		}

		found := source.Match(s.Source,
			func(file source.FileSource) mo.Option[source.Stream] {
				return mo.TupleToOption(file.Stream(q))
			},
			func(source.HLSSource) mo.Option[source.Stream] {
				adaptive = true
				return mo.None[source.Stream]()
			},
		)

		var ok bool
		if stream, ok = found.Get(); !ok {
			return false
		}

		s.CurrentQuality = mo.Some(q)
		s.startLoad(s.Progress.Time)
		return true
	})

	switch {
	case adaptive:
		c.changeQuality(false, mo.Some(q))
	case !reload:
		log.WithField("quality", q).Debug("switch to unavailable quality ignored")
	default:
		c.load(next, LoadRequest{
			Stream:           stream,
			StartAt:          next.Progress.Time,
			AutomaticQuality: false,
			PreferredQuality: mo.Some(q),
		})
	}
}

// EnableAutomaticQuality hands quality selection to the engine.
// The current quality is updated only when the engine reports its pick.
func (c *Controller) EnableAutomaticQuality() {
	c.changeQuality(true, mo.None[source.Quality]())
}

// SetCaption applies or clears a caption. The engine is told first, then the selection
// is recorded, so observers see the change together with the rendering.
func (c *Controller) SetCaption(caption mo.Option[source.Caption]) error {
	if c.display != nil {
		if err := c.display.SetCaption(caption, c.State().Caption.AsTrack); err != nil {
			log.Warnf("set caption: %v", err)
			return err
		}
	}

	c.update(func(s *State) {
		s.Caption.Selected = caption
	})
	return nil
}

// SetCaptionAsTrack chooses whether captions are loaded as tracks.
func (c *Controller) SetCaptionAsTrack(asTrack bool) {
	c.update(func(s *State) {
		s.Caption.AsTrack = asTrack
	})
}

// SetHideNextEpisodeButton toggles the next episode button. SetMeta shows it again.
func (c *Controller) SetHideNextEpisodeButton(hide bool) {
	c.update(func(s *State) {
		s.Interface.HideNextEpisodeButton = hide
	})
}

// SetAudioTrack selects one of the reported audio tracks.
// It returns false when no track has the given id.
func (c *Controller) SetAudioTrack(id string) bool {
	track, ok := lo.Find(c.State().AudioTracks, func(t source.AudioTrack) bool {
		return t.ID == id
	})
	if !ok {
		return false
	}

	if switcher, ok := c.display.(AudioTrackSwitcher); ok {
		if err := switcher.SetAudioTrack(id); err != nil {
			log.Warnf("set audio track: %v", err)
			return false
		}
	}

	c.update(func(s *State) {
		s.CurrentAudioTrack = mo.Some(track)
	})
	return true
}

// load dispatches req for the load committed in state. A load superseded by a later
// commit before reaching the engine is not sent.
func (c *Controller) load(state State, req LoadRequest) {
	req.Epoch = state.Epoch
	req.Caption = state.Caption.Selected
	req.CaptionAsTrack = state.Caption.AsTrack
	if meta, ok := state.Meta.Get(); ok {
		req.Title = meta.String()
	}

	if c.display == nil {
		return
	}

	if current := c.Epoch(); current != req.Epoch {
		log.WithFields(log.Fields{"epoch": req.Epoch, "current": current}).Debug("superseded load skipped")
		return
	}

	log.WithFields(log.Fields{
		"epoch":  req.Epoch,
		"stream": req.Stream.String(),
		"start":  req.StartAt,
	}).Debug("load dispatched")

	if err := c.display.Load(req); err != nil {
		c.ReportError(req.Epoch, err)
	}
}

func (c *Controller) changeQuality(automatic bool, q mo.Option[source.Quality]) {
	if c.display == nil {
		return
	}
	if err := c.display.ChangeQuality(automatic, q); err != nil {
		log.Warnf("change quality: %v", err)
	}
}
