package quality

import (
	"sync"

	"github.com/marquee-cli/marquee/filesystem"
	"github.com/marquee-cli/marquee/key"
	"github.com/marquee-cli/marquee/log"
	"github.com/marquee-cli/marquee/source"
	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Preferences is the user's quality preference.
// Automatic and manual are exclusive modes, but turning automatic on keeps LastChosen
// so that going back to manual restores it.
type Preferences struct {
	Automatic  bool                      `json:"automaticQuality"`
	LastChosen mo.Option[source.Quality] `json:"lastChosenQuality"`
}

// PreferenceProvider supplies the preferences at the moment a source is set.
type PreferenceProvider interface {
	Preferences() Preferences
}

// Static is a fixed PreferenceProvider.
type Static Preferences

// Preferences returns the fixed value.
func (s Static) Preferences() Preferences {
	return Preferences(s)
}

// Store persists preferences on disk. It is the PreferenceProvider used by the CLI.
type Store struct {
	mu    sync.Mutex
	cache *gache.Cache[*Preferences]
}

// NewStore opens the preference file at path. The file is created lazily on the first write.
func NewStore(path string) *Store {
	return &Store{
		cache: filesystem.NewCache[*Preferences](path, 0),
	}
}

// Preferences returns the stored preferences, or the configured defaults when nothing was stored yet.
func (s *Store) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() Preferences {
	cached, expired, err := s.cache.Get()
	if err != nil {
		log.Warnf("read quality preferences: %v", err)
	}
	if err != nil || expired || cached == nil {
		return Preferences{
			Automatic:  viper.GetBool(key.QualityAutomatic),
			LastChosen: mo.None[source.Quality](),
		}
	}
	return *cached
}

func (s *Store) save(mutate func(*Preferences)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := s.load()
	mutate(&prefs)
	return s.cache.Set(&prefs)
}

// SetAutomatic switches automatic quality on or off. The last manual choice is kept either way.
func (s *Store) SetAutomatic(automatic bool) error {
	return s.save(func(p *Preferences) {
		p.Automatic = automatic
	})
}

// SetLastChosen records a manual choice, which also leaves automatic mode.
func (s *Store) SetLastChosen(q source.Quality) error {
	return s.save(func(p *Preferences) {
		p.Automatic = false
		p.LastChosen = mo.Some(q)
	})
}
