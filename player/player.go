// Package player implements playback.Display on top of real media players.
// mpv is driven through its JSON-IPC socket; IINA is mpv underneath and shares the driver.
package player

import (
	"errors"
	"fmt"
	"sort"

	"github.com/marquee-cli/marquee/key"
	"github.com/marquee-cli/marquee/playback"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

var (
	ErrNotRunning     = errors.New("player is not running")
	ErrUnknownPlayer  = errors.New("unknown player")
	ErrNoSuchTrack    = errors.New("no such track")
	ErrEmptyCaption   = errors.New("caption has neither url nor data")
	ErrPlaybackFailed = errors.New("playback failed")
)

// Engine is a display that runs as a separate process and pushes events back.
type Engine interface {
	playback.Display
	playback.AudioTrackSwitcher

	OnEvent(handler func(Event))
	Seek(seconds float64) error
	TimePos() (float64, error)
	Wait() <-chan struct{}
	Close() error
}

var constructors = map[string]func() Engine{
	"mpv":  func() Engine { return NewMPV() },
	"iina": func() Engine { return NewIINA() },
}

// Names lists the supported players.
func Names() []string {
	names := lo.Keys(constructors)
	sort.Strings(names)
	return names
}

// New creates the player registered under name.
func New(name string) (Engine, error) {
	construct, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPlayer, name, Names())
	}
	return construct(), nil
}

// Default creates the player chosen in the config.
func Default() (Engine, error) {
	return New(viper.GetString(key.Player))
}
