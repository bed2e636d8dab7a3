// Package icon renders the status symbols printed by the commands.
//
// Icons come as emoji, nerd-font glyphs, plain ASCII, kaomoji
// or Unicode squares depending on the icons.variant setting.
package icon

import (
	"github.com/marquee-cli/marquee/color"
	"github.com/marquee-cli/marquee/key"
	"github.com/marquee-cli/marquee/style"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns every icon variant name.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Playing
	Quality
	Caption
	Audio
	Image
	Mark
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "🎉",
		nerd:    style.Fg(color.Green)(""),
		plain:   style.Fg(color.Green)("✓"),
		kaomoji: "(ᵔ◡ᵔ)",
		squares: style.Fg(color.Green)("▇"),
	},
	Fail: {
		emoji:   "💀",
		nerd:    style.Fg(color.Red)("ﮊ"),
		plain:   style.Fg(color.Red)("✖"),
		kaomoji: "(╥﹏╥)",
		squares: style.Fg(color.Red)("▇"),
	},
	Progress: {
		emoji:   "⏳",
		nerd:    style.Fg(color.Blue)(""),
		plain:   style.Fg(color.Blue)("…"),
		kaomoji: "(・_・ヾ",
		squares: style.Fg(color.Blue)("▇"),
	},
	Playing: {
		emoji:   "🎬",
		nerd:    style.Fg(color.Purple)(""),
		plain:   style.Fg(color.Purple)("▶"),
		kaomoji: "(⌐■_■)",
		squares: style.Fg(color.Purple)("▇"),
	},
	Quality: {
		emoji:   "📺",
		nerd:    style.Fg(color.Cyan)(""),
		plain:   style.Fg(color.Cyan)("#"),
		kaomoji: "[¬º-°]¬",
		squares: style.Fg(color.Cyan)("▇"),
	},
	Caption: {
		emoji:   "💬",
		nerd:    style.Fg(color.Yellow)(""),
		plain:   style.Fg(color.Yellow)("cc"),
		kaomoji: "φ(゜▽゜*)",
		squares: style.Fg(color.Yellow)("▇"),
	},
	Audio: {
		emoji:   "🔊",
		nerd:    style.Fg(color.Orange)(""),
		plain:   style.Fg(color.Orange)("♪"),
		kaomoji: "♪(´▽｀)",
		squares: style.Fg(color.Orange)("▇"),
	},
	Image: {
		emoji:   "🖼",
		nerd:    style.Fg(color.Blue)(""),
		plain:   style.Fg(color.Blue)("▣"),
		kaomoji: "[o_o]",
		squares: style.Fg(color.Blue)("▇"),
	},
	Mark: {
		emoji:   "👉",
		nerd:    style.Fg(color.Purple)(""),
		plain:   style.Fg(color.Purple)("›"),
		kaomoji: "(☞ﾟ∀ﾟ)☞",
		squares: style.Fg(color.Purple)("▇"),
	},
}

// Get returns the rendering of i for the configured variant.
func Get(i Icon) string {
	return icons[i].Get()
}
