package style

import "github.com/marquee-cli/marquee/color"

// Semantic colors of boxed messages such as the missing player notice.
var (
	Text        = color.New("#cdd6f4")
	AccentColor = color.New("#cba6f7")
	HiRed       = color.HiRed
)
