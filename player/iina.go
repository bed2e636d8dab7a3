package player

import (
	"runtime"

	"github.com/marquee-cli/marquee/constant"
)

// iinaCLI ships inside the app bundle and forwards --mpv-* options to the embedded mpv,
// including the IPC server, so the mpv driver works unchanged.
const iinaCLI = "/Applications/IINA.app/Contents/MacOS/iina-cli"

var iinaLauncher = launcher{
	binary: iinaCLI,
	prefix: "--mpv-",
	extra:  []string{"--keep-running", "--no-stdin"},
}

// NewIINA creates a display backed by IINA. It only works on macOS.
func NewIINA() *MPV {
	return newMPV(iinaLauncher)
}

// Supported reports whether IINA can run on this system.
func (l launcher) Supported() bool {
	return l.binary != iinaCLI || runtime.GOOS == constant.Darwin
}
