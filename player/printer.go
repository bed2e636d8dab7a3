package player

import (
	"fmt"
	"io"

	"github.com/marquee-cli/marquee/playback"
	"github.com/marquee-cli/marquee/source"
	"github.com/marquee-cli/marquee/style"
	"github.com/samber/mo"
)

// Printer is a display that describes the commands it receives instead of playing.
// It backs dry runs.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Load(req playback.LoadRequest) error {
	quality := "automatic"
	if !req.AutomaticQuality {
		quality = req.PreferredQuality.OrElse(source.QualityUnknown).String()
	}

	p.line("load", fmt.Sprintf("#%d %s at %gs (%s)", req.Epoch, req.Stream.URL, req.StartAt, quality))
	if headers := headerFields(req.Stream.Headers); headers != "" {
		p.line("headers", headers)
	}
	if c, ok := req.Caption.Get(); ok {
		p.line("caption", c.Language)
	}
	return nil
}

func (p *Printer) ChangeQuality(automatic bool, q mo.Option[source.Quality]) error {
	if automatic {
		p.line("quality", "automatic")
		return nil
	}
	p.line("quality", q.OrElse(source.QualityUnknown).String())
	return nil
}

func (p *Printer) SetCaption(caption mo.Option[source.Caption], asTrack bool) error {
	c, ok := caption.Get()
	if !ok {
		p.line("caption", "off")
		return nil
	}

	mode := "overlay"
	if asTrack {
		mode = "track"
	}
	p.line("caption", fmt.Sprintf("%s (%s)", c.Language, mode))
	return nil
}

func (p *Printer) SetAudioTrack(id string) error {
	p.line("audio", id)
	return nil
}

func (p *Printer) line(what, text string) {
	fmt.Fprintf(p.w, "%s %s\n", style.Fg(style.AccentColor)(fmt.Sprintf("%-8s", what)), text)
}
