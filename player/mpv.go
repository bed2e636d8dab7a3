package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/marquee-cli/marquee/constant"
	"github.com/marquee-cli/marquee/filesystem"
	"github.com/marquee-cli/marquee/log"
	"github.com/marquee-cli/marquee/playback"
	"github.com/marquee-cli/marquee/source"
	"github.com/marquee-cli/marquee/util"
	"github.com/marquee-cli/marquee/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// launcher describes how a player binary is started.
// mpv frontends such as IINA forward mpv options under their own prefix.
type launcher struct {
	binary string
	prefix string
	extra  []string
}

var mpvLauncher = launcher{
	binary: "mpv",
	prefix: "--",
	extra:  []string{"--no-terminal", "--really-quiet"},
}

// MPV drives an mpv process over its JSON-IPC socket and implements playback.Display.
//
// The process is spawned by the first Load; later loads replace the file in the
// running instance. Captions and manual adaptive quality are applied once mpv
// reports the file as loaded.
type MPV struct {
	launcher   launcher
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	listener   *EventListener
	files      *fileTracker

	// ipc serializes socket round trips.
	ipc sync.Mutex

	mu             sync.Mutex
	handlers       []func(Event)
	adaptive       bool
	automatic      bool
	preferred      mo.Option[source.Quality]
	caption        mo.Option[source.Caption]
	captionAsTrack bool
	captionTrack   mo.Option[int]
}

// NewMPV creates an mpv display. Nothing is started until the first Load.
func NewMPV() *MPV {
	return newMPV(mpvLauncher)
}

func newMPV(l launcher) *MPV {
	return &MPV{
		launcher: l,
		exited:   make(chan struct{}),
		files:    newFileTracker(),
	}
}

// OnEvent registers a handler for every event mpv pushes.
// Handlers run on the listener goroutine.
func (m *MPV) OnEvent(handler func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, handler)
}

// Load plays req.Stream, spawning mpv when it is not running yet.
// Events about the started file are tagged with req.Epoch.
func (m *MPV) Load(req playback.LoadRequest) error {
	target, err := sanitizeMediaTarget(req.Stream.URL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	load := FileLoad{Epoch: req.Epoch, Adaptive: req.Stream.Kind == source.KindHLS}

	m.mu.Lock()
	m.adaptive = load.Adaptive
	m.automatic = req.AutomaticQuality
	m.preferred = req.PreferredQuality
	m.caption = req.Caption
	m.captionAsTrack = req.CaptionAsTrack
	m.captionTrack = mo.None[int]()
	m.mu.Unlock()

	log.WithFields(log.Fields{
		"epoch":  req.Epoch,
		"target": target,
		"start":  req.StartAt,
	}).Info("mpv load")

	m.files.queue(load)

	if !m.IsRunning() {
		if err := m.spawn(target, req); err != nil {
			m.files.drop(load.Epoch)
			return err
		}
		return nil
	}

	for _, opt := range fileOptions(req) {
		if err := m.setProperty(opt.name, opt.value); err != nil {
			m.files.drop(load.Epoch)
			return fmt.Errorf("set %s: %w", opt.name, err)
		}
	}

	reply, err := m.sendCommand("loadfile", target, "replace")
	if err != nil {
		m.files.drop(load.Epoch)
		return fmt.Errorf("loadfile: %w", err)
	}
	if entry, ok := entryID(reply).Get(); ok {
		m.files.bind(entry, load)
	}
	return nil
}

// ChangeQuality switches the rendition of an adaptive stream. File sources are
// reloaded by the controller, so only the preference is recorded for them.
func (m *MPV) ChangeQuality(automatic bool, q mo.Option[source.Quality]) error {
	if !m.IsRunning() {
		return ErrNotRunning
	}

	m.mu.Lock()
	m.automatic = automatic
	m.preferred = q
	adaptive := m.adaptive
	m.mu.Unlock()

	if !adaptive {
		return nil
	}

	if automatic {
		if err := m.setProperty("hls-bitrate", "max"); err != nil {
			return err
		}
		return m.setProperty("vid", "auto")
	}

	quality, ok := q.Get()
	if !ok {
		return nil
	}
	return m.selectVideo(quality)
}

// SetCaption replaces the caption added by marquee. Captions set while mpv is not
// running are kept and applied with the next file.
func (m *MPV) SetCaption(caption mo.Option[source.Caption], asTrack bool) error {
	if !m.IsRunning() {
		m.mu.Lock()
		m.caption = caption
		m.captionAsTrack = asTrack
		m.mu.Unlock()
		return nil
	}

	if err := m.removeCaption(); err != nil {
		return err
	}

	if c, ok := caption.Get(); ok {
		if err := m.addCaption(c, asTrack); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.caption = caption
	m.captionAsTrack = asTrack
	m.mu.Unlock()
	return nil
}

// SetAudioTrack selects the audio track with the given track-list id.
func (m *MPV) SetAudioTrack(id string) error {
	if !m.IsRunning() {
		return ErrNotRunning
	}

	n, err := strconv.Atoi(id)
	if err != nil {
		return fmt.Errorf("audio track %q: %w", id, err)
	}
	return m.setProperty("aid", n)
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand("seek", seconds, "absolute")
	return err
}

// TimePos returns the current playback position in seconds.
func (m *MPV) TimePos() (float64, error) {
	return m.getFloatProperty("time-pos")
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand("get_property", "pid")
	return err == nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// Close quits mpv and cleans up the socket.
func (m *MPV) Close() error {
	if m.listener != nil {
		m.listener.Stop()
	}

	if m.socketPath == "" {
		return nil
	}

	_, _ = m.sendCommand("quit")

	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		_ = terminate(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

func (m *MPV) spawn(target string, req playback.LoadRequest) error {
	if !m.launcher.Supported() {
		return fmt.Errorf("%s is not supported on %s", m.launcher.binary, runtime.GOOS)
	}

	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.Marquee, randomBytes))
	}

	m.cmd = exec.Command(m.launcher.binary, spawnArgs(m.launcher, m.socketPath, target, req)...)
	m.cmd.SysProcAttr = detached()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", m.launcher.binary, err)
	}

	exited := make(chan struct{})
	m.exited = exited
	cmd := m.cmd
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := m.waitForSocket(); err != nil {
		if m.cmd.Process != nil {
			select {
			case <-m.exited:
			default:
				log.Warnf("killing %s: socket never became ready", m.launcher.binary)
				_ = terminate(m.cmd)
			}
		}
		return fmt.Errorf("%s socket not ready: %w", m.launcher.binary, err)
	}

	m.listener = NewEventListener(m.socketPath, m.dispatch)
	if err := m.listener.Start(); err != nil {
		log.Warnf("mpv events unavailable: %v", err)
	}

	// The first file may have loaded before the listener subscribed.
	if _, err := m.getFloatProperty("duration"); err == nil {
		m.files.adopt()
		m.fileLoaded()
	}
	return nil
}

// waitForSocket polls until the IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("process exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

func (m *MPV) dispatch(ev Event) {
	m.files.tag(&ev)

	if ev.Event == "file-loaded" {
		m.fileLoaded()
	}

	m.mu.Lock()
	handlers := append([]func(Event){}, m.handlers...)
	m.mu.Unlock()

	for _, handle := range handlers {
		handle(ev)
	}
}

// fileLoaded re-applies the pending caption and manual quality to a fresh file.
func (m *MPV) fileLoaded() {
	m.mu.Lock()
	caption, asTrack := m.caption, m.captionAsTrack
	if m.captionTrack.IsPresent() {
		caption = mo.None[source.Caption]()
	}
	manual := m.adaptive && !m.automatic
	preferred := m.preferred
	m.mu.Unlock()

	if c, ok := caption.Get(); ok {
		if err := m.addCaption(c, asTrack); err != nil {
			log.Warnf("apply caption: %v", err)
		}
	}

	if q, ok := preferred.Get(); ok && manual {
		if err := m.selectVideo(q); err != nil {
			log.Warnf("apply quality: %v", err)
		}
	}
}

func (m *MPV) selectVideo(q source.Quality) error {
	tracks, err := m.trackList()
	if err != nil {
		return err
	}

	track, ok := videoTrackFor(tracks, q).Get()
	if !ok {
		return fmt.Errorf("%w: %s video", ErrNoSuchTrack, q)
	}
	return m.setProperty("vid", track.ID)
}

// addCaption loads c as an external subtitle. Captions loaded as tracks become the
// primary subtitle; the others are shown as the secondary overlay and leave the
// embedded track selection alone.
func (m *MPV) addCaption(c source.Caption, asTrack bool) error {
	path := c.URL
	if c.SRTData != "" {
		written, err := writeCaptionFile(c)
		if err != nil {
			return err
		}
		path = written
	}
	if path == "" {
		return fmt.Errorf("caption %s: %w", c.ID, ErrEmptyCaption)
	}

	if _, err := m.sendCommand("sub-add", path, "auto", c.Language, c.Language); err != nil {
		return fmt.Errorf("sub-add: %w", err)
	}

	tracks, err := m.trackList()
	if err != nil {
		return err
	}
	added, ok := newestExternalSub(tracks).Get()
	if !ok {
		return fmt.Errorf("%w: added caption", ErrNoSuchTrack)
	}

	property := "secondary-sid"
	if asTrack {
		property = "sid"
	}
	if err := m.setProperty(property, added.ID); err != nil {
		return err
	}

	m.mu.Lock()
	m.captionTrack = mo.Some(added.ID)
	m.mu.Unlock()
	return nil
}

func (m *MPV) removeCaption() error {
	m.mu.Lock()
	id, ok := m.captionTrack.Get()
	m.captionTrack = mo.None[int]()
	m.mu.Unlock()

	if !ok {
		return nil
	}
	if _, err := m.sendCommand("sub-remove", id); err != nil {
		return fmt.Errorf("sub-remove: %w", err)
	}
	return nil
}

func newestExternalSub(tracks []Track) mo.Option[Track] {
	subs := lo.Filter(tracks, func(t Track, _ int) bool {
		return t.Type == "sub" && t.External
	})
	if len(subs) == 0 {
		return mo.None[Track]()
	}
	return mo.Some(lo.MaxBy(subs, func(a, b Track) bool { return a.ID > b.ID }))
}

// writeCaptionFile stores inline subtitle data where mpv can read it.
func writeCaptionFile(c source.Caption) (string, error) {
	path := filepath.Join(where.Temp(), fmt.Sprintf("caption-%s.srt", util.SanitizeFilename(c.ID)))
	if err := filesystem.API().WriteFile(path, []byte(c.SRTData), 0o600); err != nil {
		return "", fmt.Errorf("write caption: %w", err)
	}
	return path, nil
}

type option struct {
	name  string
	value string
}

// fileOptions returns the per-file mpv options of a load.
func fileOptions(req playback.LoadRequest) []option {
	start := "none"
	if req.StartAt > 0 {
		start = strconv.FormatFloat(req.StartAt, 'f', -1, 64)
	}

	opts := []option{
		{"force-media-title", sanitizeTitle(req.Title)},
		{"start", start},
		{"http-header-fields", headerFields(req.Stream.Headers)},
	}
	if req.Stream.Kind == source.KindHLS {
		opts = append(opts, option{"hls-bitrate", "max"})
	}
	return opts
}

func spawnArgs(l launcher, socketPath, target string, req playback.LoadRequest) []string {
	args := append([]string{}, l.extra...)
	args = append(args,
		fmt.Sprintf("%sinput-ipc-server=%s", l.prefix, socketPath),
		l.prefix+"force-window=yes",
		l.prefix+"idle=yes",
	)

	for _, opt := range fileOptions(req) {
		if opt.value == "" {
			continue
		}
		args = append(args, fmt.Sprintf("%s%s=%s", l.prefix, opt.name, opt.value))
	}

	return append(args, target)
}

// headerFields renders headers the way --http-header-fields expects, in key order.
func headerFields(headers map[string]string) string {
	keys := lo.Keys(headers)
	sort.Strings(keys)

	fields := lo.Map(keys, func(k string, _ int) string {
		return fmt.Sprintf("%s: %s", k, strings.ReplaceAll(headers[k], ",", "%2C"))
	})
	return strings.Join(fields, ",")
}

// sanitizeMediaTarget validates that a URL or path is safe to hand to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// A leading dash would be parsed as a flag.
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-'")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
