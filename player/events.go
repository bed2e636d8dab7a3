package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/marquee-cli/marquee/log"
	"github.com/samber/mo"
)

// Event is a line pushed by mpv on an observing connection.
type Event struct {
	Event     string          `json:"event"`
	Name      string          `json:"name,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	FileError string          `json:"file_error,omitempty"`

	PlaylistEntryID int64 `json:"playlist_entry_id,omitempty"`

	// Load is the load the event is about, absent when no known load started the file.
	Load mo.Option[FileLoad] `json:"-"`
}

// observed lists the properties the listener subscribes to.
var observed = []string{"time-pos", "duration", "height", "track-list"}

// EventListener keeps one connection open and forwards mpv events to a callback.
// Observations are scoped to the connection that requested them, so the
// observe_property commands are sent over the same socket that is read.
type EventListener struct {
	socketPath string
	callback   func(Event)

	mu        sync.Mutex
	conn      net.Conn
	listening bool
	done      chan struct{}
}

// NewEventListener creates a listener for the given socket.
func NewEventListener(socketPath string, callback func(Event)) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
	}
}

// Start subscribes to the observed properties and starts the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		payload, err := json.Marshal(ipcCommand{Command: []any{"observe_property", i + 1, name}})
		if err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true
	el.done = make(chan struct{})
	go el.readLoop(conn, el.done)

	log.WithField("socket", el.socketPath).Debug("mpv event listener started")
	return nil
}

// Stop closes the connection, which ends the read loop.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}
	el.conn.Close()
	el.listening = false
}

// Done is closed when the read loop has returned.
func (el *EventListener) Done() <-chan struct{} {
	el.mu.Lock()
	defer el.mu.Unlock()
	return el.done
}

func (el *EventListener) readLoop(conn net.Conn, done chan struct{}) {
	defer close(done)
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if ev, ok := parseEvent(scanner.Bytes()); ok && el.callback != nil {
			el.callback(ev)
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Warnf("event listener read error: %v", err)
	}
}

// parseEvent decodes a line, skipping command replies and garbage.
func parseEvent(line []byte) (Event, bool) {
	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		return ev, false
	}
	return ev, ev.Event != ""
}
