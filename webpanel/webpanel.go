// Package webpanel is a display panel rendered by a browser. The panel serves
// a page that draws bursts with canvas-confetti and exchanges panel messages
// with it over a WebSocket.
//
// Emissions are resolved here, so the page only replays finished
// canvas-confetti options.
package webpanel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/iw2rmb/flourish-confetti/emission"
	"github.com/iw2rmb/flourish-confetti/panel"
	"github.com/iw2rmb/flourish-confetti/particle"
)

const (
	socketPath      = "/ws"
	writeWait       = 2 * time.Second
	shutdownTimeout = time.Second
	DefaultAddr     = "127.0.0.1:0"
)

// PopKey asks the host for a test pop while the panel has focus in the host,
// like the page's button.
var PopKey = key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "test pop"))

type Options struct {
	// Addr is the listen address; empty means DefaultAddr.
	Addr string

	// Settings seeds the panel; nil means emission.DefaultSettings.
	Settings *emission.Settings
	Rand     particle.Rand
	Logger   *log.Logger

	// Events receives the messages pages send. Nil drops them.
	Events chan<- panel.Envelope

	// OnReveal is called with the page URL when the host asks to show the panel.
	OnReveal func(url string)
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Panel is a browser display panel. Post and Dispose are called from the
// host loop; connections are served on their own goroutines.
type Panel struct {
	id        panel.ID
	opts      Options
	logger    *log.Logger
	onDispose func()

	upgrader websocket.Upgrader
	ln       net.Listener
	srv      *http.Server
	done     chan struct{}

	mu       sync.Mutex
	settings emission.Settings
	clients  map[*client]struct{}
	disposed bool
}

var _ panel.Panel = (*Panel)(nil)

// Open starts serving the panel page.
func Open(id panel.ID, onDispose func(), opts Options) (*Panel, error) {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if onDispose == nil {
		onDispose = func() {}
	}
	settings := emission.DefaultSettings()
	if opts.Settings != nil {
		settings = opts.Settings.Clone()
	}

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return nil, fmt.Errorf("webpanel: listen %s: %w", opts.Addr, err)
	}

	p := &Panel{
		id:        id,
		opts:      opts,
		logger:    logger,
		onDispose: onDispose,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		ln:       ln,
		done:     make(chan struct{}),
		settings: settings,
		clients:  make(map[*client]struct{}),
	}
	p.srv = &http.Server{Handler: p.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := p.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("webpanel: serve: %v", err)
		}
	}()
	logger.Printf("webpanel: %s serving %s", id, p.URL())
	return p, nil
}

// Factory returns a panel.Factory that hands every new panel to opened.
func Factory(opts Options, opened func(*Panel)) panel.Factory {
	return func(id panel.ID, onDispose func()) (panel.Panel, error) {
		p, err := Open(id, onDispose, opts)
		if err != nil {
			return nil, err
		}
		if opened != nil {
			opened(p)
		}
		return p, nil
	}
}

// Handler serves the page and its socket.
func (p *Panel) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", p.servePage)
	mux.HandleFunc(socketPath, p.serveSocket)
	return mux
}

// URL is where the page is served.
func (p *Panel) URL() string { return "http://" + p.ln.Addr().String() + "/" }

func (p *Panel) Kind() panel.Kind { return panel.KindDisplay }
func (p *Panel) ID() panel.ID     { return p.id }

func (p *Panel) Reveal() {
	if p.opts.OnReveal != nil {
		p.opts.OnReveal(p.URL())
	}
}

// Settings returns a copy of the panel's current settings.
func (p *Panel) Settings() emission.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings.Clone()
}

// Clients reports the number of connected pages.
func (p *Panel) Clients() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}

// Update lets the host focus the panel, so it can be closed from the
// terminal. Keys other than PopKey are ignored.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok || !key.Matches(km, PopKey) {
		return nil
	}
	p.mu.Lock()
	disposed := p.disposed
	p.mu.Unlock()
	if disposed {
		return nil
	}
	return panel.Send(panel.KindDisplay, p.id, panel.TestPop())
}

func (p *Panel) Post(msg panel.Message) error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return panel.ErrAlreadyDisposed
	}
	var out panel.Message
	switch msg.Command {
	case panel.CommandTriggerConfetti, panel.CommandTestPop:
		ev := emission.Emit(p.settings, p.opts.Rand)
		out = panel.Message{Command: panel.CommandTriggerConfetti, Emission: &ev}
	case panel.CommandUpdateSettings:
		if msg.Settings != nil {
			p.settings = emission.Merge(p.settings, *msg.Settings)
		}
		out = msg
	default:
		p.mu.Unlock()
		return panel.ErrUnsupported
	}
	p.mu.Unlock()

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("webpanel: encode %s: %w", out.Command, err)
	}
	p.broadcast(data)
	return nil
}

func (p *Panel) broadcast(data []byte) {
	p.mu.Lock()
	clients := make([]*client, 0, len(p.clients))
	for c := range p.clients {
		clients = append(clients, c)
	}
	p.mu.Unlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			p.logger.Printf("webpanel: send to %s failed: %v", c.conn.RemoteAddr(), err)
			p.drop(c)
		}
	}
}

func (p *Panel) serveSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := p.upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.logger.Printf("webpanel: upgrade failed: %v", err)
		return
	}
	c := &client{conn: conn}

	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		conn.Close()
		return
	}
	p.clients[c] = struct{}{}
	hello, err := json.Marshal(panel.UpdateSettings(emission.Full(p.settings)))
	p.mu.Unlock()
	p.logger.Printf("webpanel: page connected from %s", conn.RemoteAddr())

	if err == nil {
		if err := c.write(hello); err != nil {
			p.drop(c)
			return
		}
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			p.drop(c)
			return
		}
		msg, err := panel.Decode(payload)
		if err != nil {
			p.logger.Printf("webpanel: discarding message from %s: %v", conn.RemoteAddr(), err)
			continue
		}
		p.deliver(msg)
	}
}

func (p *Panel) deliver(msg panel.Message) {
	if p.opts.Events == nil {
		return
	}
	select {
	case p.opts.Events <- panel.Envelope{From: panel.KindDisplay, ID: p.id, Msg: msg}:
	case <-p.done:
	}
}

func (p *Panel) drop(c *client) {
	p.mu.Lock()
	_, ok := p.clients[c]
	delete(p.clients, c)
	p.mu.Unlock()
	if ok {
		c.conn.Close()
		p.logger.Printf("webpanel: page disconnected from %s", c.conn.RemoteAddr())
	}
}

// Dispose closes every page connection and stops the server.
func (p *Panel) Dispose() {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.disposed = true
	clients := p.clients
	p.clients = make(map[*client]struct{})
	p.mu.Unlock()

	close(p.done)
	bye := websocket.FormatCloseMessage(websocket.CloseGoingAway, "panel closed")
	for c := range clients {
		c.mu.Lock()
		c.conn.WriteControl(websocket.CloseMessage, bye, time.Now().Add(writeWait))
		c.mu.Unlock()
		c.conn.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := p.srv.Shutdown(ctx); err != nil {
		p.logger.Printf("webpanel: shutdown: %v", err)
	}
	p.logger.Printf("webpanel: %s closed", p.id)
	p.onDispose()
}
