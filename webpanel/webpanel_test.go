package webpanel

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/iw2rmb/flourish-confetti/emission"
	"github.com/iw2rmb/flourish-confetti/panel"
)

func openTestPanel(t *testing.T, events chan panel.Envelope) (*Panel, *int) {
	t.Helper()
	disposed := 0
	p, err := Open(7, func() { disposed++ }, Options{
		Rand:   rand.New(rand.NewPCG(5, 5)),
		Events: events,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(p.Dispose)
	return p, &disposed
}

func dial(t *testing.T, p *Panel) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(p.URL(), "http") + strings.TrimPrefix(socketPath, "/")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) panel.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	var msg panel.Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("failed to decode %s: %v", payload, err)
	}
	return msg
}

func TestPage_EmbedsRendererAndSocket(t *testing.T) {
	p, _ := openTestPanel(t, nil)
	resp, err := http.Get(p.URL())
	if err != nil {
		t.Fatalf("GET page: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{canvasConfettiURL, "Confetti Display", "testPop", "flourish-confetti/"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("page is missing %q", want)
		}
	}

	missing, err := http.Get(p.URL() + "nope")
	if err != nil {
		t.Fatalf("GET missing: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", missing.StatusCode)
	}
}

func TestSocket_SettingsOnConnectThenResolvedEmissions(t *testing.T) {
	p, _ := openTestPanel(t, nil)
	if err := p.Post(panel.UpdateSettings(emission.Partial{ParticleCount: emission.Ptr(42)})); err != nil {
		t.Fatalf("Post before connect: %v", err)
	}

	conn := dial(t, p)
	hello := readMessage(t, conn)
	if hello.Command != panel.CommandUpdateSettings || hello.Settings == nil || *hello.Settings.ParticleCount != 42 {
		t.Fatalf("hello=%+v, want full settings with count 42", hello)
	}
	if p.Clients() != 1 {
		t.Fatalf("clients=%d, want 1", p.Clients())
	}

	if err := p.Post(panel.Trigger()); err != nil {
		t.Fatalf("Post trigger: %v", err)
	}
	msg := readMessage(t, conn)
	if msg.Command != panel.CommandTriggerConfetti || msg.Emission == nil {
		t.Fatalf("msg=%+v, want triggerConfetti with an emission", msg)
	}
	if msg.Emission.ParticleCount != 42 {
		t.Fatalf("particleCount=%d, want 42", msg.Emission.ParticleCount)
	}

	if err := p.Post(panel.UpdateSettings(emission.Partial{Spread: emission.Ptr(99.0)})); err != nil {
		t.Fatalf("Post update: %v", err)
	}
	msg = readMessage(t, conn)
	if msg.Command != panel.CommandUpdateSettings || *msg.Settings.Spread != 99 || msg.Settings.ParticleCount != nil {
		t.Fatalf("msg=%+v, want the partial update forwarded as is", msg)
	}
}

func TestSocket_InboundMessagesReachEvents(t *testing.T) {
	events := make(chan panel.Envelope, 4)
	p, _ := openTestPanel(t, events)
	conn := dial(t, p)
	readMessage(t, conn)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"command":"bogus"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"command":"testPop"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case env := <-events:
		if env.From != panel.KindDisplay || env.ID != 7 || env.Msg.Command != panel.CommandTestPop {
			t.Fatalf("envelope=%+v", env)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no envelope received")
	}
}

func TestDispose_ClosesPagesAndReportsOnce(t *testing.T) {
	p, disposed := openTestPanel(t, nil)
	conn := dial(t, p)
	readMessage(t, conn)

	p.Dispose()
	p.Dispose()
	if *disposed != 1 {
		t.Fatalf("disposed=%d, want 1", *disposed)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected the connection to be closed")
	}
	if err := p.Post(panel.Trigger()); !errors.Is(err, panel.ErrAlreadyDisposed) {
		t.Fatalf("err=%v, want ErrAlreadyDisposed", err)
	}
}

func TestPost_Unsupported(t *testing.T) {
	p, _ := openTestPanel(t, nil)
	if err := p.Post(panel.Message{Command: "explode"}); !errors.Is(err, panel.ErrUnsupported) {
		t.Fatalf("err=%v, want ErrUnsupported", err)
	}
}

func TestReveal_PassesURL(t *testing.T) {
	var got string
	p, err := Open(1, nil, Options{OnReveal: func(url string) { got = url }})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Dispose()
	p.Reveal()
	if got != p.URL() {
		t.Fatalf("revealed %q, want %q", got, p.URL())
	}
}

func TestUpdate_PopKeyAsksHost(t *testing.T) {
	p, _ := openTestPanel(t, nil)

	if cmd := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}); cmd != nil {
		t.Fatalf("other keys should be ignored")
	}
	cmd := p.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	env, ok := cmd().(panel.Envelope)
	if !ok {
		t.Fatalf("expected panel.Envelope")
	}
	if env.From != panel.KindDisplay || env.ID != 7 || env.Msg.Command != panel.CommandTestPop {
		t.Fatalf("envelope=%+v", env)
	}

	p.Dispose()
	if cmd := p.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}); cmd != nil {
		t.Fatalf("disposed panel still sends")
	}
}
