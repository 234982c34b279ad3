package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	h := NewHub(time.Second, quietLogger())
	srv := httptest.NewServer(Routes(h, "/ws"))
	t.Cleanup(func() {
		h.Close()
		srv.Close()
	})

	return h, srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", h.Clients(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcast(t *testing.T) {
	h, srv := newTestServer(t)

	conns := make([]*websocket.Conn, 2)
	for i := range conns {
		c, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		defer c.Close()
		conns[i] = c
	}
	waitClients(t, h, 2)

	sent, err := h.Broadcast("display", map[string]float64{"vu": 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if sent != 2 {
		t.Fatalf("sent = %d, want 2", sent)
	}

	for i, c := range conns {
		_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := c.ReadMessage()
		if err != nil {
			t.Fatalf("client %d: %v", i, err)
		}

		var msg struct {
			Type string             `json:"type"`
			Data map[string]float64 `json:"data"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("client %d: %v", i, err)
		}
		if msg.Type != "display" || msg.Data["vu"] != 0.5 {
			t.Fatalf("client %d got %s", i, data)
		}
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	h, srv := newTestServer(t)

	c, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatal(err)
	}
	waitClients(t, h, 1)

	_ = c.Close()
	waitClients(t, h, 0)

	if sent, err := h.Broadcast("display", 1); err != nil || sent != 0 {
		t.Fatalf("Broadcast after disconnect = %d, %v", sent, err)
	}
}

func TestBroadcastMarshalError(t *testing.T) {
	h := NewHub(time.Second, quietLogger())
	if _, err := h.Broadcast("bad", func() {}); err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestOriginCheck(t *testing.T) {
	_, srv := newTestServer(t)

	hdr := http.Header{"Origin": []string{"http://example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), hdr)
	if err == nil {
		t.Fatal("foreign origin was accepted")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("response = %v, want 403", resp)
	}

	hdr = http.Header{"Origin": []string{"http://localhost:3000"}}
	c, _, err := websocket.DefaultDialer.Dial(wsURL(srv), hdr)
	if err != nil {
		t.Fatalf("localhost origin rejected: %v", err)
	}
	_ = c.Close()
}

func TestCloseDisconnectsClients(t *testing.T) {
	h, srv := newTestServer(t)

	c, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	waitClients(t, h, 1)

	h.Close()
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := c.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("read after Close = %v, want normal closure", err)
	}

	c2, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err == nil {
		_ = c2.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := c2.ReadMessage(); err == nil {
			t.Fatal("closed hub kept a new client")
		}
		_ = c2.Close()
	}
}

func TestHealthz(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
