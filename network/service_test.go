package network

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lixenwraith/turret/components"
	"github.com/lixenwraith/turret/engine"
	"github.com/lixenwraith/turret/status"
	"github.com/lixenwraith/turret/vmath"
)

func newTestService(t *testing.T, mutate func(*Config)) (*Service, *httptest.Server, *status.Registry) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.FrameEvery = 1
	if mutate != nil {
		mutate(cfg)
	}
	reg := status.NewRegistry()
	svc := NewService(cfg, reg, func() string { return "session-1" })
	srv := httptest.NewServer(svc.Router())
	t.Cleanup(func() {
		svc.Stop()
		srv.Close()
	})
	return svc, srv, reg
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	return data
}

func TestServiceWelcome(t *testing.T) {
	svc, srv, _ := newTestService(t, nil)
	conn := dial(t, srv)

	var w Welcome
	if err := msgpack.Unmarshal(readMessage(t, conn), &w); err != nil {
		t.Fatalf("Unmarshal welcome: %v", err)
	}
	if w.Type != MsgWelcome || w.Session != "session-1" || w.PeerID == 0 {
		t.Errorf("welcome = %+v", w)
	}
	if svc.PeerCount() != 1 {
		t.Errorf("PeerCount = %d, want 1", svc.PeerCount())
	}
}

func TestServiceBroadcastsFrames(t *testing.T) {
	svc, srv, reg := newTestService(t, nil)
	conn := dial(t, srv)
	readMessage(t, conn) // welcome

	snap := engine.Snapshot{
		Tick:   42,
		State:  engine.StateRunning,
		Score:  300,
		Bounds: engine.Bounds{Width: 640, Height: 480},
		Player: components.NewPlayer(vmath.Vec2{X: 320, Y: 240}, 20),
		Enemies: []components.EnemyComponent{
			{ID: 7, Pos: vmath.Vec2{X: 10, Y: 20}, Radius: 4},
		},
	}
	svc.Render(snap)

	f, err := DecodeFrame(readMessage(t, conn))
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if f.Tick != 42 || f.Score != 300 || f.State != "Running" {
		t.Errorf("frame = tick %d score %d state %s", f.Tick, f.Score, f.State)
	}
	if f.Player == nil || f.Player.X != 320 {
		t.Errorf("player = %+v", f.Player)
	}
	if len(f.Enemies) != 1 || f.Enemies[0].ID != 7 {
		t.Errorf("enemies = %+v", f.Enemies)
	}
	if got := reg.Ints.Get("net.frames").Load(); got != 1 {
		t.Errorf("net.frames = %d, want 1", got)
	}
}

func TestServiceFrameEvery(t *testing.T) {
	svc, srv, reg := newTestService(t, func(c *Config) { c.FrameEvery = 3 })
	conn := dial(t, srv)
	readMessage(t, conn)

	for i := 1; i <= 6; i++ {
		svc.Render(engine.Snapshot{Tick: uint64(i)})
	}

	for _, want := range []uint64{3, 6} {
		f, err := DecodeFrame(readMessage(t, conn))
		if err != nil {
			t.Fatalf("DecodeFrame() error = %v", err)
		}
		if f.Tick != want {
			t.Errorf("tick = %d, want %d", f.Tick, want)
		}
	}
	if got := reg.Ints.Get("net.frames").Load(); got != 2 {
		t.Errorf("net.frames = %d, want 2", got)
	}
}

func TestServiceRenderWithoutPeers(t *testing.T) {
	svc, _, reg := newTestService(t, nil)
	svc.Render(engine.Snapshot{Tick: 1})
	if got := reg.Ints.Get("net.frames").Load(); got != 0 {
		t.Errorf("net.frames = %d, want 0", got)
	}
}

func TestServiceMaxPeers(t *testing.T) {
	_, srv, _ := newTestService(t, func(c *Config) { c.MaxPeers = 1 })
	first := dial(t, srv)
	readMessage(t, first)

	second := dial(t, srv)
	second.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := second.ReadMessage()

	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) || closeErr.Code != websocket.CloseTryAgainLater {
		t.Errorf("second peer error = %v, want close %d", err, websocket.CloseTryAgainLater)
	}
}

func TestServiceStats(t *testing.T) {
	_, srv, reg := newTestService(t, nil)
	reg.Ints.Get(status.MetricScore).Store(500)

	resp, err := http.Get(srv.URL + "/stats")
	if err != nil {
		t.Fatalf("GET /stats: %v", err)
	}
	defer resp.Body.Close()

	var stats map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if got, ok := stats[status.MetricScore].(float64); !ok || got != 500 {
		t.Errorf("stats[%s] = %v, want 500", status.MetricScore, stats[status.MetricScore])
	}
}

func TestServiceHealth(t *testing.T) {
	_, srv, _ := newTestService(t, nil)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestServiceStartStop(t *testing.T) {
	cfg := DebugConfig("127.0.0.1:0")
	svc := NewService(cfg, status.NewRegistry(), func() string { return "" })

	if err := svc.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	addr := svc.Addr()
	if addr == "" {
		t.Fatal("Addr() empty after Start")
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()

	if err := svc.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if svc.Addr() != "" {
		t.Error("Addr() should be empty after Stop")
	}
	if err := svc.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestServiceDisabledWithoutAddress(t *testing.T) {
	svc := NewService(DefaultConfig(), status.NewRegistry(), func() string { return "" })
	if err := svc.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if svc.Addr() != "" {
		t.Error("server should not bind without an address")
	}
}
