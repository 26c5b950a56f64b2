package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/view360/internal/projection"
	"github.com/relabs-tech/view360/internal/view"
)

type commandRecorder chan Command

func (c commandRecorder) HandleCommand(cmd Command) error {
	c <- cmd
	return nil
}

func testFrame(seq uint64) view.Frame {
	return view.Frame{
		Seq:      seq,
		Viewport: projection.Size{Width: 320, Height: 480},
		Info:     view.Info{Strategy: "raw", Orientation: "portrait", Text: "Angle: 45"},
		Components: []view.Shape{
			{Name: "Qibla", Color: "yellow", Rect: projection.Rect{X: 100, Y: 200, Width: 40, Height: 40}},
		},
	}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients=%d want %d", h.Clients(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) view.Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f view.Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	return f
}

func TestHubBroadcastsFrames(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	a, b := dial(t, srv), dial(t, srv)
	waitClients(t, hub, 2)

	if err := hub.Render(testFrame(7)); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, conn := range []*websocket.Conn{a, b} {
		f := readFrame(t, conn)
		if f.Seq != 7 || len(f.Components) != 1 || f.Components[0].Name != "Qibla" {
			t.Fatalf("got=%+v", f)
		}
	}
}

func TestHubSendsLastFrameOnConnect(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	hub.Render(testFrame(3))
	conn := dial(t, srv)
	if f := readFrame(t, conn); f.Seq != 3 {
		t.Fatalf("seq=%d want 3", f.Seq)
	}
}

func TestHubForwardsCommands(t *testing.T) {
	rec := make(commandRecorder, 1)
	hub := NewHub(rec)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	if err := conn.WriteJSON(Command{Action: "strategy", Index: 3}); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case cmd := <-rec:
		if cmd.Action != "strategy" || cmd.Index != 3 {
			t.Fatalf("got=%+v", cmd)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("command not delivered")
	}
}

func TestHubDropsClientOnClose(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	waitClients(t, hub, 1)
	conn.Close()
	waitClients(t, hub, 0)
}

func TestViewCommands(t *testing.T) {
	frames := make(chan view.Frame, 16)
	v := view.New(view.Options{Viewport: projection.Size{Width: 320, Height: 480}},
		view.SinkFunc(func(f view.Frame) error { frames <- f; return nil }))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go v.Run(ctx)

	vc := ViewCommands{View: v}
	if err := vc.HandleCommand(Command{Action: "strategy", Index: 2}); err != nil {
		t.Fatalf("strategy: %v", err)
	}
	if err := vc.HandleCommand(Command{Action: "strategy", Index: 9}); err == nil {
		t.Fatalf("index 9 accepted")
	}
	if err := vc.HandleCommand(Command{Action: "viewport", Width: 0, Height: 10}); err == nil {
		t.Fatalf("empty viewport accepted")
	}
	if err := vc.HandleCommand(Command{Action: "dance"}); err == nil {
		t.Fatalf("unknown action accepted")
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case f := <-frames:
			if f.Info.Strategy == "yaw_roll_sum" {
				return
			}
		case <-deadline:
			t.Fatalf("strategy never applied")
		}
	}
}

func TestMultiJoinsErrors(t *testing.T) {
	var calls int
	boom := errors.New("boom")
	m := Multi{
		view.SinkFunc(func(view.Frame) error { calls++; return boom }),
		view.SinkFunc(func(view.Frame) error { calls++; return nil }),
	}
	err := m.Render(testFrame(1))
	if calls != 2 {
		t.Fatalf("calls=%d want 2", calls)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v want boom", err)
	}
}

func TestLogSinkThrottles(t *testing.T) {
	var lines []string
	l := &LogSink{
		Interval: time.Second,
		Printf:   func(format string, args ...any) { lines = append(lines, fmt.Sprintf(format, args...)) },
	}
	for i, ms := range []int64{0, 200, 900, 1000, 1500, 2100} {
		f := testFrame(uint64(i))
		f.Stamp = 1_700_000_000_000 + ms
		l.Render(f)
	}
	// 0, 1000 and 2100 pass.
	if len(lines) != 3 {
		t.Fatalf("lines=%d want 3: %q", len(lines), lines)
	}

	f := testFrame(9)
	f.Stamp = 1_700_000_000_000 + 2200
	f.Alert = &view.Alert{Title: "Alert", Message: "offline"}
	l.Render(f)
	if len(lines) != 4 || !strings.Contains(lines[3], "offline") {
		t.Fatalf("alert not printed: %q", lines)
	}
}

func TestDrawPaintsComponents(t *testing.T) {
	img := Draw(testFrame(1))
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 480 {
		t.Fatalf("bounds=%v", img.Bounds())
	}
	if got := img.RGBAAt(120, 220); got != namedColors["yellow"] {
		t.Fatalf("centre=%v want yellow", got)
	}
	if got := img.RGBAAt(101, 201); got != background {
		t.Fatalf("corner=%v want background", got)
	}
	if got := img.RGBAAt(300, 470); got != background {
		t.Fatalf("far pixel=%v want background", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]string{
		"Yellow":  "{255 255 0 255}",
		"#102030": "{16 32 48 255}",
		"#zzz":    "{255 255 255 255}",
		"":        "{255 255 255 255}",
	}
	for in, want := range tests {
		if got := fmt.Sprint(parseColor(in)); got != want {
			t.Fatalf("%q: got=%s want=%s", in, got, want)
		}
	}
}

func TestRasterizerServesPNG(t *testing.T) {
	var r Rasterizer

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/snapshot.png", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("before first frame: code=%d", rec.Code)
	}

	r.Render(testFrame(1))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/snapshot.png", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("code=%d type=%q", rec.Code, rec.Header().Get("Content-Type"))
	}
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 320 {
		t.Fatalf("width=%d", img.Bounds().Dx())
	}
}
