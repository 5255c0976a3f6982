package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/api"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()

	os.Exit(m.Run())
}

func ptr[T any](v T) *T { return &v }

func smallParams() api.GenerateParams {
	return api.GenerateParams{
		Seed:        ptr(int64(5)),
		Width:       ptr(48.0),
		Height:      ptr(48.0),
		Rooms:       ptr(6),
		MinRoomSize: ptr(4.0),
		MaxRoomSize: ptr(8.0),
		MaxSpacing:  ptr(200.0),
	}
}

func TestSession_Run(t *testing.T) {
	var frames []api.Frame
	s := NewSession("test", func(f api.Frame) { frames = append(frames, f) })

	if _, err := s.Step(1); err != errNoGenerator {
		t.Fatalf("Expected errNoGenerator, got %v", err)
	}

	if err := s.Generate(smallParams()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if err := s.Run(context.Background(), 0); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(frames) < 3 {
		t.Fatalf("Expected at least placement, graph and hallways frames, got %d", len(frames))
	}
	if frames[0].Phase != "placement" {
		t.Errorf("First frame phase = %q, want placement", frames[0].Phase)
	}

	last := frames[len(frames)-1]
	if last.Type != api.FrameTypeDone {
		t.Errorf("Last frame type = %q, want DONE", last.Type)
	}
	if len(last.Map) != 48 || len(last.Map[0]) != 48 {
		t.Errorf("Expected 48x48 map in DONE frame")
	}
	if len(last.Rooms) > 1 && len(last.Hallways) != len(last.Rooms)-1 {
		t.Errorf("Expected %d hallways, got %d", len(last.Rooms)-1, len(last.Hallways))
	}
	for _, f := range frames[:len(frames)-1] {
		if f.Type != api.FrameTypeFrame || f.Map != nil {
			t.Errorf("Intermediate frame %q should be FRAME without map", f.Phase)
		}
	}

	// После завершения шаги ничего не делают
	before := len(frames)
	if done, err := s.Step(5); err != nil || !done {
		t.Errorf("Step() after completion = (%v, %v)", done, err)
	}
	if len(frames) != before {
		t.Errorf("Finished session should not emit frames, got %d more", len(frames)-before)
	}

	summary := s.Summary()
	if !summary.Done || summary.Seed != 5 || summary.Rooms != len(last.Rooms) {
		t.Errorf("Unexpected summary %+v", summary)
	}
	if !strings.Contains(s.ASCII(), "#") {
		t.Error("ASCII map should contain rooms")
	}
}

func TestSession_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	frames := 0
	s := NewSession("test", func(api.Frame) {
		frames++
		cancel()
	})

	if err := s.Run(ctx, 0); err != errNoGenerator {
		t.Fatalf("Expected errNoGenerator, got %v", err)
	}
	if err := s.Generate(smallParams()); err != nil {
		t.Fatal(err)
	}

	err := s.Run(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if frames != 1 {
		t.Errorf("Expected a single step before cancel, got %d", frames)
	}
}

func TestSession_RunStopsWhenGeneratorReplaced(t *testing.T) {
	frames := make(chan api.Frame, 16)
	s := NewSession("test", func(f api.Frame) { frames <- f })
	if err := s.Generate(smallParams()); err != nil {
		t.Fatal(err)
	}

	result := make(chan error, 1)
	go func() { result <- s.Run(context.Background(), 50*time.Millisecond) }()

	<-frames
	if err := s.Generate(smallParams()); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after the generator was replaced")
	}

	if summary := s.Summary(); summary.Phase != "" || summary.Steps != 0 {
		t.Errorf("New generator should be untouched, got %+v", summary)
	}
	if len(frames) != 0 {
		t.Errorf("Expected no frames after replacement, got %d", len(frames))
	}
}

func TestSession_GenerateRejectsInvalidParams(t *testing.T) {
	s := NewSession("test", nil)
	if err := s.Generate(api.GenerateParams{Width: ptr(-1.0)}); err == nil {
		t.Error("Expected validation error")
	}
}

func TestSessions_Registry(t *testing.T) {
	r := NewSessions()
	a := NewSession("a", nil)
	b := NewSession("b", nil)
	b.CreatedAt = a.CreatedAt.Add(time.Second)

	r.Register(b)
	r.Register(a)
	if r.Len() != 2 {
		t.Fatalf("Expected 2 sessions, got %d", r.Len())
	}

	summaries := r.Summaries()
	if summaries[0].ID != "a" || summaries[1].ID != "b" {
		t.Errorf("Summaries should be ordered by creation: %+v", summaries)
	}

	r.Unregister("a")
	if _, ok := r.Get("a"); ok {
		t.Error("Session a should be unregistered")
	}
	if _, ok := r.Get("b"); !ok {
		t.Error("Session b should stay registered")
	}
}

func TestServer_Health(t *testing.T) {
	ts := httptest.NewServer(New("0").Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("Unexpected health response: %d %q", resp.StatusCode, body)
	}
}

func TestServer_WebSocketRun(t *testing.T) {
	srv := New("0")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial error = %v", err)
	}
	defer conn.Close()

	readFrame := func() api.Frame {
		t.Helper()
		var f api.Frame
		if err := conn.SetReadDeadline(time.Now().Add(10 * time.Second)); err != nil {
			t.Fatal(err)
		}
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("ReadJSON error = %v", err)
		}
		return f
	}

	// Шаг до GENERATE - ошибка
	if err := conn.WriteJSON(api.ClientCommand{Action: api.ActionStep}); err != nil {
		t.Fatal(err)
	}
	if f := readFrame(); f.Type != api.FrameTypeError || f.Error == "" {
		t.Errorf("Expected ERROR frame, got %+v", f)
	}

	if err := conn.WriteJSON(api.ClientCommand{Action: "JUMP"}); err != nil {
		t.Fatal(err)
	}
	if f := readFrame(); f.Type != api.FrameTypeError {
		t.Errorf("Expected ERROR for unknown action, got %+v", f)
	}

	payload, _ := json.Marshal(smallParams())
	if err := conn.WriteJSON(api.ClientCommand{Action: api.ActionGenerate, Payload: payload}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(api.ClientCommand{Action: api.ActionRun}); err != nil {
		t.Fatal(err)
	}

	var last api.Frame
	for i := 0; i < 100000; i++ {
		last = readFrame()
		if last.Type != api.FrameTypeFrame {
			break
		}
	}
	if last.Type != api.FrameTypeDone {
		t.Fatalf("Expected DONE frame, got %+v", last)
	}
	if last.Seed != 5 || len(last.Map) != 48 {
		t.Errorf("Unexpected DONE frame: seed %d, %d rows", last.Seed, len(last.Map))
	}

	// Сессия видна в debug-эндпоинте
	resp, err := http.Get(ts.URL + "/debug/sessions")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var summaries []SessionSummary
	if err := json.NewDecoder(resp.Body).Decode(&summaries); err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 || !summaries[0].Done {
		t.Errorf("Expected one finished session, got %+v", summaries)
	}

	mapResp, err := http.Get(ts.URL + "/debug/map?id=" + summaries[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	defer mapResp.Body.Close()
	if mapResp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 for session map, got %d", mapResp.StatusCode)
	}
}

func TestServer_DebugMapNotFound(t *testing.T) {
	ts := httptest.NewServer(New("0").Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/debug/map?id=missing")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
}


// RUN дольше таймаута чтения не рвет соединение: readPump продолжает
// читать сокет и получать pong, пока идет прогон.
func TestServer_WebSocketRunOutlivesReadDeadline(t *testing.T) {
	srv := New("0")
	srv.PongWait = 300 * time.Millisecond
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial error = %v", err)
	}
	defer conn.Close()

	readFrame := func() api.Frame {
		t.Helper()
		var f api.Frame
		if err := conn.SetReadDeadline(time.Now().Add(10 * time.Second)); err != nil {
			t.Fatal(err)
		}
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("ReadJSON error = %v", err)
		}
		return f
	}

	payload, _ := json.Marshal(smallParams())
	if err := conn.WriteJSON(api.ClientCommand{Action: api.ActionGenerate, Payload: payload}); err != nil {
		t.Fatal(err)
	}
	// Минимум четыре шага, значит не меньше трех пауз по 200 мс.
	runPayload, _ := json.Marshal(api.RunPayload{DelayMs: 200})
	if err := conn.WriteJSON(api.ClientCommand{Action: api.ActionRun, Payload: runPayload}); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	for {
		f := readFrame()
		if f.Type == api.FrameTypeDone {
			break
		}
		if f.Type != api.FrameTypeFrame {
			t.Fatalf("Unexpected frame during run: %+v", f)
		}
	}
	if elapsed := time.Since(start); elapsed < srv.PongWait {
		t.Fatalf("Run took %v, expected longer than %v", elapsed, srv.PongWait)
	}

	// Соединение живо: новая генерация отвечает кадром.
	if err := conn.WriteJSON(api.ClientCommand{Action: api.ActionGenerate, Payload: payload}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(api.ClientCommand{Action: api.ActionStep}); err != nil {
		t.Fatal(err)
	}
	if f := readFrame(); f.Type != api.FrameTypeFrame || f.Phase != "placement" {
		t.Errorf("Expected placement frame after run, got %+v", f)
	}
}
