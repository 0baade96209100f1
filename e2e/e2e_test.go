package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/handcam/internal/app"
	"github.com/ayusman/handcam/internal/camera"
	"github.com/ayusman/handcam/internal/config"
	"github.com/ayusman/handcam/internal/server"
	"github.com/ayusman/handcam/internal/store"
	"github.com/ayusman/handcam/testdata"
)

type session struct {
	app   *app.App
	host  *camera.SimHost
	store *store.Store
	ts    *httptest.Server
}

// play runs a recording through a fresh application to the end of the
// recording and returns it with the API still being served.
func play(t *testing.T, recording string) *session {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	src, err := testdata.Replay(recording)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	host := camera.NewSimHost()
	a := app.New(app.Config{Store: s, Source: src, Host: host, Defaults: config.Defaults()})
	if _, err := a.LoadSettings(); err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	srv := server.New(server.Config{Store: s, App: a})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	t.Cleanup(srv.Close)

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	select {
	case <-a.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("recording did not finish")
	}
	a.Stop()

	return &session{app: a, host: host, store: s, ts: ts}
}

func (s *session) events(t *testing.T) []string {
	t.Helper()

	resp, err := s.ts.Client().Get(s.ts.URL + "/api/events?limit=0")
	if err != nil {
		t.Fatalf("GET /api/events error = %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Events []store.Event `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode events: %v", err)
	}

	// Oldest first reads like the session.
	msgs := make([]string, len(body.Events))
	for i, e := range body.Events {
		msgs[len(msgs)-1-i] = e.Message
	}
	return msgs
}

func (s *session) status(t *testing.T) app.Status {
	t.Helper()

	resp, err := s.ts.Client().Get(s.ts.URL + "/api/status")
	if err != nil {
		t.Fatalf("GET /api/status error = %v", err)
	}
	defer resp.Body.Close()

	var st app.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	return st
}

func TestE2E_ResetPose(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s := play(t, testdata.Reset)

	if s.host.Homes() != 1 {
		t.Errorf("expected exactly one home reset, got %d", s.host.Homes())
	}

	msgs := s.events(t)
	if len(msgs) != 1 || msgs[0] != "Camera set to HOME." {
		t.Errorf("unexpected events %q", msgs)
	}

	st := s.status(t)
	if st.Frames != 25 {
		t.Errorf("expected 25 frames, got %d", st.Frames)
	}
	if st.StillFrames != 3 {
		t.Errorf("expected 3 still frames after the reset, got %d", st.StillFrames)
	}
}

func TestE2E_Gestures(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s := play(t, testdata.Swipes)

	want := []string{
		"View rotated by 90' LEFT.",
		"View rotated by 90' UP.",
		"Sensitivity increased by 0.1.",
	}
	msgs := s.events(t)
	if strings.Join(msgs, "|") != strings.Join(want, "|") {
		t.Errorf("events = %q, want %q", msgs, want)
	}

	if s.host.Commits(camera.Animated) != 2 {
		t.Errorf("expected 2 animated commits, got %d", s.host.Commits(camera.Animated))
	}

	left, _ := camera.SnapRotate(camera.HomePose, camera.Left)
	both, _ := camera.SnapRotate(left, camera.Up)
	p, _ := s.host.Pose()
	if !p.ApproxEqual(both, 1e-9) {
		t.Errorf("pose = %v, want %v", p, both)
	}

	if st := s.status(t); st.Sensitivity != 0.6 {
		t.Errorf("expected sensitivity 0.6, got %v", st.Sensitivity)
	}
	stored, err := s.store.Settings().Get(config.KeySensitivity)
	if err != nil || stored != "0.6" {
		t.Errorf("expected sensitivity saved on stop, got %q, %v", stored, err)
	}
}

func TestE2E_OrbitAndZoom(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s := play(t, testdata.Orbit)

	if s.host.Commits(camera.Instant) != 7 {
		t.Errorf("expected 7 instant commits, got %d", s.host.Commits(camera.Instant))
	}
	if s.host.Commits(camera.Animated) != 0 {
		t.Errorf("expected no animated commits, got %d", s.host.Commits(camera.Animated))
	}

	want := camera.HomePose
	for i := 0; i < 5; i++ {
		want = camera.Orbit(want, -0.03, 0, 0)
	}
	p, _ := s.host.Pose()
	if !p.ApproxEqual(want, 1e-6) {
		t.Errorf("pose = %v, want %v", p, want)
	}

	e, _ := s.host.Extents()
	if e.Width != 390 || e.Height != 292.5 {
		t.Errorf("extents = %+v, want 390x292.5", e)
	}

	if msgs := s.events(t); len(msgs) != 0 {
		t.Errorf("continuous moves should not be logged, got %q", msgs)
	}
}

func TestE2E_SettingsRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s := play(t, testdata.Orbit)
	client := s.ts.Client()

	req, _ := http.NewRequest(http.MethodPut, s.ts.URL+"/api/settings",
		strings.NewReader(`{"dead_zone_z": "-70", "reset_wait_seconds": "three"}`))
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("PUT /api/settings error = %v", err)
	}
	var body struct {
		Settings    config.Settings     `json:"settings"`
		Diagnostics []config.Diagnostic `json:"diagnostics"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()

	if body.Settings.DeadZoneZ != 70 {
		t.Errorf("expected dead zone z 70, got %v", body.Settings.DeadZoneZ)
	}
	if body.Settings.ResetWaitSeconds != config.Defaults().ResetWaitSeconds {
		t.Errorf("expected reset wait kept, got %v", body.Settings.ResetWaitSeconds)
	}
	if len(body.Diagnostics) != 2 {
		t.Errorf("expected 2 diagnostics, got %v", body.Diagnostics)
	}

	// A fresh application on the same store starts from the saved values.
	b := app.New(app.Config{Store: s.store, Defaults: config.Defaults()})
	if _, err := b.LoadSettings(); err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if b.Settings().DeadZoneZ != 70 {
		t.Errorf("expected saved dead zone z 70, got %v", b.Settings().DeadZoneZ)
	}
}
