package sensor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const replayInput = `# two frames and a broken line
{"id":1,"timestamp":1000,"fps":100,"hands":[{"id":5,"grab_strength":0.1,"extended_fingers":5}]}

not json
{"id":2,"timestamp":11000,"fps":100,"hands":[],"gestures":[{"type":"circle","state":"stop","progress":0.1,"radius":20},{"type":"circle","state":"stop","progress":1,"radius":20}]}
`

func collect(t *testing.T, frames <-chan Frame) []Frame {
	t.Helper()
	var out []Frame
	timeout := time.After(2 * time.Second)
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				return out
			}
			out = append(out, f)
		case <-timeout:
			t.Fatal("timed out waiting for frames")
		}
	}
}

func TestReplaySource_Playback(t *testing.T) {
	src := NewReplaySource(strings.NewReader(replayInput), false)
	src.Configure(DefaultThresholds())

	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer src.Close()

	frames := collect(t, src.Frames())
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}

	if frames[0].HandCount() != 1 || frames[0].Hands[0].ExtendedFingers != 5 {
		t.Errorf("unexpected first frame: %+v", frames[0])
	}
	if frames[1].FramesPerSecond != 100 {
		t.Errorf("expected fps 100, got %f", frames[1].FramesPerSecond)
	}
	if len(frames[1].Gestures) != 1 {
		t.Errorf("expected thresholds to drop the short circle, got %d gestures", len(frames[1].Gestures))
	}

	if !src.Connected() {
		t.Error("expected source to stay connected until closed")
	}
	if err := src.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestReplaySource_Realtime(t *testing.T) {
	input := `{"id":1,"fps":50}
{"id":2,"fps":50}
{"id":3,"fps":50}
`
	src := NewReplaySource(strings.NewReader(input), true)
	start := time.Now()
	src.Start(context.Background())
	defer src.Close()

	frames := collect(t, src.Frames())
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("expected paced playback, finished in %v", elapsed)
	}
}

func TestReplaySource_CloseStopsPlayback(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 100; i++ {
		b.WriteString(`{"id":1,"fps":10}` + "\n")
	}

	src := NewReplaySource(strings.NewReader(b.String()), true)
	src.Start(context.Background())
	<-src.Frames()

	done := make(chan struct{})
	go func() {
		src.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not stop playback")
	}
	if src.Connected() {
		t.Error("expected source to disconnect on close")
	}
}

func TestReplaySource_CloseBeforeStart(t *testing.T) {
	src := NewReplaySource(strings.NewReader(""), false)
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestOpenReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(replayInput), 0644); err != nil {
		t.Fatalf("failed to write recording: %v", err)
	}

	t.Run("plays and closes the file", func(t *testing.T) {
		src, err := OpenReplay(path, false)
		if err != nil {
			t.Fatalf("OpenReplay() error = %v", err)
		}
		f := src.closer.(*os.File)

		src.Start(context.Background())
		if frames := collect(t, src.Frames()); len(frames) != 2 {
			t.Errorf("expected 2 frames, got %d", len(frames))
		}

		if err := src.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if err := f.Close(); !errors.Is(err, os.ErrClosed) {
			t.Errorf("expected recording to be closed, second Close() = %v", err)
		}
		if err := src.Close(); err != nil {
			t.Errorf("repeated Close() error = %v", err)
		}
	})

	t.Run("closes the file without playback", func(t *testing.T) {
		src, err := OpenReplay(path, false)
		if err != nil {
			t.Fatalf("OpenReplay() error = %v", err)
		}
		f := src.closer.(*os.File)
		src.Close()
		if err := f.Close(); !errors.Is(err, os.ErrClosed) {
			t.Errorf("expected recording to be closed, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := OpenReplay(filepath.Join(t.TempDir(), "none.jsonl"), false); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("OpenReplay() error = %v, want %v", err, os.ErrNotExist)
		}
	})
}
