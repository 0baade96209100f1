// Package app runs handcam: it feeds sensor frames through the interpreter
// and applies the resulting intents to the camera host.
package app

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"

	"github.com/ayusman/handcam/internal/camera"
	"github.com/ayusman/handcam/internal/config"
	"github.com/ayusman/handcam/internal/intent"
	"github.com/ayusman/handcam/internal/interpreter"
	"github.com/ayusman/handcam/internal/sensor"
	"github.com/ayusman/handcam/internal/store"
)

// Event kinds recorded besides the discrete intent kinds.
const (
	EventSettings = "settings"
)

// Config holds the collaborators of the application.
type Config struct {
	Store  *store.Store
	Source sensor.Source
	Host   camera.Host
	// Defaults are the settings used for keys the store has no value for.
	Defaults config.Settings
}

// Status is a snapshot of what the application is doing.
type Status struct {
	Enabled         bool          `json:"enabled"`
	Running         bool          `json:"running"`
	SensorConnected bool          `json:"sensor_connected"`
	Host            camera.Status `json:"host"`
	Hands           int           `json:"hands"`
	Sensitivity     float64       `json:"sensitivity"`
	StillFrames     int           `json:"still_frames"`
	Frames          int64         `json:"frames"`
	LastAction      string        `json:"last_action,omitempty"`
}

// Update is published for every frame that reached the interpreter.
type Update struct {
	FrameID int64           `json:"frame_id"`
	Hands   int             `json:"hands"`
	Intents []intent.Intent `json:"intents"`
}

// App owns the frame loop. Settings and status may be read and changed from
// any goroutine; frames are interpreted on the pipeline goroutine only.
type App struct {
	config Config
	interp *interpreter.Interpreter

	mu         sync.RWMutex
	settings   config.Settings
	enabled    bool
	running    bool
	hostStatus camera.Status
	hands      int
	still      int
	frames     int64
	lastAction string
	listeners  []func(Update)

	done chan struct{}
}

// New creates an enabled App. Call LoadSettings before Start to pick up the
// stored settings.
func New(cfg Config) *App {
	return &App{
		config:   cfg,
		interp:   interpreter.New(),
		settings: cfg.Defaults,
		enabled:  true,
	}
}

// LoadSettings overlays the stored settings on the defaults and pushes the
// gesture thresholds to the sensor.
func (a *App) LoadSettings() ([]config.Diagnostic, error) {
	s := a.config.Defaults
	var diags []config.Diagnostic

	if a.config.Store != nil {
		stored, err := a.config.Store.Settings().All()
		if err != nil {
			return nil, err
		}
		s, diags = config.ApplyForm(s, config.Form(stored))
	}

	a.mu.Lock()
	a.settings = s
	a.mu.Unlock()

	for _, d := range diags {
		log.Printf("Stored setting ignored: %s", d)
	}
	return diags, a.configureSource(s)
}

// ApplySettings applies user-entered values on top of the current settings,
// saves the result and reconfigures the sensor. Values that could not be
// taken keep their previous value and are reported as diagnostics.
func (a *App) ApplySettings(form config.Form) (config.Settings, []config.Diagnostic, error) {
	a.mu.Lock()
	s, diags := config.ApplyForm(a.settings, form)
	a.settings = s
	a.mu.Unlock()

	for _, d := range diags {
		log.Println(d)
	}

	if err := a.configureSource(s); err != nil {
		return s, diags, err
	}
	if a.config.Store != nil {
		if err := a.config.Store.Settings().SetAll(s.Form()); err != nil {
			return s, diags, err
		}
	}

	a.record(EventSettings, "Settings saved.")
	return s, diags, nil
}

func (a *App) configureSource(s config.Settings) error {
	if a.config.Source == nil {
		return nil
	}
	return a.config.Source.Configure(s.Thresholds)
}

// Settings returns the current settings snapshot.
func (a *App) Settings() config.Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings
}

// SetEnabled enables or disables camera control. Frames keep being read
// while disabled but are not interpreted.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	a.mu.Unlock()

	if !changed {
		return
	}
	if enabled {
		log.Println("Camera control enabled")
	} else {
		log.Println("Camera control disabled")
	}
}

// IsEnabled returns whether camera control is enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnUpdate registers fn to be called with each interpreted frame. fn runs on
// the pipeline goroutine and must not block.
func (a *App) OnUpdate(fn func(Update)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// Start starts the sensor and the pipeline.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return nil
	}
	if a.config.Source == nil || a.config.Host == nil {
		return errors.New("app needs a sensor source and a camera host")
	}

	if err := a.config.Source.Start(ctx); err != nil {
		return err
	}

	a.running = true
	a.done = make(chan struct{})
	go a.runPipeline(a.config.Source.Frames(), a.done)

	log.Println("Camera control started")
	return nil
}

// Stop closes the sensor, waits for the pipeline to drain and saves the
// sensitivity, which circle gestures may have changed.
func (a *App) Stop() {
	a.mu.Lock()
	done := a.done
	a.done = nil
	a.mu.Unlock()

	if a.config.Source != nil {
		if err := a.config.Source.Close(); err != nil {
			log.Printf("Error closing sensor: %v", err)
		}
	}
	if done != nil {
		<-done
	}

	if a.config.Store != nil {
		s := a.Settings()
		value := strconv.FormatFloat(s.Sensitivity, 'f', -1, 64)
		if err := a.config.Store.Settings().Set(config.KeySensitivity, value); err != nil {
			log.Printf("Error saving sensitivity: %v", err)
		}
	}

	log.Println("Camera control stopped")
}

// Done is closed when the pipeline has stopped, either through Stop or
// because the sensor ran out of frames. It is nil before Start.
func (a *App) Done() <-chan struct{} {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.done
}

// Status returns a snapshot of the application state.
func (a *App) Status() Status {
	a.mu.RLock()
	st := Status{
		Enabled:     a.enabled,
		Running:     a.running,
		Host:        a.hostStatus,
		Hands:       a.hands,
		StillFrames: a.still,
		Sensitivity: a.settings.Sensitivity,
		Frames:      a.frames,
		LastAction:  a.lastAction,
	}
	a.mu.RUnlock()

	if a.config.Source != nil {
		st.SensorConnected = a.config.Source.Connected()
	}
	return st
}

// Host returns the camera host.
func (a *App) Host() camera.Host {
	return a.config.Host
}

// Store returns the store, which may be nil.
func (a *App) Store() *store.Store {
	return a.config.Store
}

// record logs a user-visible action and appends it to the event log.
func (a *App) record(kind, message string) {
	log.Println(message)

	a.mu.Lock()
	a.lastAction = message
	a.mu.Unlock()

	if a.config.Store == nil {
		return
	}
	if err := a.config.Store.Events().Create(&store.Event{Kind: kind, Message: message}); err != nil {
		log.Printf("Error recording event: %v", err)
	}
}
