// Package tray provides the system tray interface for handcam.
package tray

import (
	"fmt"
	"sync"

	"github.com/ayusman/handcam/internal/app"
	"github.com/getlantern/systray"
)

// Handlers are the callbacks invoked from tray menu clicks. Nil handlers
// are skipped.
type Handlers struct {
	Toggle   func(enabled bool)
	Settings func()
	Quit     func()
}

// Tray represents the system tray application.
type Tray struct {
	handlers Handlers

	mu      sync.RWMutex
	enabled bool

	menuToggle     *systray.MenuItem
	menuSensor     *systray.MenuItem
	menuHost       *systray.MenuItem
	menuLastAction *systray.MenuItem
}

// New creates a tray whose toggle starts in the given state.
func New(h Handlers, enabled bool) *Tray {
	return &Tray{handlers: h, enabled: enabled}
}

// Run shows the tray icon and blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("handcam")
	systray.SetTooltip("handcam hand-tracking camera control")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle camera control")
	systray.AddSeparator()

	t.menuSensor = systray.AddMenuItem(SensorLine(false), "Hand-tracking sensor")
	t.menuSensor.Disable()
	t.menuHost = systray.AddMenuItem(HostLine(app.Status{}), "3D application")
	t.menuHost.Disable()
	t.menuLastAction = systray.AddMenuItem(LastActionLine(""), "Last camera action")
	t.menuLastAction.Disable()
	systray.AddSeparator()
	t.mu.Unlock()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit handcam")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	t.menuToggle.SetTitle(toggleTitle(enabled))
	t.mu.Unlock()

	if t.handlers.Toggle != nil {
		t.handlers.Toggle(enabled)
	}
}

func (t *Tray) handleSettings() {
	if t.handlers.Settings != nil {
		t.handlers.Settings()
	}
}

func (t *Tray) handleQuit() {
	if t.handlers.Quit != nil {
		t.handlers.Quit()
	}
	systray.Quit()
}

// Update refreshes the status lines from an application snapshot.
func (t *Tray) Update(st app.Status) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuSensor == nil {
		return
	}
	t.menuSensor.SetTitle(SensorLine(st.SensorConnected))
	t.menuHost.SetTitle(HostLine(st))
	t.menuLastAction.SetTitle(LastActionLine(st.LastAction))
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

// SensorLine is the tray line for the sensor connection.
func SensorLine(connected bool) string {
	if connected {
		return "Sensor: connected"
	}
	return "Sensor: not connected"
}

// HostLine is the tray line for the 3D application and the hands in view.
func HostLine(st app.Status) string {
	switch {
	case !st.Host.Started:
		return "Application: not running"
	case !st.Host.Opened:
		return "Application: no document open"
	}
	kind := st.Host.DocKind
	if kind == "" {
		kind = "document"
	}
	return fmt.Sprintf("Application: %s open, %d hands", kind, st.Hands)
}

// LastActionLine is the tray line for the most recent camera action.
func LastActionLine(action string) string {
	if action == "" {
		return "Last: none"
	}
	return "Last: " + action
}
