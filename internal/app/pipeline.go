package app

import (
	"log"

	"github.com/ayusman/handcam/internal/config"
	"github.com/ayusman/handcam/internal/intent"
	"github.com/ayusman/handcam/internal/sensor"
)

// runPipeline consumes frames until the source closes its channel.
//
// Per frame:
// 1. Re-probe the host
// 2. Skip the frame while disabled, the sensor is disconnected or no
//    document is open. A skipped frame breaks the frame history, so the
//    reset pose has to be held again from scratch.
// 3. Interpret the frame under the current settings snapshot
// 4. Apply the intents in order, discrete ones first
// 5. Publish the frame's intents to listeners
func (a *App) runPipeline(frames <-chan sensor.Frame, done chan struct{}) {
	defer close(done)
	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	for f := range frames {
		a.processFrame(f)
	}
}

// processFrame runs one frame through the interpreter and onto the host. It
// returns the intents that were applied.
func (a *App) processFrame(f sensor.Frame) []intent.Intent {
	hostStatus := a.config.Host.Probe()
	connected := a.config.Source.Connected()

	a.mu.Lock()
	a.hostStatus = hostStatus
	a.hands = f.HandCount()
	a.frames++
	enabled := a.enabled
	settings := a.settings
	a.mu.Unlock()

	if !enabled || !connected || !hostStatus.Available() {
		a.interp.Reset()
		a.mu.Lock()
		a.still = 0
		a.mu.Unlock()
		return nil
	}

	intents := a.interp.Process(f, settings)

	for _, in := range intents {
		if in.Kind == intent.KindSensitivityDelta {
			a.adjustSensitivity(in.Delta)
		} else if err := in.Apply(a.config.Host); err != nil {
			log.Printf("Error applying %s: %v", in.Kind, err)
			continue
		}
		if in.Discrete() {
			a.record(string(in.Kind), in.Message())
		}
	}

	a.mu.Lock()
	a.still = a.interp.StillFrames()
	listeners := a.listeners
	a.mu.Unlock()

	u := Update{FrameID: f.ID, Hands: f.HandCount(), Intents: intents}
	for _, fn := range listeners {
		fn(u)
	}
	return intents
}

func (a *App) adjustSensitivity(delta float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settings.Sensitivity = config.AdjustSensitivity(a.settings.Sensitivity, delta)
}
