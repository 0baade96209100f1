package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ayusman/handcam/internal/app"
	"github.com/ayusman/handcam/internal/camera"
	"github.com/ayusman/handcam/internal/capture"
	"github.com/ayusman/handcam/internal/config"
	"github.com/ayusman/handcam/internal/detector"
	"github.com/ayusman/handcam/internal/plugin"
	"github.com/ayusman/handcam/internal/sensor"
	"github.com/ayusman/handcam/internal/sensor/webcam"
	"github.com/ayusman/handcam/internal/server"
	"github.com/ayusman/handcam/internal/store"
	"github.com/ayusman/handcam/internal/tray"
)

func main() {
	var (
		dbPath     = flag.String("db", "", "SQLite database path (default ~/.handcam/handcam.db)")
		configPath = flag.String("config", "", "YAML file with settings to use until changed through the API")
		sourceKind = flag.String("source", "leap", "hand-tracking source: leap, webcam or replay")
		leapURL    = flag.String("leap-url", sensor.DefaultLeapURL, "tracking service WebSocket URL")
		cameraID   = flag.Int("camera", 0, "webcam device for -source webcam")
		replayPath = flag.String("replay", "", "recorded frames (JSON lines) for -source replay")
		realtime   = flag.Bool("realtime", true, "play recordings at their recorded frame rate")
		bridgeName = flag.String("bridge", "", "camera bridge plugin to drive (default: in-memory viewer)")
		pluginDir  = flag.String("plugins", "", "bridge plugin directory (default ~/.handcam/plugins)")
		addr       = flag.String("addr", "127.0.0.1:8080", "HTTP listen address, empty to disable")
		staticDir  = flag.String("static", "", "directory of static files to serve")
		useTray    = flag.Bool("tray", false, "show a system tray menu")
	)
	flag.Parse()

	fmt.Println("handcam - hand-tracking camera control")

	dataDir, err := ensureDataDir()
	if err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	if *dbPath == "" {
		*dbPath = filepath.Join(dataDir, "handcam.db")
	}
	if *pluginDir == "" {
		*pluginDir = filepath.Join(dataDir, "plugins")
	}

	st, err := store.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	defaults := config.Defaults()
	if *configPath != "" {
		s, diags, err := config.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		for _, d := range diags {
			log.Println(d)
		}
		defaults = s
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := newSource(*sourceKind, *leapURL, *cameraID, *replayPath, *realtime, defaults.Thresholds)
	if err != nil {
		log.Fatalf("Failed to create sensor source: %v", err)
	}

	host, closeHost, err := newHost(ctx, *bridgeName, *pluginDir)
	if err != nil {
		log.Fatalf("Failed to attach camera host: %v", err)
	}
	defer closeHost()

	a := app.New(app.Config{Store: st, Source: src, Host: host, Defaults: defaults})
	if _, err := a.LoadSettings(); err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if err := a.Start(ctx); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	if *staticDir == "" {
		*staticDir = findWebDir(dataDir)
	}
	if *staticDir != "" {
		fmt.Printf("Serving static files from: %s\n", *staticDir)
	}

	srv := server.New(server.Config{StaticDir: *staticDir, Store: st, App: a})
	defer srv.Close()
	if *addr != "" {
		fmt.Printf("Starting server on %s\n", *addr)
		go func() {
			if err := srv.ListenAndServe(*addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Server failed: %v", err)
			}
		}()
	}

	if *useTray {
		runTray(ctx, stop, a, *addr)
	} else {
		select {
		case <-ctx.Done():
		case <-a.Done():
			log.Println("Sensor source finished")
		}
	}

	a.Stop()
}

// newSource creates the hand-tracking source selected on the command line.
func newSource(kind, leapURL string, cameraID int, replayPath string, realtime bool, th sensor.Thresholds) (sensor.Source, error) {
	switch kind {
	case "leap":
		return sensor.NewLeapSource(leapURL, th), nil

	case "replay":
		if replayPath == "" {
			return nil, errors.New("-source replay needs -replay")
		}
		src, err := sensor.OpenReplay(replayPath, realtime)
		if err != nil {
			return nil, err
		}
		return src, nil

	case "webcam":
		camCfg := capture.DefaultConfig()
		camCfg.DeviceID = cameraID

		var det detector.Detector
		if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
			det = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			det = detector.NewMockDetector()
		}
		return webcam.NewSource(capture.NewCamera(camCfg), det, th), nil
	}
	return nil, fmt.Errorf("unknown source %q", kind)
}

// newHost attaches to the named bridge plugin, or to an in-memory host when
// no bridge is named.
func newHost(ctx context.Context, bridge, pluginDir string) (camera.Host, func(), error) {
	if bridge == "" {
		log.Println("No bridge selected, using the in-memory viewer")
		return camera.NewSimHost(), func() {}, nil
	}

	mgr := plugin.NewManager(pluginDir)
	if err := mgr.Discover(); err != nil {
		return nil, nil, err
	}
	p, err := mgr.Get(bridge)
	if err != nil {
		return nil, nil, fmt.Errorf("%s in %s: %w", bridge, pluginDir, err)
	}

	b, err := plugin.StartBridge(ctx, p, plugin.DefaultCallTimeout)
	if err != nil {
		return nil, nil, err
	}
	closeBridge := func() {
		if err := b.Close(); err != nil {
			log.Printf("Bridge exited: %v", err)
		}
	}
	return camera.NewBridgeHost(b), closeBridge, nil
}

// runTray shows the tray menu until Quit is chosen or ctx is cancelled.
func runTray(ctx context.Context, cancel context.CancelFunc, a *app.App, addr string) {
	tr := tray.New(tray.Handlers{
		Toggle: a.SetEnabled,
		Settings: func() {
			if addr == "" {
				log.Println("Settings are only available with -addr")
				return
			}
			openBrowser("http://" + addr + "/")
		},
		Quit: cancel,
	}, a.IsEnabled())

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				tr.Quit()
				return
			case <-ticker.C:
				tr.Update(a.Status())
			}
		}
	}()

	tr.Run()
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Open %s in a browser: %v", url, err)
	}
}

// ensureDataDir returns ~/.handcam, creating it if needed.
func ensureDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(homeDir, ".handcam")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if absPath, err := filepath.Abs(p); err == nil {
				return absPath
			}
			return p
		}
	}
	return ""
}
