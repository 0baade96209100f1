// Package main is a camera bridge backed by an in-memory host. It speaks
// the handcam bridge protocol on stdin and stdout and logs every committed
// pose to stderr.
package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/ayusman/handcam/internal/camera"
	"github.com/ayusman/handcam/internal/plugin"
)

func main() {
	log.SetPrefix("sim-bridge: ")
	log.SetOutput(os.Stderr)

	host := camera.NewSimHost()

	handler := func(method string, params json.RawMessage) (any, error) {
		result, err := camera.Dispatch(host, method, params)
		if err == nil && method == camera.MethodCommit {
			p, _ := host.Pose()
			log.Printf("Committed %s", p)
		}
		return result, err
	}

	if err := plugin.Serve(os.Stdin, os.Stdout, handler); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
