package plugin

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"sync"
	"time"
)

var (
	// ErrBridgeClosed is returned by calls on a bridge that has exited or
	// been closed.
	ErrBridgeClosed = errors.New("bridge closed")
	// ErrTimeout is returned when a bridge does not answer in time.
	ErrTimeout = errors.New("bridge call timed out")
)

// DefaultCallTimeout bounds a single bridge call.
const DefaultCallTimeout = 2 * time.Second

// Bridge is a connection to a long-running bridge process. Requests and
// responses are JSON lines matched by ID, so calls may come from several
// goroutines.
type Bridge struct {
	w       io.Writer
	writeMu sync.Mutex
	timeout time.Duration
	closer  func() error

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan Response
	closed  bool

	done chan struct{}
}

// NewBridge speaks the bridge protocol over r and w. closer, if not nil, is
// called by Close to stop the other side.
func NewBridge(r io.Reader, w io.Writer, timeout time.Duration, closer func() error) *Bridge {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	b := &Bridge{
		w:       w,
		timeout: timeout,
		closer:  closer,
		pending: make(map[int64]chan Response),
		done:    make(chan struct{}),
	}
	go b.readLoop(r)
	return b
}

// StartBridge launches the plugin's executable and connects to it. The
// process is killed when ctx is cancelled or the bridge is closed.
func StartBridge(ctx context.Context, p *Plugin, timeout time.Duration) (*Bridge, error) {
	cmd := exec.CommandContext(ctx, p.Executable, p.Manifest.Args...)
	cmd.Dir = p.Path

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("bridge stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("bridge stdout: %w", err)
	}
	cmd.Stderr = log.Writer()

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start bridge %s: %w", p.Manifest.Name, err)
	}
	log.Printf("Started bridge %s (pid %d)", p.Manifest.Name, cmd.Process.Pid)

	closer := func() error {
		stdin.Close()
		waitErr := make(chan error, 1)
		go func() { waitErr <- cmd.Wait() }()
		select {
		case err := <-waitErr:
			return err
		case <-time.After(time.Second):
			cmd.Process.Kill()
			return <-waitErr
		}
	}
	return NewBridge(stdout, stdin, timeout, closer), nil
}

func (b *Bridge) readLoop(r io.Reader) {
	defer close(b.done)
	defer b.failPending()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var resp Response
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			log.Printf("bridge: ignoring malformed response: %v", err)
			continue
		}

		b.mu.Lock()
		ch, ok := b.pending[resp.ID]
		delete(b.pending, resp.ID)
		b.mu.Unlock()

		if ok {
			ch <- resp
		}
	}
}

// failPending marks the bridge closed and releases every waiting call.
func (b *Bridge) failPending() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, ch := range b.pending {
		close(ch)
		delete(b.pending, id)
	}
}

// Call invokes method with params and decodes the result into result, which
// may be nil.
func (b *Bridge) Call(method string, params, result any) error {
	req := Request{Method: method}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("marshal %s params: %w", method, err)
		}
		req.Params = data
	}

	ch := make(chan Response, 1)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBridgeClosed
	}
	b.nextID++
	req.ID = b.nextID
	b.pending[req.ID] = ch
	b.mu.Unlock()

	line, err := json.Marshal(req)
	if err == nil {
		b.writeMu.Lock()
		_, err = b.w.Write(append(line, '\n'))
		b.writeMu.Unlock()
	}
	if err != nil {
		b.forget(req.ID)
		return fmt.Errorf("send %s: %w", method, err)
	}

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case resp, ok := <-ch:
		if !ok {
			return ErrBridgeClosed
		}
		if !resp.Success {
			return fmt.Errorf("%s: %s", method, resp.Error)
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("decode %s result: %w", method, err)
			}
		}
		return nil
	case <-timer.C:
		b.forget(req.ID)
		return fmt.Errorf("%s: %w", method, ErrTimeout)
	}
}

func (b *Bridge) forget(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, id)
}

// Done is closed once the bridge stops answering.
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

// Close stops the bridge process.
func (b *Bridge) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	if b.closer != nil {
		return b.closer()
	}
	return nil
}
