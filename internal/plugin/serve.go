package plugin

import (
	"bufio"
	"encoding/json"
	"io"
)

// HandlerFunc answers one bridge request.
type HandlerFunc func(method string, params json.RawMessage) (any, error)

// Serve runs the bridge side of the protocol: it reads requests from r,
// answers each with h and writes the responses to w, in order. It returns
// when r is exhausted.
func Serve(r io.Reader, w io.Writer, h HandlerFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		var req Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			if err := enc.Encode(Response{Error: "malformed request: " + err.Error()}); err != nil {
				return err
			}
			continue
		}

		resp := Response{ID: req.ID, Success: true}
		result, err := h(req.Method, req.Params)
		if err != nil {
			resp.Success = false
			resp.Error = err.Error()
		} else if result != nil {
			data, err := json.Marshal(result)
			if err != nil {
				resp.Success = false
				resp.Error = err.Error()
			} else {
				resp.Result = data
			}
		}

		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}
