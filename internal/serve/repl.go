package serve

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/emlang-project/webidl-dts-gen/internal/convert"
)

//go:embed page.html
var page string

const (
	maxSourceSize = 4 << 20
	writeTimeout  = 10 * time.Second
)

type convertRequest struct {
	IDL string `json:"idl"`
	convert.Options
}

type convertResponse struct {
	DTS         string               `json:"dts,omitempty"`
	Error       string               `json:"error,omitempty"`
	Diagnostics []convert.Diagnostic `json:"diagnostics,omitempty"`
}

func run(src string, opts convert.Options) convertResponse {
	res, err := convert.Convert(src, opts)
	if err != nil {
		return convertResponse{Error: err.Error()}
	}
	return convertResponse{DTS: res.Output, Diagnostics: res.Diagnostics}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// StartRepl starts the playground HTTP server.
// If filePath is not empty, its content is loaded as the initial editor value.
func StartRepl(filePath string, addr string, port int, defaults convert.Options) error {
	var initialContent string
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", filePath, err)
		}
		initialContent = string(data)
	}

	return listenAndServe(newReplMux(initialContent, defaults), addr, port, "Playground")
}

func newReplMux(initialContent string, defaults convert.Options) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, page)
	})

	mux.HandleFunc("/initial", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, initialContent)
	})

	mux.HandleFunc("/convert", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSourceSize))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				err = fmt.Errorf("source exceeds %d bytes", tooLarge.Limit)
			} else {
				w.WriteHeader(http.StatusBadRequest)
			}
			json.NewEncoder(w).Encode(convertResponse{Error: err.Error()})
			return
		}

		opts, err := queryOptions(r, defaults)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(convertResponse{Error: err.Error()})
			return
		}

		json.NewEncoder(w).Encode(run(string(body), opts))
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		wc, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// the upgrader already wrote an http error
			return
		}
		defer wc.Close()
		if err := serveSocket(wc, defaults); err != nil {
			fmt.Fprintf(os.Stderr, "Playground socket error: %v\n", err)
		}
	})

	return mux
}

// queryOptions overrides defaults with the emscripten, module,
// defaultExport and strict query parameters.
func queryOptions(r *http.Request, defaults convert.Options) (convert.Options, error) {
	opts := defaults
	q := r.URL.Query()

	if v := q.Get("emscripten"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid emscripten value %q", v)
		}
		opts.Emscripten = b
	}
	if v := q.Get("defaultExport"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid defaultExport value %q", v)
		}
		opts.DefaultExport = b
	}
	if v := q.Get("strict"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid strict value %q", v)
		}
		opts.Strict = b
	}
	if v := q.Get("module"); v != "" {
		opts.Module = v
	}
	return opts, nil
}

// serveSocket answers each text message with a conversion until the peer
// goes away.
func serveSocket(wc *websocket.Conn, defaults convert.Options) error {
	wc.SetReadLimit(maxSourceSize)
	for {
		op, raw, err := wc.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
				!websocket.IsUnexpectedCloseError(err) {
				return nil
			}
			return fmt.Errorf("reading message: %w", err)
		}
		if op != websocket.TextMessage {
			continue
		}

		req := convertRequest{Options: defaults}
		var resp convertResponse
		if err := json.Unmarshal(raw, &req); err != nil {
			resp.Error = fmt.Sprintf("invalid request: %v", err)
		} else {
			resp = run(req.IDL, req.Options)
		}

		wc.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := wc.WriteJSON(resp); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}
}
