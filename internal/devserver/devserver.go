// Package devserver implements `aer dev`'s embedded static file server and
// live-reload WebSocket channel.
//
// It is grounded on the teacher's internal/server.PreviewServer —
// specifically its WebSocket hub (websocket.go: register/unregister/
// broadcast channels fanned out to a per-client send buffer) — rebuilt
// over github.com/coder/websocket (the teacher used the predecessor
// nhooyr.io/websocket module under the same API) and trimmed to Aer's
// single concern: tell every connected browser tab to reload once a
// rebuild finishes.
package devserver

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/aerstatic/aer/internal/logging"
)

const (
	pingPeriod     = 20 * time.Second
	writeWait      = 5 * time.Second
	maxMessageSize = 512
)

// reloadScript is injected just before </body> in every text/html response
// served from Dir, connecting back to the live-reload endpoint.
const reloadScript = `<script>
(function(){
  var loc = window.location;
  var proto = loc.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + loc.host + "/__aer/livereload");
  ws.onmessage = function(){ loc.reload(); };
})();
</script>`

// Server serves the pipeline's target tree and notifies connected browser
// tabs to reload after each rebuild (spec §5's dev-server collaborator).
type Server struct {
	Dir string
	Log logging.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

// New returns a Server rooted at dir.
func New(dir string, log logging.Logger) *Server {
	return &Server{
		Dir:     dir,
		Log:     log.WithComponent("devserver"),
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// Reload broadcasts a reload notification to every connected client,
// called once a debounced rebuild completes (spec §5).
func (s *Server) Reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn, send := range s.clients {
		select {
		case send <- []byte("reload"):
		default:
			s.Log.Warn(ctx, nil, "dropping slow livereload client")
			delete(s.clients, conn)
		}
	}
}

// Handler returns the HTTP handler serving Dir plus the livereload
// endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/__aer/livereload", s.serveWebSocket)
	mux.HandleFunc("/", s.serveFile)
	return mux
}

// ListenAndServe starts the HTTP server on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// serveFile resolves the request path against Dir, following clean-URL
// conventions (a directory request serves its index.html), and injects
// the live-reload script into HTML responses.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	rel := filepath.Clean(strings.TrimPrefix(r.URL.Path, "/"))
	path := filepath.Join(s.Dir, rel)

	if !strings.HasPrefix(path, filepath.Clean(s.Dir)) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, "index.html")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if strings.HasSuffix(path, ".html") {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if i := strings.LastIndex(string(data), "</body>"); i >= 0 {
			injected := string(data[:i]) + reloadScript + string(data[i:])
			_, _ = w.Write([]byte(injected))
			return
		}
	}
	http.ServeContent(w, r, path, time.Time{}, bytes.NewReader(data))
}

func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.Log.Warn(r.Context(), err, "livereload upgrade failed")
		return
	}

	send := make(chan []byte, 4)
	s.mu.Lock()
	s.clients[conn] = send
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	conn.SetReadLimit(maxMessageSize)
	ctx := r.Context()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
