package dev

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialReload(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	return conn
}

func TestReloadServerBroadcast(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()

	srv := httptest.NewServer(httptestHandler(rs))
	defer srv.Close()

	conn := dialReload(t, srv)
	defer conn.Close()

	waitForClients(t, rs, 1)

	rs.NotifyReload()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}

	var msg ReloadMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if msg.Type != ReloadTypeFull {
		t.Errorf("type = %q, want %q", msg.Type, ReloadTypeFull)
	}
}

func TestReloadServerErrorMessage(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()

	srv := httptest.NewServer(httptestHandler(rs))
	defer srv.Close()

	conn := dialReload(t, srv)
	defer conn.Close()

	waitForClients(t, rs, 1)

	rs.NotifyError("syntax error in routes/index.go")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}

	var msg ReloadMessage
	json.Unmarshal(data, &msg)
	if msg.Type != ReloadTypeError || msg.Error == "" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestReloadServerClientCount(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()

	srv := httptest.NewServer(httptestHandler(rs))
	defer srv.Close()

	if rs.ClientCount() != 0 {
		t.Errorf("initial count = %d", rs.ClientCount())
	}

	conn := dialReload(t, srv)
	waitForClients(t, rs, 1)

	conn.Close()
	waitForClients(t, rs, 0)
}

func httptestHandler(rs *ReloadServer) http.Handler {
	return http.HandlerFunc(rs.HandleWebSocket)
}

func waitForClients(t *testing.T, rs *ReloadServer, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if rs.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", rs.ClientCount(), want)
}

// ===== Watcher =====

func TestWatcherDetectsChanges(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "routes.go")
	if err := os.WriteFile(file, []byte("package routes\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w := NewWatcher(WatcherConfig{
		Paths:    []string{dir},
		Interval: 10 * time.Millisecond,
	})

	changes := make(chan Change, 16)
	w.OnChange(func(c Change) { changes <- c })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)
	defer w.Stop()

	// Let the initial scan finish before mutating.
	time.Sleep(50 * time.Millisecond)

	now := time.Now().Add(time.Second)
	if err := os.Chtimes(file, now, now); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-changes:
		if c.Type != ChangeGo {
			t.Errorf("change type = %d, want ChangeGo", c.Type)
		}
		if filepath.Base(c.Path) != "routes.go" {
			t.Errorf("change path = %q", c.Path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherIgnores(t *testing.T) {
	w := NewWatcher(WatcherConfig{Paths: nil})

	tests := []struct {
		path string
		want bool
	}{
		{"app/routes_test.go", true},
		{"app/routes.go", false},
		{".git/HEAD", true},
		{"node_modules/pkg/index.js", true},
		{"public/build/manifest.json", true},
		{"app/styles.css", false},
	}

	for _, tt := range tests {
		if got := w.ignored(tt.path); got != tt.want {
			t.Errorf("ignored(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestClassifyChange(t *testing.T) {
	tests := []struct {
		path string
		want ChangeType
	}{
		{"app/routes/index.go", ChangeGo},
		{"app/styles/main.css", ChangeCSS},
		{"public/logo.svg", ChangeAsset},
	}

	for _, tt := range tests {
		if got := classifyChange(tt.path); got != tt.want {
			t.Errorf("classifyChange(%q) = %d, want %d", tt.path, got, tt.want)
		}
	}
}
