package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHandleHealth(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("health request error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestHandleHealth_MethodNotAllowed(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Post(ts.URL+"/api/health", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("health request error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics request error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestProgressHub_Broadcast(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/progress"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	type event struct {
		ScanID string `json:"scan_id"`
	}

	// Registration of the client races with the first broadcast, so retry
	// until a message arrives.
	deadline := time.Now().Add(2 * time.Second)
	var got event
	for {
		srv.hub.Broadcast(event{ScanID: "scan-1"})

		conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		_, msg, err := conn.ReadMessage()
		if err == nil {
			if err := json.Unmarshal(msg, &got); err != nil {
				t.Fatalf("unmarshal event: %v", err)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("no broadcast received before deadline: %v", err)
		}
	}

	if got.ScanID != "scan-1" {
		t.Errorf("ScanID = %q, want scan-1", got.ScanID)
	}
}

func TestProgressHub_ConcurrentBroadcast(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/progress"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	// Drain messages so broadcasts never block on a full socket buffer.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Simultaneous scans each broadcast from their own handler goroutine;
	// writes to a shared connection must be serialized.
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				srv.hub.Broadcast(map[string]interface{}{"scan_id": g, "frame_index": i})
			}
		}(g)
	}
	wg.Wait()

	conn.Close()
	<-done
}

func TestProgressHub_DropsClientOnWriteError(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/progress"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}

	// Wait for the server side to register the client.
	deadline := time.Now().Add(2 * time.Second)
	for clientCount(srv.hub) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	conn.Close()

	// Writes to the closed connection eventually fail; the hub must prune
	// the client rather than keep broadcasting into it.
	for clientCount(srv.hub) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("closed client never pruned from hub")
		}
		srv.hub.Broadcast(map[string]string{"scan_id": "x"})
		time.Sleep(10 * time.Millisecond)
	}
}

func clientCount(h *ProgressHub) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func TestProgressHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewProgressHub()

	// Must not panic or block when nobody is listening.
	hub.Broadcast(map[string]string{"scan_id": "x"})
}
