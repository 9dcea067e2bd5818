// This file may be distributed under the terms of the GNU GPLv3 license.

package moonraker

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"skewcomp/pkg/errors"
)

// fakeMoonraker runs a minimal JSON-RPC WebSocket endpoint. The handler
// receives each request and returns (result, rpcError).
func fakeMoonraker(t *testing.T, handler func(method string, params json.RawMessage) (any, *jsonRPCError)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var req struct {
				Method string          `json:"method"`
				Params json.RawMessage `json:"params"`
				ID     int64           `json:"id"`
			}
			if err := conn.ReadJSON(&req); err != nil {
				return
			}

			// Interleave a status notification before every response;
			// the client must skip it.
			conn.WriteJSON(map[string]any{
				"jsonrpc": "2.0",
				"method":  "notify_status_update",
				"params":  []any{map[string]any{"toolhead": map[string]any{}}},
			})

			result, rpcErr := handler(req.Method, req.Params)
			resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
			if rpcErr != nil {
				resp["error"] = rpcErr
			} else {
				resp["result"] = result
			}
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialTest(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	addr := strings.TrimPrefix(srv.URL, "http://")
	c, err := Dial(addr, 2*time.Second)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRunGCode(t *testing.T) {
	var gotScript string
	srv := fakeMoonraker(t, func(method string, params json.RawMessage) (any, *jsonRPCError) {
		if method != "printer.gcode.script" {
			return nil, &jsonRPCError{Code: -32601, Message: "method not found"}
		}
		var p struct {
			Script string `json:"script"`
		}
		json.Unmarshal(params, &p)
		gotScript = p.Script
		return "ok", nil
	})

	c := dialTest(t, srv)
	cmd := "SET_SKEW XY=141.420,141.420,100.000 ; PrintSkewCompensation"
	if err := c.RunGCode(cmd); err != nil {
		t.Fatalf("RunGCode failed: %v", err)
	}
	if gotScript != cmd {
		t.Errorf("expected script %q, got %q", cmd, gotScript)
	}
}

func TestCallReturnsRPCError(t *testing.T) {
	srv := fakeMoonraker(t, func(method string, params json.RawMessage) (any, *jsonRPCError) {
		return nil, &jsonRPCError{Code: 400, Message: "Klippy host not connected"}
	})

	c := dialTest(t, srv)
	err := c.RunGCode("SET_SKEW")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.IsMoonraker(err) {
		t.Errorf("expected a Moonraker RPC error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Klippy host not connected") {
		t.Errorf("server message missing: %v", err)
	}
}

func TestServerInfo(t *testing.T) {
	srv := fakeMoonraker(t, func(method string, params json.RawMessage) (any, *jsonRPCError) {
		if method != "server.info" {
			t.Errorf("unexpected method %q", method)
		}
		return map[string]any{"klippy_state": "ready"}, nil
	})

	c := dialTest(t, srv)
	raw, err := c.ServerInfo()
	if err != nil {
		t.Fatalf("ServerInfo failed: %v", err)
	}
	var info struct {
		KlippyState string `json:"klippy_state"`
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		t.Fatalf("bad result payload: %v", err)
	}
	if info.KlippyState != "ready" {
		t.Errorf("expected klippy_state ready, got %q", info.KlippyState)
	}
}

func TestDialUnreachable(t *testing.T) {
	_, err := Dial("127.0.0.1:1", 500*time.Millisecond)
	if err == nil {
		t.Fatal("expected connection error")
	}
	if !errors.Is(err, errors.ErrMoonrakerConnect) {
		t.Errorf("expected connect error code, got %v", err)
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"localhost:7125", "ws://localhost:7125/websocket"},
		{"ws://mainsail:7125", "ws://mainsail:7125/websocket"},
		{"http://mainsail:7125", "ws://mainsail:7125/websocket"},
		{"https://printer.local", "wss://printer.local/websocket"},
		{"ws://printer/websocket", "ws://printer/websocket"},
	}
	for _, tc := range cases {
		if got := normalizeURL(tc.in); got != tc.want {
			t.Errorf("normalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
