// Moonraker WebSocket client
//
// Minimal JSON-RPC 2.0 client for the Moonraker /websocket endpoint,
// used to push skew commands to a running Klipper printer.
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package moonraker

import (
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"skewcomp/pkg/errors"
	"skewcomp/pkg/log"
)

// DefaultTimeout bounds a single connect or RPC round trip.
const DefaultTimeout = 10 * time.Second

type jsonRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      int64  `json:"id"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *jsonRPCError   `json:"error"`
	ID      json.RawMessage `json:"id"`
}

// Client is a synchronous Moonraker JSON-RPC client. It is intended
// for one-shot command pushes, not long-lived subscriptions.
type Client struct {
	conn    *websocket.Conn
	url     string
	timeout time.Duration
	nextID  int64
	logger  *log.Logger
}

// normalizeURL turns "host:port", "ws://host:port" or a full endpoint
// URL into a ws:// /websocket URL.
func normalizeURL(addr string) string {
	u := addr
	if !strings.Contains(u, "://") {
		u = "ws://" + u
	}
	u = strings.Replace(u, "http://", "ws://", 1)
	u = strings.Replace(u, "https://", "wss://", 1)
	if !strings.HasSuffix(u, "/websocket") {
		u = strings.TrimSuffix(u, "/") + "/websocket"
	}
	return u
}

// Dial connects to a Moonraker instance. addr may be "host:port" or a
// full URL; a zero timeout selects DefaultTimeout.
func Dial(addr string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	u := normalizeURL(addr)

	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.Dial(u, nil)
	if err != nil {
		return nil, errors.MoonrakerConnectError(u, err)
	}

	c := &Client{
		conn:    conn,
		url:     u,
		timeout: timeout,
		logger:  log.GetLogger("moonraker"),
	}
	c.logger.Info("connected to %s", u)
	return c, nil
}

// Call performs one JSON-RPC request and waits for its response.
// Notification frames and responses to other requests are skipped.
func (c *Client) Call(method string, params any) (json.RawMessage, error) {
	id := atomic.AddInt64(&c.nextID, 1)
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      id,
	}

	deadline := time.Now().Add(c.timeout)
	c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(req); err != nil {
		return nil, errors.Wrap(err, errors.ErrMoonrakerRPC, method+" write failed")
	}

	for {
		c.conn.SetReadDeadline(deadline)
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrMoonrakerRPC, method+" read failed")
		}

		var resp jsonRPCResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			c.logger.Debug("skipping unparseable frame: %v", err)
			continue
		}
		if len(resp.ID) == 0 || string(resp.ID) == "null" {
			// Status notification, not our response.
			continue
		}
		var gotID int64
		if err := json.Unmarshal(resp.ID, &gotID); err != nil || gotID != id {
			continue
		}

		if resp.Error != nil {
			return nil, errors.MoonrakerRPCError(method, resp.Error.Code, resp.Error.Message)
		}
		return resp.Result, nil
	}
}

// RunGCode executes a G-code script on the printer.
func (c *Client) RunGCode(script string) error {
	_, err := c.Call("printer.gcode.script", map[string]any{"script": script})
	return err
}

// ServerInfo queries Moonraker's server.info endpoint, useful as a
// connectivity preflight before pushing commands.
func (c *Client) ServerInfo() (json.RawMessage, error) {
	return c.Call("server.info", nil)
}

// Close closes the WebSocket connection.
func (c *Client) Close() error {
	c.conn.SetWriteDeadline(time.Now().Add(time.Second))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
