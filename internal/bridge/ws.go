package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/aitoolbox/aitoolbox-cli/internal/exitcodes"
	"github.com/aitoolbox/aitoolbox-cli/internal/logger"
)

// ErrClosed is returned for calls on, or outstanding at, a closed connection.
var ErrClosed = errors.New("bridge connection closed")

type request struct {
	ID   string          `json:"id"`
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args,omitempty"`
}

type response struct {
	ID     string          `json:"id"`
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// WSClient speaks the bridge protocol over one websocket connection.
// Requests carry a uuid; responses may arrive in any order.
//
// Once a request has been written the call waits for its response, for the
// connection to close, or for ctx to end. A request already sent is not
// cancelled on the host; a caller that gives up just drops its pending entry
// and a late response is discarded.
type WSClient struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan response
	closed  bool
	done    chan struct{}
}

// Dial connects to the host bridge at wsURL.
func Dial(ctx context.Context, wsURL string) (*WSClient, error) {
	d := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}
	// nolint:bodyclose
	conn, _, err := d.DialContext(ctx, wsURL, http.Header{"Origin": {"http://localhost"}})
	if err != nil {
		return nil, exitcodes.WrapError(exitcodes.NetworkError, "failed to connect to host bridge", err)
	}
	return newWSClient(conn), nil
}

func newWSClient(conn *websocket.Conn) *WSClient {
	c := &WSClient{
		conn:    conn,
		pending: map[string]chan response{},
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Invoke implements Invoker.
func (c *WSClient) Invoke(ctx context.Context, command string, args any, out any) error {
	log := logger.Component("bridge")

	var raw json.RawMessage
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("failed to encode %s arguments: %w", command, err)
		}
		raw = b
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	id := uuid.NewString()
	ch := make(chan response, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()

	c.writeMu.Lock()
	err := c.conn.WriteJSON(request{ID: id, Cmd: command, Args: raw})
	c.writeMu.Unlock()
	if err != nil {
		c.forget(id)
		return exitcodes.WrapError(exitcodes.NetworkError, "failed to send "+command, err)
	}
	log.Debug("sent", "cmd", command, "id", id)

	var resp response
	select {
	case r, ok := <-ch:
		if !ok {
			return ErrClosed
		}
		resp = r
	case <-ctx.Done():
		c.forget(id)
		log.Debug("caller gave up", "cmd", command, "id", id, "err", ctx.Err())
		return ctx.Err()
	}
	if !resp.OK {
		msg := resp.Error
		if msg == "" {
			msg = "command failed"
		}
		return &RemoteError{Command: command, Message: msg}
	}
	return decodeResult(command, resp.Result, out)
}

// Close shuts the connection down and fails outstanding calls.
func (c *WSClient) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	deadline := time.Now().Add(time.Second)
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	c.writeMu.Unlock()
	err := c.conn.Close()
	<-c.done
	return err
}

func (c *WSClient) readLoop() {
	log := logger.Component("bridge")
	defer c.shutdown()
	for {
		var resp response
		if err := c.conn.ReadJSON(&resp); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("read loop ended", "err", err)
			}
			return
		}
		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		delete(c.pending, resp.ID)
		c.mu.Unlock()
		if !ok {
			log.Warn("response for unknown request", "id", resp.ID)
			continue
		}
		ch <- resp
	}
}

func (c *WSClient) shutdown() {
	c.mu.Lock()
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.mu.Unlock()
	close(c.done)
}

func (c *WSClient) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}
