// Package client drives a remote blackjack session over WebSocket with the
// same Reset/Step contract as a local game.Env.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/server" // Reuse message types
)

// RemoteError is an error reply from the server
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("server error %s: %s", e.Code, e.Message)
}

// Client is one session on a blackjack server. Requests are answered in
// order, so a Client sends one request at a time.
type Client struct {
	serverURL string
	conn      *websocket.Conn
	logger    *log.Logger
	mu        sync.Mutex
	requests  int
	closeOnce sync.Once
}

// NewClient creates a client for serverURL. http(s) URLs are mapped to ws(s)
// and a bare host gets the /ws path.
func NewClient(serverURL string, logger *log.Logger) *Client {
	return &Client{
		serverURL: serverURL,
		logger:    logger.WithPrefix("client"),
	}
}

// Connect establishes a WebSocket connection to the server
func (c *Client) Connect(ctx context.Context) error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	// Convert http/https to ws/wss
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	c.logger.Info("Connecting to server", "url", u.String())
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return nil
}

// Close closes the WebSocket connection
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.conn == nil {
			return
		}
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		err = c.conn.Close()
	})
	return err
}

// Reset starts a new round. A nil seed continues the session's RNG stream;
// decks of 0 keeps the session's deck count.
func (c *Client) Reset(ctx context.Context, seed *int64, decks int) (*server.StateData, error) {
	return c.roundTrip(ctx, server.MessageTypeReset, server.ResetData{Seed: seed, Decks: decks})
}

// Step applies one action to the open round
func (c *Client) Step(ctx context.Context, action game.Action) (*server.StateData, error) {
	n := int(action)
	return c.roundTrip(ctx, server.MessageTypeStep, server.StepData{Action: &n})
}

func (c *Client) roundTrip(ctx context.Context, msgType server.MessageType, data any) (*server.StateData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, fmt.Errorf("not connected")
	}

	msg, err := server.NewMessage(msgType, data)
	if err != nil {
		return nil, err
	}
	c.requests++
	msg.RequestID = strconv.Itoa(c.requests)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(30 * time.Second)
	}
	_ = c.conn.SetWriteDeadline(deadline)
	_ = c.conn.SetReadDeadline(deadline)

	if err := c.conn.WriteJSON(msg); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", msgType, err)
	}

	var reply server.Message
	if err := c.conn.ReadJSON(&reply); err != nil {
		return nil, fmt.Errorf("failed to read reply: %w", err)
	}
	if reply.RequestID != msg.RequestID {
		return nil, fmt.Errorf("reply for request %q, expected %q", reply.RequestID, msg.RequestID)
	}

	switch reply.Type {
	case server.MessageTypeState:
		var state server.StateData
		if err := json.Unmarshal(reply.Data, &state); err != nil {
			return nil, fmt.Errorf("failed to decode state: %w", err)
		}
		c.logger.Debug("State", "round", state.Round, "phase", state.Phase, "reward", state.Reward)
		return &state, nil

	case server.MessageTypeError:
		var e server.ErrorData
		if err := json.Unmarshal(reply.Data, &e); err != nil {
			return nil, fmt.Errorf("failed to decode error: %w", err)
		}
		return nil, &RemoteError{Code: e.Code, Message: e.Message}

	default:
		return nil, fmt.Errorf("unexpected reply type %q", reply.Type)
	}
}
