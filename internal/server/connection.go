package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjackforbots/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Send pings to peer with this period
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// Connection is one websocket session driving its own Env. Requests are
// handled in order on the read goroutine, so the Env has a single owner.
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *Message
	env       *game.Env
	newEnv    func(decks int) (*game.Env, error)
	maxDecks  int
	idle      *quartz.Timer
	timeout   time.Duration
	clock     quartz.Clock
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newConnection(id string, conn *websocket.Conn, env *game.Env, s *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Connection{
		id:      id,
		conn:    conn,
		send:    make(chan *Message, 16),
		env:     env,
		newEnv:   s.newEnv,
		maxDecks: s.maxDecks,
		timeout: s.idleTimeout,
		clock:   s.clock,
		logger:  s.logger.With("session", id),
		ctx:     ctx,
		cancel:  cancel,
	}
	c.idle = s.clock.AfterFunc(c.timeout, c.expire, "idle")
	return c
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.idle.Stop()
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	}
}

// expire closes a connection that has been silent for the idle timeout
func (c *Connection) expire() {
	if c.ctx.Err() != nil {
		return
	}
	c.logger.Info("Closing idle connection", "timeout", c.timeout)
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "idle timeout"), time.Now().Add(writeWait))
	_ = c.Close()
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.idle.Reset(c.timeout, "idle")

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("", CodeBadRequest, "malformed message")
			continue
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := c.clock.NewTicker(pingPeriod, "ping")
	defer func() {
		ticker.Stop()
		_ = c.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes one request and replies with a state or an error
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeReset:
		var data ResetData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.sendError(msg.RequestID, CodeBadRequest, "failed to parse reset data")
				return
			}
		}
		c.handleReset(msg.RequestID, data)

	case MessageTypeStep:
		var data StepData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg.RequestID, CodeBadRequest, "failed to parse step data")
			return
		}
		if data.Action == nil {
			c.sendError(msg.RequestID, CodeBadRequest, "step requires an action")
			return
		}
		c.handleStep(msg.RequestID, game.Action(*data.Action))

	default:
		c.sendError(msg.RequestID, CodeBadRequest, "unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleReset(requestID string, data ResetData) {
	if data.Decks < 0 {
		c.sendError(requestID, CodeBadRequest, fmt.Sprintf("decks must be at least 1, got %d", data.Decks))
		return
	}
	if data.Decks > c.maxDecks {
		c.sendError(requestID, CodeBadRequest, fmt.Sprintf("decks must be at most %d, got %d", c.maxDecks, data.Decks))
		return
	}
	if data.Decks > 0 && data.Decks != c.env.Decks() {
		env, err := c.newEnv(data.Decks)
		if err != nil {
			c.sendError(requestID, errorCode(err), err.Error())
			return
		}
		c.env = env
	}

	obs, info, err := c.env.Reset(data.Seed)
	if err != nil {
		c.sendError(requestID, errorCode(err), err.Error())
		return
	}

	c.sendState(requestID, game.StepResult{Observation: obs, Info: info})
}

func (c *Connection) handleStep(requestID string, action game.Action) {
	result, err := c.env.Step(action)
	if err != nil {
		c.sendError(requestID, errorCode(err), err.Error())
		return
	}

	if result.Terminated {
		c.logger.Info("Round settled",
			"round", c.env.Round(),
			"reward", result.Reward,
			"outcome", game.OutcomeOf(result.Reward))
	}
	c.sendState(requestID, result)
}

func (c *Connection) sendState(requestID string, result game.StepResult) {
	msg, err := NewMessage(MessageTypeState, StateData{
		Session:     c.id,
		Round:       c.env.Round(),
		Phase:       c.env.Phase().String(),
		Observation: result.Observation,
		Reward:      result.Reward,
		Terminated:  result.Terminated,
		Truncated:   result.Truncated,
		Info:        result.Info,
	})
	if err != nil {
		c.logger.Error("Failed to create state message", "error", err)
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg)
}

// sendError sends an error message to the client
func (c *Connection) sendError(requestID, code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	msg.RequestID = requestID
	c.logger.Debug("Request rejected", "code", code, "message", message)
	_ = c.SendMessage(msg)
}
