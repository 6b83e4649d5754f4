package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/sessionid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
}

func startServer(t *testing.T, opts ...Option) (*Server, string) {
	t.Helper()
	srv := NewServer(testLogger(), opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
		ts.Close()
	})
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func request(t *testing.T, conn *websocket.Conn, msgType MessageType, data any) Message {
	t.Helper()
	msg, err := NewMessage(msgType, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
	return readMessage(t, conn)
}

func decodeState(t *testing.T, msg Message) StateData {
	t.Helper()
	require.Equal(t, MessageTypeState, msg.Type, "unexpected reply: %s", msg.Data)
	var state StateData
	require.NoError(t, json.Unmarshal(msg.Data, &state))
	return state
}

func requireError(t *testing.T, msg Message, code string) {
	t.Helper()
	require.Equal(t, MessageTypeError, msg.Type, "unexpected reply: %s", msg.Data)
	var data ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, code, data.Code, data.Message)
}

func action(a game.Action) StepData {
	n := int(a)
	return StepData{Action: &n}
}

func seed(n int64) *int64 {
	return &n
}

func TestServerHealth(t *testing.T) {
	t.Parallel()
	srv := NewServer(testLogger(), WithClock(quartz.NewMock(t)))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestResetAndStep(t *testing.T) {
	t.Parallel()
	_, url := startServer(t, WithSeed(7))
	conn := dial(t, url)

	state := decodeState(t, request(t, conn, MessageTypeReset, ResetData{Seed: seed(42)}))
	assert.NoError(t, sessionid.Validate(state.Session))
	assert.Equal(t, 1, state.Round)
	assert.Equal(t, game.AwaitingAction.String(), state.Phase)
	assert.False(t, state.Terminated)
	assert.Zero(t, state.Reward)
	assert.Len(t, state.Info.PlayerHand, 2)
	assert.Len(t, state.Info.DealerHand, 2)
	assert.Len(t, state.Info.Shoe, deck.DeckSize-4)
	assert.Equal(t, state.Info.PlayerHand.Total(), state.Observation.OwnHandValue)
	assert.Equal(t, state.Info.DealerHand[0].Value(), state.Observation.DealerUpCardValue)

	state = decodeState(t, request(t, conn, MessageTypeStep, action(game.Stand)))
	assert.True(t, state.Terminated)
	assert.False(t, state.Truncated)
	assert.Equal(t, game.Terminal.String(), state.Phase)
	assert.Contains(t, []float64{-1, 0, 1, 1.5}, state.Reward)
	assert.GreaterOrEqual(t, state.Info.DealerHand.Total(), game.DealerStandsOn)

	// A settled round accepts no more actions until the next reset
	requireError(t, request(t, conn, MessageTypeStep, action(game.Hit)), CodeInvalidState)

	state = decodeState(t, request(t, conn, MessageTypeReset, nil))
	assert.Equal(t, 2, state.Round)
}

func TestResetSeedIsReproducibleAcrossSessions(t *testing.T) {
	t.Parallel()
	_, url := startServer(t)

	a := decodeState(t, request(t, dial(t, url), MessageTypeReset, ResetData{Seed: seed(2024)}))
	b := decodeState(t, request(t, dial(t, url), MessageTypeReset, ResetData{Seed: seed(2024)}))

	assert.NotEqual(t, a.Session, b.Session)
	assert.Equal(t, a.Info, b.Info)
	assert.Equal(t, a.Observation, b.Observation)
}

func TestResetDecks(t *testing.T) {
	t.Parallel()
	_, url := startServer(t, WithDecks(2))
	conn := dial(t, url)

	state := decodeState(t, request(t, conn, MessageTypeReset, ResetData{}))
	assert.Len(t, state.Info.Shoe, 2*deck.DeckSize-4)

	state = decodeState(t, request(t, conn, MessageTypeReset, ResetData{Decks: 6}))
	assert.Len(t, state.Info.Shoe, 6*deck.DeckSize-4)

	requireError(t, request(t, conn, MessageTypeReset, ResetData{Decks: -1}), CodeBadRequest)
	requireError(t, request(t, conn, MessageTypeReset, ResetData{Decks: DefaultMaxDecks + 1}), CodeBadRequest)
	requireError(t, request(t, conn, MessageTypeReset, ResetData{Decks: 1_000_000_000}), CodeBadRequest)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"reset","data":{"decks":288230376151711744}}`)))
	requireError(t, readMessage(t, conn), CodeBadRequest)

	// The session survives oversized requests and keeps its shoe
	state = decodeState(t, request(t, conn, MessageTypeReset, ResetData{}))
	assert.Len(t, state.Info.Shoe, 6*deck.DeckSize-4)
}

func TestResetMaxDecks(t *testing.T) {
	t.Parallel()
	_, url := startServer(t, WithMaxDecks(2))
	conn := dial(t, url)

	state := decodeState(t, request(t, conn, MessageTypeReset, ResetData{Decks: 2}))
	assert.Len(t, state.Info.Shoe, 2*deck.DeckSize-4)

	requireError(t, request(t, conn, MessageTypeReset, ResetData{Decks: 3}), CodeBadRequest)
}

func TestRequestErrors(t *testing.T) {
	t.Parallel()
	_, url := startServer(t)
	conn := dial(t, url)

	requireError(t, request(t, conn, MessageTypeStep, action(game.Hit)), CodeInvalidState)

	decodeState(t, request(t, conn, MessageTypeReset, ResetData{Seed: seed(1)}))
	requireError(t, request(t, conn, MessageTypeStep, action(game.Action(7))), CodeInvalidAction)
	requireError(t, request(t, conn, MessageTypeStep, StepData{}), CodeBadRequest)
	requireError(t, request(t, conn, MessageType("split"), nil), CodeBadRequest)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":`)))
	requireError(t, readMessage(t, conn), CodeBadRequest)

	// Rejected requests leave the round untouched
	state := decodeState(t, request(t, conn, MessageTypeStep, action(game.Stand)))
	assert.True(t, state.Terminated)
}

func TestRequestIDIsEchoed(t *testing.T) {
	t.Parallel()
	_, url := startServer(t)
	conn := dial(t, url)

	msg, err := NewMessage(MessageTypeReset, ResetData{})
	require.NoError(t, err)
	msg.RequestID = "req-1"
	require.NoError(t, conn.WriteJSON(msg))
	assert.Equal(t, "req-1", readMessage(t, conn).RequestID)

	// The wire key is snake_case like every other field
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"step","data":{"action":0},"request_id":"req-2"}`)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"request_id":"req-2"`)
	assert.NotContains(t, string(raw), "requestId")
}

func TestIdleTimeout(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	srv, url := startServer(t, WithClock(clock), WithIdleTimeout(30*time.Second))
	conn := dial(t, url)

	require.Eventually(t, func() bool { return srv.Connections() == 1 }, time.Second, 10*time.Millisecond)

	clock.Advance(30 * time.Second).MustWait(ctx)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "expected going away close, got %v", err)

	require.Eventually(t, func() bool { return srv.Connections() == 0 }, time.Second, 10*time.Millisecond)
}

func TestShutdownClosesSessions(t *testing.T) {
	t.Parallel()
	srv, url := startServer(t)
	conn := dial(t, url)

	require.Eventually(t, func() bool { return srv.Connections() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, srv.Shutdown(context.Background()))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestErrorCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("step: %w", game.ErrInvalidAction), CodeInvalidAction},
		{fmt.Errorf("step: %w", game.ErrInvalidState), CodeInvalidState},
		{fmt.Errorf("deal: %w", deck.ErrEmptyShoe), CodeEmptyShoe},
		{fmt.Errorf("new env: %w", deck.ErrInvalidDecks), CodeBadRequest},
		{errors.New("boom"), CodeInternal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, errorCode(tt.err), tt.err.Error())
	}
}
