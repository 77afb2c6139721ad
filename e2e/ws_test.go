package e2e_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcastelli/motdepasse-server/internal/factory"
	"github.com/lcastelli/motdepasse-server/internal/protocol"
	"github.com/lcastelli/motdepasse-server/internal/server"
	"github.com/lcastelli/motdepasse-server/internal/testutil"
)

func startServer(t *testing.T) string {
	t.Helper()

	app, err := factory.New(context.Background(), factory.Config{Logger: testutil.NopLogger()})
	require.NoError(t, err)
	t.Cleanup(app.Close)

	router := server.NewRouter(server.RouterConfig{
		Logger:   testutil.NopLogger(),
		Registry: app.Registry,
	})
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts.URL
}

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http") + "/ws"
}

// wsClient is a minimal test client over one websocket connection
type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, url string) *wsClient {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) send(event string, payload any) {
	c.t.Helper()
	frame, err := protocol.Encode(event, payload)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, frame))
}

// expect reads frames until one matches the wanted event, skipping
// interleaved broadcasts like timer ticks
func (c *wsClient) expect(event string) protocol.Envelope {
	c.t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		_ = c.conn.SetReadDeadline(deadline)
		_, frame, err := c.conn.ReadMessage()
		require.NoError(c.t, err, "waiting for %s", event)
		env, err := protocol.Decode(frame)
		require.NoError(c.t, err)
		if env.Event == event {
			return env
		}
	}
	c.t.Fatalf("timed out waiting for %s", event)
	return protocol.Envelope{}
}

func decodeAs[T any](t *testing.T, env protocol.Envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestCreateAndJoinRoom(t *testing.T) {
	base := startServer(t)

	host := dial(t, wsURL(base))
	host.send(protocol.EventCreateRoom, protocol.CreateRoomPayload{PlayerName: "Hélène"})

	created := decodeAs[protocol.RoomCreatedPayload](t, host.expect(protocol.EventRoomCreated))
	assert.Len(t, string(created.Code), 4)
	assert.True(t, created.Player.IsHost)
	assert.Len(t, created.Room.Teams, 2)

	guest := dial(t, wsURL(base))
	guest.send(protocol.EventJoinRoom, protocol.JoinRoomPayload{
		RoomCode:   string(created.Code),
		PlayerName: "Marc",
	})

	joined := decodeAs[protocol.RoomJoinedPayload](t, guest.expect(protocol.EventRoomJoined))
	assert.Equal(t, created.Code, joined.Code)
	assert.False(t, joined.Player.IsHost)
	assert.Len(t, joined.Room.Players, 2)

	// The host sees the arrival
	arrival := decodeAs[protocol.PlayerJoinedPayload](t, host.expect(protocol.EventPlayerJoined))
	assert.Len(t, arrival.Players, 2)
}

func TestJoinUnknownRoom(t *testing.T) {
	base := startServer(t)

	guest := dial(t, wsURL(base))
	guest.send(protocol.EventJoinRoom, protocol.JoinRoomPayload{RoomCode: "ZZZZ", PlayerName: "Marc"})

	errEnv := decodeAs[protocol.ErrorPayload](t, guest.expect(protocol.EventError))
	assert.Equal(t, protocol.CodeNotFound, errEnv.Code)
}

func TestFirstFrameMustEnterARoom(t *testing.T) {
	base := startServer(t)

	c := dial(t, wsURL(base))
	c.send(protocol.EventStartGame, nil)

	errEnv := decodeAs[protocol.ErrorPayload](t, c.expect(protocol.EventError))
	assert.Equal(t, protocol.CodeInternalError, errEnv.Code)
}

func TestNonHostActionsRejected(t *testing.T) {
	base := startServer(t)

	host := dial(t, wsURL(base))
	host.send(protocol.EventCreateRoom, protocol.CreateRoomPayload{PlayerName: "Hélène"})
	created := decodeAs[protocol.RoomCreatedPayload](t, host.expect(protocol.EventRoomCreated))

	guest := dial(t, wsURL(base))
	guest.send(protocol.EventJoinRoom, protocol.JoinRoomPayload{
		RoomCode:   string(created.Code),
		PlayerName: "Marc",
	})
	guest.expect(protocol.EventRoomJoined)

	guest.send(protocol.EventStartGame, nil)
	errEnv := decodeAs[protocol.ErrorPayload](t, guest.expect(protocol.EventError))
	assert.Equal(t, protocol.CodeUnauthorized, errEnv.Code)
}

func TestHealthEndpoint(t *testing.T) {
	base := startServer(t)

	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
