package ws_test

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

	"dmchat/internal/domain"
	"dmchat/internal/ws"
)

const origin = "http://chat.example"

type tokenTable map[string]*domain.User

func (t tokenTable) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if u, ok := t[token]; ok {
		return u, nil
	}
	return nil, domain.ErrUnauthorized
}

type frame struct {
	Type    string              `json:"type"`
	Payload *domain.ViewMessage `json:"payload"`
}

func setup(t *testing.T) (*ws.Hub, string) {
	t.Helper()
	hub := ws.NewHub()
	auth := tokenTable{
		"tok-alice": {ID: "alice", Name: "Alice"},
		"tok-bob":   {ID: "bob", Name: "Bob"},
	}
	srv := httptest.NewServer(ws.MakeHandler(hub, auth, []string{origin}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url, token string) *websocket.Conn {
	t.Helper()
	header := http.Header{}
	header.Set("Origin", origin)
	header.Set("Authorization", "Bearer "+token)
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestNotifyDeliversPerRecipientViews(t *testing.T) {
	hub, url := setup(t)

	alice1 := dial(t, url, "tok-alice")
	alice2 := dial(t, url, "tok-alice")
	bob := dial(t, url, "tok-bob")
	require.Eventually(t, func() bool {
		return hub.Connections("alice") == 2 && hub.Connections("bob") == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.Notify(context.Background(), domain.EventDeleted, map[string]*domain.ViewMessage{
		"alice": {ID: "m1", Text: domain.DeletedPlaceholder, Redacted: true},
		"bob":   {ID: "m1", Text: "still here"},
		"carol": {ID: "m1", Text: "nobody listening"},
	})

	for _, conn := range []*websocket.Conn{alice1, alice2} {
		f := read(t, conn)
		assert.Equal(t, "deleted", f.Type)
		require.NotNil(t, f.Payload)
		assert.True(t, f.Payload.Redacted)
	}
	f := read(t, bob)
	assert.Equal(t, "deleted", f.Type)
	assert.Equal(t, "still here", f.Payload.Text)
}

func TestEventsKeepOrderPerConnection(t *testing.T) {
	hub, url := setup(t)
	conn := dial(t, url, "tok-bob")
	require.Eventually(t, func() bool { return hub.Connections("bob") == 1 }, 2*time.Second, 10*time.Millisecond)

	kinds := []domain.EventKind{domain.EventCreated, domain.EventEdited, domain.EventReacted, domain.EventDeleted}
	for _, k := range kinds {
		hub.Notify(context.Background(), k, map[string]*domain.ViewMessage{"bob": {ID: "m1"}})
	}
	for _, k := range kinds {
		assert.Equal(t, string(k), read(t, conn).Type)
	}
}

func TestPingPong(t *testing.T) {
	_, url := setup(t)
	conn := dial(t, url, "tok-alice")

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, "pong", read(t, conn).Type)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "typing"}))
	assert.Equal(t, "error", read(t, conn).Type)
}

func TestTokenViaSubprotocol(t *testing.T) {
	hub, url := setup(t)
	dialer := websocket.Dialer{Subprotocols: []string{"bearer", "tok-bob"}}
	header := http.Header{}
	header.Set("Origin", origin)
	conn, _, err := dialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, "bearer", conn.Subprotocol())
	require.Eventually(t, func() bool { return hub.Connections("bob") == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandshakeRejections(t *testing.T) {
	_, url := setup(t)

	header := http.Header{}
	header.Set("Origin", origin)
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	header.Set("Authorization", "Bearer nope")
	_, resp, err = websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	header.Set("Origin", "http://evil.example")
	header.Set("Authorization", "Bearer tok-alice")
	_, resp, err = websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCloseDisconnectsClients(t *testing.T) {
	hub, url := setup(t)
	conn := dial(t, url, "tok-alice")
	require.Eventually(t, func() bool { return hub.Connections("alice") == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.Connections("alice"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestNotifyPayloadShape(t *testing.T) {
	hub, url := setup(t)
	conn := dial(t, url, "tok-bob")
	require.Eventually(t, func() bool { return hub.Connections("bob") == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Notify(context.Background(), domain.EventCreated, map[string]*domain.ViewMessage{
		"bob": {ID: "m9", SenderID: "alice", ReceiverID: "bob", Text: "hi"},
	})
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var generic map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.JSONEq(t, `"created"`, string(generic["type"]))
	var payload map[string]any
	require.NoError(t, json.Unmarshal(generic["payload"], &payload))
	assert.Equal(t, "m9", payload["id"])
	assert.Equal(t, "alice", payload["sender_id"])
	assert.Equal(t, "hi", payload["text"])
}
