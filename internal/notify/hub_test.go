package notify_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/bearlink/internal/models"
	"github.com/atinyakov/bearlink/internal/notify"
)

type rooms map[string]bool

func (r rooms) RoomExists(_ context.Context, id string) (bool, error) {
	if id == "broken" {
		return false, errors.New("db down")
	}
	return r[id], nil
}

func newTestServer(t *testing.T) (*notify.Hub, string) {
	t.Helper()

	hub := notify.NewHub(rooms{"room-1": true, "room-2": true}, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/ws/rooms/{roomID}", hub.ServeWS)

	server := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})

	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, base, roomID string) *websocket.Conn {
	t.Helper()
	ws, resp, err := websocket.DefaultDialer.Dial(base+"/ws/rooms/"+roomID, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func TestHub_RejectsUnknownRoom(t *testing.T) {
	_, base := newTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(base+"/ws/rooms/nope", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(base+"/ws/rooms/broken", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHub_PublishReachesOnlyThatRoom(t *testing.T) {
	hub, base := newTestServer(t)

	inRoom := dial(t, base, "room-1")
	otherRoom := dial(t, base, "room-2")

	require.Eventually(t, func() bool {
		return hub.Subscribers("room-1") == 1 && hub.Subscribers("room-2") == 1
	}, time.Second, 10*time.Millisecond)

	title := "Demo Video"
	hub.LinkResolved(models.Link{ID: "L1", RoomID: "room-1", Title: &title, Status: models.StatusComplete})

	var got models.RoomEvent
	require.NoError(t, inRoom.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, inRoom.ReadJSON(&got))
	assert.Equal(t, models.EventLinkPreview, got.Type)
	assert.Equal(t, "room-1", got.RoomID)
	assert.Equal(t, "L1", got.Link.ID)
	assert.Equal(t, models.StatusComplete, got.Link.Status)

	require.NoError(t, otherRoom.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := otherRoom.ReadMessage()
	assert.Error(t, err, "other rooms receive nothing")
}

func TestHub_IgnoresLinksOutsideRooms(t *testing.T) {
	hub, base := newTestServer(t)
	ws := dial(t, base, "room-1")

	require.Eventually(t, func() bool { return hub.Subscribers("room-1") == 1 }, time.Second, 10*time.Millisecond)

	hub.LinkResolved(models.Link{ID: "L1", CategoryID: "cat-1"})

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := ws.ReadMessage()
	assert.Error(t, err)
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub, base := newTestServer(t)
	ws := dial(t, base, "room-1")

	require.Eventually(t, func() bool { return hub.Subscribers("room-1") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, ws.Close())

	require.Eventually(t, func() bool { return hub.Subscribers("room-1") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_SlowSubscriberIsDropped(t *testing.T) {
	hub, base := newTestServer(t)
	_ = dial(t, base, "room-1")

	require.Eventually(t, func() bool { return hub.Subscribers("room-1") == 1 }, time.Second, 10*time.Millisecond)

	// The client never reads, so the socket and its buffer eventually fill.
	big := strings.Repeat("x", 64<<10)
	require.Eventually(t, func() bool {
		hub.Publish(models.RoomEvent{Type: models.EventLinkAdd, RoomID: "room-1", Link: models.Link{URL: big}})
		return hub.Subscribers("room-1") == 0
	}, 5*time.Second, time.Millisecond)
}
