package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/app/repositories"
	"github.com/yigit/unitrack/internal/app/tracker"
	"github.com/yigit/unitrack/internal/pkg/blobstore"
)

func startFeed(t *testing.T) (*Hub, *gorilla.Conn) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws", NewHandler(hub, zerolog.Nop()).HandleConnection)
	srv := httptest.NewServer(router)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		cancel()
		<-hub.done
		srv.Close()
	})
	return hub, conn
}

// readMessages reads one frame; queued events arrive newline separated.
func readMessages(t *testing.T, conn *gorilla.Conn) []Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var out []Message
	for _, line := range bytes.Split(data, newline) {
		var m Message
		require.NoError(t, json.Unmarshal(line, &m))
		out = append(out, m)
	}
	return out
}

func TestHubDeliversPublishedEvents(t *testing.T) {
	hub, conn := startFeed(t)

	hello := readMessages(t, conn)
	require.NotEmpty(t, hello)
	assert.Equal(t, "connected", hello[0].Type)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(&Message{Type: "save.failed", Error: "disk full", Timestamp: time.Now()})
	got := readMessages(t, conn)
	require.Len(t, got, 1)
	assert.Equal(t, "save.failed", got[0].Type)
	assert.Equal(t, "disk full", got[0].Error)
}

func TestAttachForwardsStoreEvents(t *testing.T) {
	hub, conn := startFeed(t)
	readMessages(t, conn)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	store := tracker.New(repositories.NewSlotRepository(blobstore.NewMemory()))
	defer store.Close()
	require.NoError(t, store.Load(context.Background()))
	Attach(hub, store)

	_, err := store.SetCourseStatus(context.Background(), "1", models.StatusFailed)
	require.NoError(t, err)

	seen := map[string]Message{}
	deadline := time.Now().Add(2 * time.Second)
	for len(seen) < 2 && time.Now().Before(deadline) {
		for _, m := range readMessages(t, conn) {
			seen[m.Type] = m
		}
	}
	require.Contains(t, seen, string(tracker.EventSnapshotUpdated))
	assert.Equal(t, "course.status", seen[string(tracker.EventSnapshotUpdated)].Reason)
	assert.Contains(t, seen, string(tracker.EventSaveCompleted))
}

func TestPublishAfterStopIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)
	cancel()
	<-hub.done

	assert.NotPanics(t, func() {
		hub.Publish(&Message{Type: "snapshot.updated"})
	})
	assert.Zero(t, hub.ClientCount())
}
