package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/policy"
	"github.com/DevKano98/Web24kanban/internal/services"
)

// stubSource denies one collection outright and returns a running
// counter as every snapshot, so pushes are distinguishable.
type stubSource struct {
	denied    string
	snapshots atomic.Int64
}

func (s *stubSource) Authorize(id policy.Identity, q Query) error {
	if q.Collection == s.denied {
		return ErrQueryDenied
	}
	return nil
}

func (s *stubSource) Snapshot(id policy.Identity, q Query) (any, error) {
	n := s.snapshots.Add(1)
	return map[string]int64{"revision": n}, nil
}

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		conn := hub.NewConn(ws, policy.Identity{UserID: 1, Role: models.RoleClient})
		go conn.Run()
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	// Swallow the connected greeting.
	var hello serverMessage
	require.NoError(t, client.ReadJSON(&hello))
	require.Equal(t, "connected", hello.Type)

	return client
}

func readMessage(t *testing.T, client *websocket.Conn) serverMessage {
	t.Helper()
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg serverMessage
	require.NoError(t, client.ReadJSON(&msg))
	return msg
}

func expectSilence(t *testing.T, client *websocket.Conn) {
	t.Helper()
	require.NoError(t, client.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	var msg serverMessage
	err := client.ReadJSON(&msg)
	require.Error(t, err, "expected no push, got %+v", msg)
}

func subscribe(t *testing.T, client *websocket.Conn, id, collection string) {
	t.Helper()
	require.NoError(t, client.WriteJSON(clientMessage{
		Action:     "subscribe",
		ID:         id,
		Collection: collection,
	}))
}

func TestSubscribePushesInitialSnapshot(t *testing.T) {
	source := &stubSource{}
	hub := NewHub(source)
	client := dialTestHub(t, hub)

	subscribe(t, client, "board", services.CollectionTasks)

	msg := readMessage(t, client)
	require.Equal(t, "snapshot", msg.Type)
	require.Equal(t, "board", msg.ID)
	require.Equal(t, services.CollectionTasks, msg.Collection)
	require.NotNil(t, msg.Documents)
}

func TestSubscribeDeniedQuery(t *testing.T) {
	source := &stubSource{denied: services.CollectionReviews}
	hub := NewHub(source)
	client := dialTestHub(t, hub)

	subscribe(t, client, "feed", services.CollectionReviews)

	msg := readMessage(t, client)
	require.Equal(t, "error", msg.Type)
	require.Equal(t, "permission_denied", msg.Code)

	// The denied subscription must not receive pushes later.
	hub.Invalidate(services.CollectionReviews)
	expectSilence(t, client)
}

func TestInvalidatePushesFreshSnapshot(t *testing.T) {
	source := &stubSource{}
	hub := NewHub(source)
	client := dialTestHub(t, hub)

	subscribe(t, client, "board", services.CollectionTasks)
	first := readMessage(t, client)
	require.Equal(t, "snapshot", first.Type)

	hub.Invalidate(services.CollectionTasks)
	second := readMessage(t, client)
	require.Equal(t, "snapshot", second.Type)
	require.Equal(t, "board", second.ID)
	require.NotEqual(t, first.Documents, second.Documents)
}

// Task mutations change which projects and reviews a client can see, so
// a tasks invalidation fans out to those subscriptions as well.
func TestInvalidateFansOutToDependentCollections(t *testing.T) {
	source := &stubSource{}
	hub := NewHub(source)
	client := dialTestHub(t, hub)

	subscribe(t, client, "feed", services.CollectionReviews)
	readMessage(t, client)
	subscribe(t, client, "dir", services.CollectionProjects)
	readMessage(t, client)
	subscribe(t, client, "goals", services.CollectionTargets)
	readMessage(t, client)

	hub.Invalidate(services.CollectionTasks)

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		msg := readMessage(t, client)
		require.Equal(t, "snapshot", msg.Type)
		got[msg.Collection] = true
	}
	require.True(t, got[services.CollectionReviews])
	require.True(t, got[services.CollectionProjects])

	// Targets are unrelated to tasks and stay quiet.
	expectSilence(t, client)
}

func TestUnsubscribeStopsPushes(t *testing.T) {
	source := &stubSource{}
	hub := NewHub(source)
	client := dialTestHub(t, hub)

	subscribe(t, client, "board", services.CollectionTasks)
	readMessage(t, client)

	require.NoError(t, client.WriteJSON(clientMessage{Action: "unsubscribe", ID: "board"}))
	// No ack is sent; give the hub a beat to process.
	time.Sleep(50 * time.Millisecond)

	hub.Invalidate(services.CollectionTasks)
	expectSilence(t, client)
}

// Re-subscribing under the same id replaces the old query outright.
func TestResubscribeReplacesQuery(t *testing.T) {
	source := &stubSource{}
	hub := NewHub(source)
	client := dialTestHub(t, hub)

	subscribe(t, client, "view", services.CollectionTasks)
	readMessage(t, client)

	subscribe(t, client, "view", services.CollectionTargets)
	msg := readMessage(t, client)
	require.Equal(t, services.CollectionTargets, msg.Collection)

	// Only the new collection triggers pushes now.
	hub.Invalidate(services.CollectionTargets)
	msg = readMessage(t, client)
	require.Equal(t, services.CollectionTargets, msg.Collection)

	hub.Invalidate(services.CollectionNotes)
	expectSilence(t, client)
}

func TestConnectionTeardownDropsFromHub(t *testing.T) {
	source := &stubSource{}
	hub := NewHub(source)
	client := dialTestHub(t, hub)

	subscribe(t, client, "board", services.CollectionTasks)
	readMessage(t, client)
	require.Equal(t, 1, hub.ConnCount())

	require.NoError(t, client.Close())
	require.Eventually(t, func() bool { return hub.ConnCount() == 0 },
		2*time.Second, 20*time.Millisecond)

	// Invalidating with no connections must not panic.
	hub.Invalidate(services.CollectionTasks)
}
