package live

import (
	"log"
	"sync"
	"time"

	"github.com/DevKano98/Web24kanban/internal/policy"
	"github.com/DevKano98/Web24kanban/internal/services"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Hub tracks every live connection and re-runs affected queries when a
// collection is invalidated. It implements services.Notifier.
type Hub struct {
	source Source

	mu    sync.RWMutex
	conns map[*Conn]bool

	// dependents maps a collection to the other collections whose query
	// results can change when it does: task mutations move clients in
	// and out of project and review visibility.
	dependents map[string][]string
}

// NewHub creates a Hub over the given source.
func NewHub(source Source) *Hub {
	return &Hub{
		source: source,
		conns:  make(map[*Conn]bool),
		dependents: map[string][]string{
			services.CollectionTasks: {
				services.CollectionReviews,
				services.CollectionProjects,
			},
			services.CollectionProjects: {
				services.CollectionReviews,
			},
		},
	}
}

// Invalidate re-pushes every open subscription on the collection and its
// dependents. Mutation paths call this after a successful write.
func (h *Hub) Invalidate(collection string) {
	affected := map[string]bool{collection: true}
	for _, dep := range h.dependents[collection] {
		affected[dep] = true
	}

	// Copy the connection set so pushes happen outside the lock.
	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.refresh(affected)
	}
}

// NewConn wraps an upgraded websocket for an authenticated identity and
// registers it with the hub.
func (h *Hub) NewConn(ws *websocket.Conn, id policy.Identity) *Conn {
	c := &Conn{
		id:       uuid.NewString(),
		ws:       ws,
		identity: id,
		hub:      h,
		subs:     make(map[string]*Subscription),
	}

	h.mu.Lock()
	h.conns[c] = true
	h.mu.Unlock()

	return c
}

func (h *Hub) drop(c *Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

// ConnCount reports the number of registered connections.
func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// clientMessage is what the browser sends over the socket.
type clientMessage struct {
	Action     string      `json:"action"`
	ID         string      `json:"id"`
	Collection string      `json:"collection"`
	Params     QueryParams `json:"params"`
}

// serverMessage is what the hub pushes back.
type serverMessage struct {
	Type       string `json:"type"`
	ID         string `json:"id,omitempty"`
	Collection string `json:"collection,omitempty"`
	Documents  any    `json:"documents,omitempty"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Conn is one websocket connection and its subscription registry.
type Conn struct {
	id       string
	ws       *websocket.Conn
	identity policy.Identity
	hub      *Hub

	mu   sync.Mutex // guards subs
	wmu  sync.Mutex // serializes socket writes
	subs map[string]*Subscription
}

// Identity returns the identity the connection was opened with.
func (c *Conn) Identity() policy.Identity { return c.identity }

// Run services the connection until the peer goes away: welcome message,
// ping loop, then the read loop dispatching subscribe/unsubscribe.
func (c *Conn) Run() {
	defer c.close()

	c.ws.SetReadLimit(maxMessageSize)
	if err := c.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("live: failed to set read deadline: %v", err)
		return
	}
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	c.write(serverMessage{Type: "connected", ID: c.id})

	stop := make(chan struct{})
	defer close(stop)
	go c.pingLoop(stop)

	for {
		var msg clientMessage
		if err := c.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("live: connection %s read error: %v", c.id, err)
			}
			return
		}

		switch msg.Action {
		case "subscribe":
			c.subscribe(msg.ID, Query{Collection: msg.Collection, Params: msg.Params})
		case "unsubscribe":
			c.unsubscribe(msg.ID)
		default:
			c.write(serverMessage{
				Type:    "error",
				ID:      msg.ID,
				Code:    "unknown_action",
				Message: "unknown action " + msg.Action,
			})
		}
	}
}

func (c *Conn) pingLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.wmu.Lock()
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err == nil {
				err = c.ws.WriteMessage(websocket.PingMessage, nil)
				if err != nil {
					c.wmu.Unlock()
					log.Printf("live: ping failed for connection %s: %v", c.id, err)
					return
				}
			}
			c.wmu.Unlock()
		}
	}
}

// subscribe opens a live query under a client-chosen id. Re-subscribing
// under the same id tears the previous query down first so the old
// filter can never push into the new view.
func (c *Conn) subscribe(id string, q Query) {
	if id == "" {
		c.write(serverMessage{Type: "error", Code: "invalid_subscription", Message: "subscription id is required"})
		return
	}

	c.mu.Lock()
	if prev, ok := c.subs[id]; ok {
		c.teardown(prev)
		delete(c.subs, id)
	}

	sub := NewSubscription(id, q)
	if err := sub.Opening(); err != nil {
		c.mu.Unlock()
		return
	}
	c.subs[id] = sub
	c.mu.Unlock()

	if err := c.hub.source.Authorize(c.identity, q); err != nil {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
		sub.Close()

		code := "internal"
		if err == ErrQueryDenied {
			code = "permission_denied"
		}
		c.write(serverMessage{Type: "error", ID: id, Collection: q.Collection, Code: code, Message: err.Error()})
		return
	}

	c.push(sub)

	if err := sub.Opened(); err != nil {
		// Torn down while opening; nothing more to do.
		return
	}
}

func (c *Conn) unsubscribe(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sub, ok := c.subs[id]; ok {
		c.teardown(sub)
		delete(c.subs, id)
	}
}

// teardown walks a subscription through Closing to Closed. Callers hold c.mu.
func (c *Conn) teardown(sub *Subscription) {
	if err := sub.Closing(); err != nil {
		// Never made it to Open; force it shut.
		sub.Close()
		return
	}
	sub.Close()
}

// refresh re-pushes every open subscription on an affected collection.
func (c *Conn) refresh(affected map[string]bool) {
	c.mu.Lock()
	subs := make([]*Subscription, 0, len(c.subs))
	for _, sub := range c.subs {
		if affected[sub.Query.Collection] && sub.State() == StateOpen {
			subs = append(subs, sub)
		}
	}
	c.mu.Unlock()

	for _, sub := range subs {
		c.push(sub)
	}
}

// push delivers the full current result set for one subscription. A
// failed or no-longer-authorized query degrades to an empty document set
// rather than tearing the view down.
func (c *Conn) push(sub *Subscription) {
	docs := emptyDocuments
	if err := c.hub.source.Authorize(c.identity, sub.Query); err != nil {
		if err != ErrQueryDenied {
			log.Printf("live: authorize failed for %s/%s: %v", c.id, sub.ID, err)
		}
	} else if snapshot, err := c.hub.source.Snapshot(c.identity, sub.Query); err != nil {
		log.Printf("live: snapshot failed for %s/%s: %v", c.id, sub.ID, err)
	} else {
		docs = snapshot
	}

	c.write(serverMessage{
		Type:       "snapshot",
		ID:         sub.ID,
		Collection: sub.Query.Collection,
		Documents:  docs,
	})
}

var emptyDocuments any = []struct{}{}

func (c *Conn) write(msg serverMessage) {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("live: failed to set write deadline: %v", err)
		return
	}
	if err := c.ws.WriteJSON(msg); err != nil {
		log.Printf("live: write failed for connection %s: %v", c.id, err)
	}
}

// close releases every subscription and drops the connection from the
// hub, so no later invalidation can write into a defunct view.
func (c *Conn) close() {
	c.mu.Lock()
	for id, sub := range c.subs {
		c.teardown(sub)
		delete(c.subs, id)
	}
	c.mu.Unlock()

	c.hub.drop(c)
	c.ws.Close()
	log.Printf("live: connection %s closed", c.id)
}
