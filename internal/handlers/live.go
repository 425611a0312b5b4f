package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	apierrors "github.com/DevKano98/Web24kanban/internal/errors"
	"github.com/DevKano98/Web24kanban/internal/identity"
	"github.com/DevKano98/Web24kanban/internal/live"
	"github.com/DevKano98/Web24kanban/internal/middleware"
)

// LiveHandler terminates the live subscription transport: ticket
// issuance over the authenticated REST surface, then the WebSocket
// upgrade authenticated by that ticket.
type LiveHandler struct {
	hub      *live.Hub
	tickets  *live.TicketIssuer
	resolver *identity.Resolver
	upgrader websocket.Upgrader
}

// NewLiveHandler creates a new LiveHandler. allowedOrigins guards the
// upgrade handshake the same way CORS guards the REST surface.
func NewLiveHandler(hub *live.Hub, tickets *live.TicketIssuer, resolver *identity.Resolver, allowedOrigins []string) *LiveHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &LiveHandler{
		hub:      hub,
		tickets:  tickets,
		resolver: resolver,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins[origin]
			},
		},
	}
}

// GetTicket issues a short-lived upgrade ticket for the session user.
func (h *LiveHandler) GetTicket(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	ticket, err := h.tickets.Issue(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue ticket")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// Connect upgrades the request to a WebSocket. The ticket rides in a
// query parameter because session cookies do not accompany cross-origin
// upgrade requests.
func (h *LiveHandler) Connect(c *gin.Context) {
	ticket := c.Query("ticket")
	if ticket == "" {
		apierrors.Unauthorized(c, "Ticket required")
		return
	}

	userID, err := h.tickets.Verify(ticket)
	if err != nil {
		apierrors.Unauthorized(c, "Invalid or expired ticket")
		return
	}

	id, err := h.resolver.Resolve(userID)
	if err != nil {
		apierrors.Unauthorized(c, "")
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("live: upgrade failed: %v", err)
		return
	}

	conn := h.hub.NewConn(ws, id)
	go conn.Run()
}
