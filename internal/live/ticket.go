package live

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/DevKano98/Web24kanban/internal/constants"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidTicket = errors.New("live: invalid or expired ticket")

// TicketIssuer mints the short-lived tokens a browser presents on the
// WebSocket upgrade. Session cookies do not ride along on cross-origin
// upgrade requests, so the client first asks the REST API for a ticket
// and then hands it over as a query parameter.
type TicketIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTicketIssuer creates an issuer signing with the given secret.
func NewTicketIssuer(secret string) *TicketIssuer {
	return &TicketIssuer{
		secret: []byte(secret),
		ttl:    constants.LiveTicketTTL,
	}
}

// Issue returns a signed single-purpose ticket for the user.
func (t *TicketIssuer) Issue(userID uint64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign ticket: %w", err)
	}
	return signed, nil
}

// Verify validates a ticket and returns the user id it was issued for.
func (t *TicketIssuer) Verify(ticket string) (uint64, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(ticket, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidTicket
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidTicket
	}
	return userID, nil
}
