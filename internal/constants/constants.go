package constants

import "time"

// Session / context keys
const (
	SessionCookieName = "web24_session"
	ContextKeyUserID  = "user_id"
	ContextKeyIdentity = "identity"
)

// Password policy
const MinPasswordLength = 6

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Partner enrollment retry policy for the authorization-propagation
// window right after credential creation.
const (
	EnrollmentLookupAttempts = 3
	EnrollmentRetryBackoff   = 2 * time.Second
)

// Live ticket lifetime. Tickets are single-purpose credentials for the
// WebSocket upgrade, so they stay short.
const LiveTicketTTL = 1 * time.Minute
