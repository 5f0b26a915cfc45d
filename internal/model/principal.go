package model

import "github.com/google/uuid"

// Principal is the authenticated identity bound to a request. OrgID is the
// tenant boundary: every scoped route compares it against the path org.
type Principal struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   string
}
