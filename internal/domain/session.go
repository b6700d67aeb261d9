package domain

import "github.com/google/uuid"

// Session is the resolved identity of the current requester. A nil *Session means
// the request is anonymous.
type Session struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role"`
}
