package dto

import (
	"time"

	"github.com/google/uuid"
)

// NicknameInput is the single field both register and login accept.
// The input surface caps the length at 20, same as the mobile client.
type NicknameInput struct {
	Nickname string `json:"nickname" binding:"required,min=1,max=20"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse is what the client persists: the identity pair plus
// the token that carries it on subsequent requests.
type SessionResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
