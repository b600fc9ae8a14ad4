package domain

import (
	"context"
	"time"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	ListExcept(ctx context.Context, id string) ([]*User, error)
	GetMany(ctx context.Context, ids []string) (map[string]*User, error)
}

// MessageRepository defines persistence operations for messages. Every
// mutating method is atomic for the message it touches and returns the row
// as committed, with deletions and reactions loaded.
type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id string) (*Message, error)
	ListConversation(ctx context.Context, userA, userB string) ([]*Message, error)
	AddDeletedFor(ctx context.Context, id, userID string, at time.Time) (*Message, error)
	UpdateText(ctx context.Context, id, ciphertext string, editedAt time.Time) (*Message, error)
	ReplaceReactions(ctx context.Context, id string, reactions []Reaction) (*Message, error)
	// ModifyReactions runs fn over the current reaction set and stores its
	// result under the same per-message lock.
	ModifyReactions(ctx context.Context, id string, fn func([]Reaction) []Reaction) (*Message, error)
}
