package domain

import (
	"fmt"
	"time"
)

// DeletedPlaceholder replaces the text of messages hidden from a viewer.
const DeletedPlaceholder = "deleted message"

// User is the identity collaborator: just enough to list partners and
// decorate reactions.
type User struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Email      *string   `db:"email" json:"email,omitempty"`
	ProfilePic string    `db:"profile_pic" json:"profile_pic"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// UserSummary is the public shape of a user embedded in responses.
type UserSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProfilePic string `json:"profile_pic,omitempty"`
}

type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentVideo AttachmentKind = "video"
	AttachmentPDF   AttachmentKind = "pdf"
	AttachmentAudio AttachmentKind = "audio"
)

// Valid reports whether k is one of the supported media kinds.
func (k AttachmentKind) Valid() bool {
	switch k {
	case AttachmentImage, AttachmentVideo, AttachmentPDF, AttachmentAudio:
		return true
	}
	return false
}

// Attachment is the media part of a message. It never changes once set.
type Attachment struct {
	URL         string         `json:"url"`
	Kind        AttachmentKind `json:"kind"`
	DisplayName string         `json:"display_name"`
}

func (a *Attachment) Validate() error {
	if a == nil {
		return nil
	}
	if a.URL == "" {
		return fmt.Errorf("%w: attachment url is required", ErrInvalidInput)
	}
	if !a.Kind.Valid() {
		return fmt.Errorf("%w: unsupported attachment kind %q", ErrInvalidInput, a.Kind)
	}
	return nil
}

// Reaction is one user's emoji on one message.
type Reaction struct {
	UserID string `db:"user_id" json:"user_id"`
	Emoji  string `db:"emoji" json:"emoji"`
}

// Message represents a single direct message as stored.
type Message struct {
	ID         string      `db:"id"`
	SenderID   string      `db:"sender_id"`
	ReceiverID string      `db:"receiver_id"`
	Text       string      `db:"text"` // encrypted at rest, empty for media-only messages
	Attachment *Attachment `db:"-"`
	CreatedAt  time.Time   `db:"created_at"`
	Edited     bool        `db:"edited"`
	EditedAt   *time.Time  `db:"edited_at"`
	DeletedFor []string    `db:"-"`
	IsDeleted  bool        `db:"is_deleted"`
	Reactions  []Reaction  `db:"-"`
}

// IsParticipant reports whether userID is the sender or the receiver.
func (m *Message) IsParticipant(userID string) bool {
	return userID == m.SenderID || userID == m.ReceiverID
}

// HiddenFor reports whether viewerID must see the redacted form.
func (m *Message) HiddenFor(viewerID string) bool {
	if m.IsDeleted {
		return true
	}
	for _, id := range m.DeletedFor {
		if id == viewerID {
			return true
		}
	}
	return false
}

// DeletedForBoth reports whether both participants have hidden the message.
func (m *Message) DeletedForBoth() bool {
	var sender, receiver bool
	for _, id := range m.DeletedFor {
		sender = sender || id == m.SenderID
		receiver = receiver || id == m.ReceiverID
	}
	return sender && receiver
}

// ConversationKey is the order-independent key of the pair {a, b}.
func ConversationKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

// ReactionView is a reaction decorated with the reacting user.
type ReactionView struct {
	UserID string      `json:"user_id"`
	Emoji  string      `json:"emoji"`
	User   UserSummary `json:"user"`
}

// ViewMessage is what a given viewer is allowed to see of a Message.
type ViewMessage struct {
	ID         string         `json:"id"`
	SenderID   string         `json:"sender_id"`
	ReceiverID string         `json:"receiver_id"`
	Text       string         `json:"text"`
	Attachment *Attachment    `json:"attachment"`
	CreatedAt  time.Time      `json:"created_at"`
	Edited     bool           `json:"edited"`
	EditedAt   *time.Time     `json:"edited_at,omitempty"`
	DeletedFor []string       `json:"deleted_for"`
	IsDeleted  bool           `json:"is_deleted"`
	Redacted   bool           `json:"redacted"`
	Reactions  []ReactionView `json:"reactions"`
}

type EventKind string

const (
	EventCreated EventKind = "created"
	EventEdited  EventKind = "edited"
	EventDeleted EventKind = "deleted"
	EventReacted EventKind = "reacted"
)
