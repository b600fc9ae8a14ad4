// Package store owns message persistence: validation, encryption at rest
// and per-message atomic mutations on top of a SQL repository.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dmchat/internal/domain"
	"dmchat/internal/reaction"
)

// Codec encrypts message text before it reaches the repository.
type Codec interface {
	Encrypt(plain string) (string, error)
	Decrypt(enc string) (string, error)
}

type MessageStore struct {
	repo  domain.MessageRepository
	codec Codec
	now   func() time.Time
}

func NewMessageStore(repo domain.MessageRepository, codec Codec) *MessageStore {
	return &MessageStore{
		repo:  repo,
		codec: codec,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Used by tests.
func (s *MessageStore) WithClock(now func() time.Time) *MessageStore {
	s.now = now
	return s
}

// Create validates and persists a new message. text may be nil for
// attachment-only messages; the returned row carries ciphertext.
func (s *MessageStore) Create(ctx context.Context, senderID, receiverID string, text *string, att *domain.Attachment) (*domain.Message, error) {
	hasText := text != nil && *text != ""
	if !hasText && att == nil {
		return nil, fmt.Errorf("%w: message needs text or an attachment", domain.ErrInvalidInput)
	}
	if err := att.Validate(); err != nil {
		return nil, err
	}

	var enc string
	if hasText {
		var err error
		if enc, err = s.codec.Encrypt(*text); err != nil {
			return nil, fmt.Errorf("encrypt text: %w: %w", domain.ErrCrypto, err)
		}
	}

	m := &domain.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       enc,
		CreatedAt:  s.now(),
	}
	if att != nil {
		a := *att
		m.Attachment = &a
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, wrap("create message", err)
	}
	return m, nil
}

func (s *MessageStore) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrap("find message", err)
	}
	return m, nil
}

// ListConversation returns every message between a and b, oldest first.
func (s *MessageStore) ListConversation(ctx context.Context, a, b string) ([]*domain.Message, error) {
	msgs, err := s.repo.ListConversation(ctx, a, b)
	if err != nil {
		return nil, wrap("list conversation", err)
	}
	return msgs, nil
}

// MarkDeletedFor hides the message for userID. Repeating the call is a
// no-op; once both participants have hidden it the message is deleted for
// good.
func (s *MessageStore) MarkDeletedFor(ctx context.Context, id, userID string) (*domain.Message, error) {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.IsParticipant(userID) {
		return nil, fmt.Errorf("%w: %s is not part of this conversation", domain.ErrInvalidInput, userID)
	}
	m, err := s.repo.AddDeletedFor(ctx, id, userID, s.now())
	if err != nil {
		return nil, wrap("mark deleted", err)
	}
	return m, nil
}

// SetText replaces the text and marks the message edited. Deletion state is
// left alone.
func (s *MessageStore) SetText(ctx context.Context, id, plain string) (*domain.Message, error) {
	enc, err := s.codec.Encrypt(plain)
	if err != nil {
		return nil, fmt.Errorf("encrypt text: %w: %w", domain.ErrCrypto, err)
	}
	m, err := s.repo.UpdateText(ctx, id, enc, s.now())
	if err != nil {
		return nil, wrap("set text", err)
	}
	return m, nil
}

func (s *MessageStore) SetReactions(ctx context.Context, id string, reactions []domain.Reaction) (*domain.Message, error) {
	m, err := s.repo.ReplaceReactions(ctx, id, reactions)
	if err != nil {
		return nil, wrap("set reactions", err)
	}
	return m, nil
}

// React applies userID's emoji to the current reaction set in one atomic
// step, so two users reacting at once never overwrite each other.
func (s *MessageStore) React(ctx context.Context, id, userID, emoji string) (*domain.Message, error) {
	m, err := s.repo.ModifyReactions(ctx, id, func(existing []domain.Reaction) []domain.Reaction {
		return reaction.Apply(existing, userID, emoji)
	})
	if err != nil {
		return nil, wrap("react", err)
	}
	return m, nil
}

var domainErrors = []error{
	domain.ErrNotFound,
	domain.ErrInvalidInput,
	domain.ErrForbidden,
	domain.ErrCrypto,
	domain.ErrStore,
}

// wrap tags repository failures with ErrStore unless they already carry a
// domain meaning.
func wrap(op string, err error) error {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStore, err)
}
