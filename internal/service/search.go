package service

import (
	"context"
	"fmt"
	"strings"

	"dmchat/internal/domain"
)

// ConversationReader lists the messages exchanged by two users, oldest first.
type ConversationReader interface {
	ListConversation(ctx context.Context, a, b string) ([]*domain.Message, error)
}

// Searcher does case-insensitive substring matching over decrypted text.
// Stored text is ciphertext, so the filter cannot be pushed into SQL.
type Searcher struct {
	messages ConversationReader
	codec    Decrypter
}

func NewSearcher(messages ConversationReader, codec Decrypter) *Searcher {
	return &Searcher{messages: messages, codec: codec}
}

// Search returns the messages between viewerID and otherID whose text
// contains query. Attachment-only messages and messages hidden from the
// viewer never match.
func (s *Searcher) Search(ctx context.Context, viewerID, otherID, query string) ([]*domain.Message, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", domain.ErrInvalidInput)
	}
	// Surrounding spaces are part of the needle.
	needle := strings.ToLower(query)

	msgs, err := s.messages.ListConversation(ctx, viewerID, otherID)
	if err != nil {
		return nil, err
	}

	res := []*domain.Message{}
	for _, m := range msgs {
		if m.Text == "" || m.HiddenFor(viewerID) {
			continue
		}
		plain, err := s.codec.Decrypt(m.Text)
		if err != nil {
			return nil, err
		}
		if strings.Contains(strings.ToLower(plain), needle) {
			res = append(res, m)
		}
	}
	return res, nil
}
