package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"dmchat/internal/domain"
)

// Decrypter turns stored ciphertext back into text.
type Decrypter interface {
	Decrypt(enc string) (string, error)
}

// UserDirectory looks up display data for reaction authors.
type UserDirectory interface {
	Summaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error)
}

// Projector renders stored messages as a particular viewer may see them.
type Projector struct {
	codec Decrypter
	users UserDirectory
}

func NewProjector(codec Decrypter, users UserDirectory) *Projector {
	return &Projector{codec: codec, users: users}
}

// Project maps msgs to views for viewerID, keeping their order. A single
// decryption failure fails the whole call.
func (p *Projector) Project(ctx context.Context, msgs []*domain.Message, viewerID string) ([]*domain.ViewMessage, error) {
	people := p.reactors(ctx, msgs)
	out := make([]*domain.ViewMessage, 0, len(msgs))
	for _, m := range msgs {
		v, err := p.view(m, viewerID, people)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (p *Projector) ProjectOne(ctx context.Context, m *domain.Message, viewerID string) (*domain.ViewMessage, error) {
	views, err := p.Project(ctx, []*domain.Message{m}, viewerID)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// reactors resolves every reacting user once. Lookup failures are logged
// and leave the map empty so callers fall back to raw ids.
func (p *Projector) reactors(ctx context.Context, msgs []*domain.Message) map[string]domain.UserSummary {
	seen := make(map[string]struct{})
	var ids []string
	for _, m := range msgs {
		for _, r := range m.Reactions {
			if _, ok := seen[r.UserID]; ok {
				continue
			}
			seen[r.UserID] = struct{}{}
			ids = append(ids, r.UserID)
		}
	}
	if len(ids) == 0 || p.users == nil {
		return nil
	}
	people, err := p.users.Summaries(ctx, ids)
	if err != nil {
		log.WithError(err).Warn("projector: reaction user lookup failed")
		return nil
	}
	return people
}

func (p *Projector) view(m *domain.Message, viewerID string, people map[string]domain.UserSummary) (*domain.ViewMessage, error) {
	v := &domain.ViewMessage{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		CreatedAt:  m.CreatedAt,
		Edited:     m.Edited,
		EditedAt:   m.EditedAt,
		DeletedFor: append([]string{}, m.DeletedFor...),
		IsDeleted:  m.IsDeleted,
		Reactions:  make([]domain.ReactionView, 0, len(m.Reactions)),
	}

	if m.HiddenFor(viewerID) {
		v.Text = domain.DeletedPlaceholder
		v.Redacted = true
	} else {
		text, err := p.codec.Decrypt(m.Text)
		if err != nil {
			return nil, err
		}
		v.Text = text
		if m.Attachment != nil {
			a := *m.Attachment
			v.Attachment = &a
		}
	}

	// Reactions stay visible on redacted messages.
	for _, r := range m.Reactions {
		who, ok := people[r.UserID]
		if !ok {
			who = domain.UserSummary{ID: r.UserID, Name: r.UserID}
		}
		v.Reactions = append(v.Reactions, domain.ReactionView{UserID: r.UserID, Emoji: r.Emoji, User: who})
	}
	return v, nil
}
