package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"dmchat/internal/blob"
	"dmchat/internal/domain"
	"dmchat/internal/metrics"
	"dmchat/internal/store"
)

// DefaultMaxMessageLength is the rune limit applied when none is configured.
const DefaultMaxMessageLength = 5000

// Notifier pushes an event to the live connections of each recipient. Each
// recipient gets the view rendered for them. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, kind domain.EventKind, deliveries map[string]*domain.ViewMessage)
}

// Uploader stores base64 or data-URL encoded media.
type Uploader interface {
	UploadEncoded(ctx context.Context, encoded, name string) (*blob.Upload, error)
}

type MessageService struct {
	messages  *store.MessageStore
	users     domain.UserRepository
	projector *Projector
	searcher  *Searcher
	notifier  Notifier
	uploads   Uploader

	MaxMessageLength int
}

func NewMessageService(
	messages *store.MessageStore,
	users domain.UserRepository,
	projector *Projector,
	searcher *Searcher,
	notifier Notifier,
	uploads Uploader,
	maxLength int,
) *MessageService {
	if maxLength <= 0 {
		maxLength = DefaultMaxMessageLength
	}
	return &MessageService{
		messages:         messages,
		users:            users,
		projector:        projector,
		searcher:         searcher,
		notifier:         notifier,
		uploads:          uploads,
		MaxMessageLength: maxLength,
	}
}

type SendInput struct {
	Text       *string            `json:"text,omitempty"`
	Attachment *domain.Attachment `json:"attachment,omitempty"`
	// File is an inline base64 or data-URL payload uploaded before the
	// message is stored.
	File     string `json:"file,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// Partners lists the users userID can talk to.
func (s *MessageService) Partners(ctx context.Context, userID string) ([]*domain.User, error) {
	users, err := s.users.ListExcept(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w: %w", domain.ErrStore, err)
	}
	return users, nil
}

// Conversation returns the full history between viewerID and otherID as
// viewerID may see it.
func (s *MessageService) Conversation(ctx context.Context, viewerID, otherID string) ([]*domain.ViewMessage, error) {
	msgs, err := s.messages.ListConversation(ctx, viewerID, otherID)
	if err != nil {
		return nil, err
	}
	return s.projector.Project(ctx, msgs, viewerID)
}

func (s *MessageService) Send(ctx context.Context, senderID, receiverID string, in SendInput) (*domain.ViewMessage, error) {
	if err := s.checkReceiver(ctx, senderID, receiverID); err != nil {
		return nil, err
	}
	if in.Text != nil {
		if err := s.checkLength(*in.Text); err != nil {
			return nil, err
		}
	}
	if in.File != "" && in.Attachment != nil {
		return nil, fmt.Errorf("%w: send either file or attachment, not both", domain.ErrInvalidInput)
	}

	att := in.Attachment
	if in.File != "" {
		up, err := s.upload(ctx, in.File, in.FileName)
		if err != nil {
			return nil, err
		}
		att = up.Attachment()
	}

	m, err := s.messages.Create(ctx, senderID, receiverID, in.Text, att)
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, domain.EventCreated, m, senderID)
}

// SendVoice stores a recorded clip and sends it as an audio message.
func (s *MessageService) SendVoice(ctx context.Context, senderID, receiverID, audioData string) (*domain.ViewMessage, error) {
	if strings.TrimSpace(audioData) == "" {
		return nil, fmt.Errorf("%w: audio data is required", domain.ErrInvalidInput)
	}
	if err := s.checkReceiver(ctx, senderID, receiverID); err != nil {
		return nil, err
	}
	up, err := s.upload(ctx, audioData, "voice_message")
	if err != nil {
		return nil, err
	}
	att := up.Attachment()
	// Browsers record into webm/ogg containers that sniff as video.
	att.Kind = domain.AttachmentAudio

	m, err := s.messages.Create(ctx, senderID, receiverID, nil, att)
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, domain.EventCreated, m, senderID)
}

// Edit replaces the text of a message. Only its sender may edit it.
func (s *MessageService) Edit(ctx context.Context, callerID, messageID, text string) (*domain.ViewMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}
	if err := s.checkLength(text); err != nil {
		return nil, err
	}

	m, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if m.SenderID != callerID {
		return nil, fmt.Errorf("%w: only the sender can edit a message", domain.ErrForbidden)
	}

	m, err = s.messages.SetText(ctx, messageID, text)
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, domain.EventEdited, m, callerID)
}

// Delete hides a message for the caller. The response is the caller's
// (redacted) view.
func (s *MessageService) Delete(ctx context.Context, callerID, messageID string) (*domain.ViewMessage, error) {
	m, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if !m.IsParticipant(callerID) {
		return nil, fmt.Errorf("%w: not part of this conversation", domain.ErrForbidden)
	}

	m, err = s.messages.MarkDeletedFor(ctx, messageID, callerID)
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, domain.EventDeleted, m, callerID)
}

// React toggles the caller's emoji on a message.
func (s *MessageService) React(ctx context.Context, callerID, messageID, emoji string) (*domain.ViewMessage, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, fmt.Errorf("%w: emoji is required", domain.ErrInvalidInput)
	}

	m, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if !m.IsParticipant(callerID) {
		return nil, fmt.Errorf("%w: not part of this conversation", domain.ErrForbidden)
	}

	m, err = s.messages.React(ctx, messageID, callerID, emoji)
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, domain.EventReacted, m, callerID)
}

func (s *MessageService) Search(ctx context.Context, viewerID, otherID, query string) ([]*domain.ViewMessage, error) {
	msgs, err := s.searcher.Search(ctx, viewerID, otherID, query)
	if err != nil {
		return nil, err
	}
	return s.projector.Project(ctx, msgs, viewerID)
}

func (s *MessageService) checkReceiver(ctx context.Context, senderID, receiverID string) error {
	if receiverID == "" || receiverID == senderID {
		return fmt.Errorf("%w: invalid receiver", domain.ErrInvalidInput)
	}
	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("receiver: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("get receiver: %w: %w", domain.ErrStore, err)
	}
	return nil
}

func (s *MessageService) checkLength(text string) error {
	if n := utf8.RuneCountInString(text); n > s.MaxMessageLength {
		return fmt.Errorf("%w: message is %d characters, limit is %d", domain.ErrInvalidInput, n, s.MaxMessageLength)
	}
	return nil
}

func (s *MessageService) upload(ctx context.Context, encoded, name string) (*blob.Upload, error) {
	if s.uploads == nil {
		return nil, fmt.Errorf("%w: uploads are disabled", domain.ErrInvalidInput)
	}
	up, err := s.uploads.UploadEncoded(ctx, encoded, name)
	if err != nil {
		return nil, err
	}
	metrics.Uploads.WithLabelValues(string(up.Kind)).Inc()
	return up, nil
}

// publish renders m for both participants, hands the views to the notifier
// and returns the caller's view. It runs after the mutation has committed,
// so a cancelled request still gets its event out.
func (s *MessageService) publish(ctx context.Context, kind domain.EventKind, m *domain.Message, callerID string) (*domain.ViewMessage, error) {
	metrics.MessageEvents.WithLabelValues(string(kind)).Inc()
	ctx = context.WithoutCancel(ctx)

	deliveries := make(map[string]*domain.ViewMessage, 2)
	var callerErr error
	for _, userID := range []string{m.SenderID, m.ReceiverID} {
		v, err := s.projector.ProjectOne(ctx, m, userID)
		if err != nil {
			if userID == callerID {
				callerErr = err
			}
			log.WithError(err).WithField("message_id", m.ID).Errorf("dispatch: %v: could not render for %s", domain.ErrDispatch, userID)
			metrics.DispatchFailures.WithLabelValues("projection").Inc()
			continue
		}
		deliveries[userID] = v
	}

	if s.notifier != nil && len(deliveries) > 0 {
		s.notifier.Notify(ctx, kind, deliveries)
	}
	if callerErr != nil {
		return nil, callerErr
	}
	return deliveries[callerID], nil
}
