package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dmchat/internal/domain"
	"dmchat/internal/security"
	"dmchat/internal/service"
)

func newEncryptor(t *testing.T) *security.Encryptor {
	t.Helper()
	enc, err := security.NewEncryptor([]byte("projector-secret"), nil)
	require.NoError(t, err)
	return enc
}

func sealed(t *testing.T, enc *security.Encryptor, plain string) string {
	t.Helper()
	ct, err := enc.Encrypt(plain)
	require.NoError(t, err)
	return ct
}

func TestProjectVisibility(t *testing.T) {
	enc := newEncryptor(t)
	p := service.NewProjector(enc, nil)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	att := &domain.Attachment{URL: "/api/uploads/a.png", Kind: domain.AttachmentImage, DisplayName: "a.png"}
	msgs := []*domain.Message{
		{ID: "1", SenderID: "a", ReceiverID: "b", Text: sealed(t, enc, "visible"), CreatedAt: base},
		{ID: "2", SenderID: "a", ReceiverID: "b", Text: sealed(t, enc, "mine gone"), CreatedAt: base.Add(time.Second), DeletedFor: []string{"a"}, Attachment: att},
		{ID: "3", SenderID: "b", ReceiverID: "a", Text: sealed(t, enc, "all gone"), CreatedAt: base.Add(2 * time.Second), DeletedFor: []string{"a", "b"}, IsDeleted: true},
		{ID: "4", SenderID: "b", ReceiverID: "a", CreatedAt: base.Add(3 * time.Second), Attachment: att},
	}

	forA, err := p.Project(ctx, msgs, "a")
	require.NoError(t, err)
	require.Len(t, forA, 4)
	assert.Equal(t, "visible", forA[0].Text)
	assert.False(t, forA[0].Redacted)
	assert.Equal(t, domain.DeletedPlaceholder, forA[1].Text)
	assert.True(t, forA[1].Redacted)
	assert.Nil(t, forA[1].Attachment)
	assert.Equal(t, domain.DeletedPlaceholder, forA[2].Text)
	assert.Equal(t, "", forA[3].Text)
	assert.Equal(t, att, forA[3].Attachment)

	forB, err := p.Project(ctx, msgs, "b")
	require.NoError(t, err)
	assert.Equal(t, "mine gone", forB[1].Text)
	assert.Equal(t, att, forB[1].Attachment)
	assert.Equal(t, domain.DeletedPlaceholder, forB[2].Text)

	for i := range msgs {
		assert.Equal(t, msgs[i].ID, forA[i].ID)
	}
}

func TestProjectEnrichesReactions(t *testing.T) {
	enc := newEncryptor(t)
	dir := new(MockDirectory)
	p := service.NewProjector(enc, dir)

	dir.On("Summaries", mock.Anything, []string{"b", "a"}).Return(map[string]domain.UserSummary{
		"b": {ID: "b", Name: "Bob", ProfilePic: "bob.png"},
	}, nil).Once()

	m := &domain.Message{
		ID: "1", SenderID: "a", ReceiverID: "b", Text: sealed(t, enc, "hi"),
		Reactions:  []domain.Reaction{{UserID: "b", Emoji: "👍"}, {UserID: "a", Emoji: "🔥"}},
		DeletedFor: []string{"a", "b"}, IsDeleted: true,
	}
	v, err := p.ProjectOne(context.Background(), m, "a")
	require.NoError(t, err)
	require.Len(t, v.Reactions, 2)
	assert.Equal(t, "Bob", v.Reactions[0].User.Name)
	assert.Equal(t, "bob.png", v.Reactions[0].User.ProfilePic)
	assert.Equal(t, "a", v.Reactions[1].User.Name, "unknown users fall back to their id")
	assert.True(t, v.Redacted, "reactions survive redaction")
	dir.AssertExpectations(t)
}

func TestProjectDirectoryFailureDegrades(t *testing.T) {
	enc := newEncryptor(t)
	dir := new(MockDirectory)
	p := service.NewProjector(enc, dir)
	dir.On("Summaries", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	m := &domain.Message{ID: "1", SenderID: "a", ReceiverID: "b", Text: sealed(t, enc, "hi"),
		Reactions: []domain.Reaction{{UserID: "b", Emoji: "👍"}}}
	v, err := p.ProjectOne(context.Background(), m, "a")
	require.NoError(t, err)
	assert.Equal(t, "hi", v.Text)
	assert.Equal(t, "b", v.Reactions[0].User.Name)
}

func TestProjectCryptoFailureAborts(t *testing.T) {
	enc := newEncryptor(t)
	p := service.NewProjector(enc, nil)

	msgs := []*domain.Message{
		{ID: "1", SenderID: "a", ReceiverID: "b", Text: sealed(t, enc, "fine")},
		{ID: "2", SenderID: "a", ReceiverID: "b", Text: "not-a-ciphertext"},
	}
	views, err := p.Project(context.Background(), msgs, "a")
	assert.ErrorIs(t, err, domain.ErrCrypto)
	assert.Nil(t, views)

	// A redacted message is never decrypted.
	msgs[1].DeletedFor = []string{"a"}
	views, err = p.Project(context.Background(), msgs, "a")
	require.NoError(t, err)
	assert.Len(t, views, 2)
}
