package store_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmchat/internal/domain"
	"dmchat/internal/security"
	"dmchat/internal/store"
	"dmchat/internal/store/sqlite"
)

type fixture struct {
	db    *sql.DB
	enc   *security.Encryptor
	store *store.MessageStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(db))

	enc, err := security.NewEncryptor([]byte("test-secret"), nil)
	require.NoError(t, err)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s := store.NewMessageStore(sqlite.NewMessageRepo(db), enc).WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})
	return &fixture{db: db, enc: enc, store: s}
}

func strPtr(s string) *string { return &s }

func TestCreateRequiresTextOrAttachment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Create(ctx, "a", "b", nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.store.Create(ctx, "a", "b", strPtr(""), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateRejectsUnknownAttachmentKind(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Create(context.Background(), "a", "b", nil, &domain.Attachment{
		URL:  "/api/uploads/x.bin",
		Kind: "archive",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateStoresCiphertext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.store.Create(ctx, "a", "b", strPtr("hello there"), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.NotEqual(t, "hello there", m.Text)

	var raw string
	require.NoError(t, f.db.QueryRow(`SELECT text FROM messages WHERE id = ?`, m.ID).Scan(&raw))
	assert.NotContains(t, raw, "hello")

	plain, err := f.enc.Decrypt(raw)
	require.NoError(t, err)
	assert.Equal(t, "hello there", plain)
}

func TestCreateMediaOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.store.Create(ctx, "a", "b", nil, &domain.Attachment{
		URL:         "/api/uploads/cat.png",
		Kind:        domain.AttachmentImage,
		DisplayName: "cat.png",
	})
	require.NoError(t, err)

	got, err := f.store.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Text)
	require.NotNil(t, got.Attachment)
	assert.Equal(t, domain.AttachmentImage, got.Attachment.Kind)
	assert.Equal(t, "cat.png", got.Attachment.DisplayName)
}

func TestListConversationOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m1, err := f.store.Create(ctx, "a", "b", strPtr("one"), nil)
	require.NoError(t, err)
	_, err = f.store.Create(ctx, "a", "c", strPtr("elsewhere"), nil)
	require.NoError(t, err)
	m2, err := f.store.Create(ctx, "b", "a", strPtr("two"), nil)
	require.NoError(t, err)
	m3, err := f.store.Create(ctx, "a", "b", strPtr("three"), nil)
	require.NoError(t, err)

	for _, pair := range [][2]string{{"a", "b"}, {"b", "a"}} {
		msgs, err := f.store.ListConversation(ctx, pair[0], pair[1])
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		assert.Equal(t, []string{m1.ID, m2.ID, m3.ID}, []string{msgs[0].ID, msgs[1].ID, msgs[2].ID})
	}

	msgs, err := f.store.ListConversation(ctx, "b", "c")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestListConversationSameTimestampKeepsInsertOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f.store.WithClock(func() time.Time { return at })

	var ids []string
	for _, text := range []string{"x", "y", "z"} {
		m, err := f.store.Create(ctx, "a", "b", strPtr(text), nil)
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	msgs, err := f.store.ListConversation(ctx, "a", "b")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	for i, m := range msgs {
		assert.Equal(t, ids[i], m.ID)
	}
}

func TestMarkDeletedFor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.store.Create(ctx, "a", "b", strPtr("bye"), nil)
	require.NoError(t, err)

	got, err := f.store.MarkDeletedFor(ctx, m.ID, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.DeletedFor)
	assert.False(t, got.IsDeleted)

	got, err = f.store.MarkDeletedFor(ctx, m.ID, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.DeletedFor, "second delete by the same user is a no-op")
	assert.False(t, got.IsDeleted)

	got, err = f.store.MarkDeletedFor(ctx, m.ID, "b")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, got.DeletedFor)
	assert.True(t, got.IsDeleted)

	got, err = f.store.MarkDeletedFor(ctx, m.ID, "b")
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
}

func TestMarkDeletedForRejectsOutsider(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.store.Create(ctx, "a", "b", strPtr("private"), nil)
	require.NoError(t, err)

	_, err = f.store.MarkDeletedFor(ctx, m.ID, "mallory")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.store.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, got.DeletedFor)
}

func TestSetTextKeepsDeletionState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.store.Create(ctx, "a", "b", strPtr("first"), nil)
	require.NoError(t, err)
	_, err = f.store.MarkDeletedFor(ctx, m.ID, "a")
	require.NoError(t, err)
	_, err = f.store.MarkDeletedFor(ctx, m.ID, "b")
	require.NoError(t, err)

	got, err := f.store.SetText(ctx, m.ID, "second")
	require.NoError(t, err)
	assert.True(t, got.Edited)
	require.NotNil(t, got.EditedAt)
	assert.True(t, got.IsDeleted)
	assert.ElementsMatch(t, []string{"a", "b"}, got.DeletedFor)

	plain, err := f.enc.Decrypt(got.Text)
	require.NoError(t, err)
	assert.Equal(t, "second", plain)
}

func TestReactions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.store.Create(ctx, "a", "b", strPtr("nice"), nil)
	require.NoError(t, err)

	got, err := f.store.React(ctx, m.ID, "b", "👍")
	require.NoError(t, err)
	assert.Equal(t, []domain.Reaction{{UserID: "b", Emoji: "👍"}}, got.Reactions)

	got, err = f.store.React(ctx, m.ID, "a", "🔥")
	require.NoError(t, err)
	got, err = f.store.React(ctx, m.ID, "b", "❤️")
	require.NoError(t, err)
	assert.Equal(t, []domain.Reaction{{UserID: "b", Emoji: "❤️"}, {UserID: "a", Emoji: "🔥"}}, got.Reactions)

	got, err = f.store.React(ctx, m.ID, "a", "🔥")
	require.NoError(t, err)
	assert.Equal(t, []domain.Reaction{{UserID: "b", Emoji: "❤️"}}, got.Reactions)

	got, err = f.store.SetReactions(ctx, m.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, got.Reactions)
}

func TestConcurrentReactionsAreNotLost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.store.Create(ctx, "a", "b", strPtr("race"), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, user := range []string{"a", "b"} {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			_, err := f.store.React(ctx, m.ID, user, "🎉")
			assert.NoError(t, err)
		}(user)
	}
	wg.Wait()

	got, err := f.store.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Reaction{{UserID: "a", Emoji: "🎉"}, {UserID: "b", Emoji: "🎉"}}, got.Reactions)
}

func TestUnknownMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.store.MarkDeletedFor(ctx, "missing", "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.store.SetText(ctx, "missing", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.store.SetReactions(ctx, "missing", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.store.React(ctx, "missing", "a", "👍")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
