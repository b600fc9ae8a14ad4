package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dmchat/internal/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

const messageColumns = `id, sender_id, receiver_id, text, file_url, file_kind, file_name, created_at, edited, edited_at, is_deleted`

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	var fileURL, fileKind, fileName sql.NullString
	if a := m.Attachment; a != nil {
		fileURL = sql.NullString{String: a.URL, Valid: true}
		fileKind = sql.NullString{String: string(a.Kind), Valid: true}
		fileName = sql.NullString{String: a.DisplayName, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_key, sender_id, receiver_id, text, file_url, file_kind, file_name, created_at, edited, is_deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0)
	`,
		m.ID,
		domain.ConversationKey(m.SenderID, m.ReceiverID),
		m.SenderID,
		m.ReceiverID,
		m.Text,
		fileURL,
		fileKind,
		fileName,
		m.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MessageRepo) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	return r.load(ctx, r.db, id)
}

func (r *MessageRepo) ListConversation(ctx context.Context, userA, userB string) ([]*domain.Message, error) {
	key := domain.ConversationKey(userA, userB)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE conversation_key = ?
		ORDER BY created_at ASC, seq ASC
	`, key)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	msgs, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return msgs, nil
	}

	byID := make(map[string]*domain.Message, len(msgs))
	for _, m := range msgs {
		byID[m.ID] = m
	}

	deletions, err := r.db.QueryContext(ctx, `
		SELECT d.message_id, d.user_id
		FROM message_deletions d
		JOIN messages m ON m.id = d.message_id
		WHERE m.conversation_key = ?
		ORDER BY d.deleted_at ASC, d.user_id ASC
	`, key)
	if err != nil {
		return nil, fmt.Errorf("list deletions: %w", err)
	}
	if err := eachPair(deletions, func(msgID, userID string) {
		if m := byID[msgID]; m != nil {
			m.DeletedFor = append(m.DeletedFor, userID)
		}
	}); err != nil {
		return nil, fmt.Errorf("scan deletion: %w", err)
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT x.message_id, x.user_id, x.emoji
		FROM message_reactions x
		JOIN messages m ON m.id = x.message_id
		WHERE m.conversation_key = ?
		ORDER BY x.position ASC
	`, key)
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var msgID string
		var rc domain.Reaction
		if err := rows.Scan(&msgID, &rc.UserID, &rc.Emoji); err != nil {
			return nil, fmt.Errorf("scan reaction: %w", err)
		}
		if m := byID[msgID]; m != nil {
			m.Reactions = append(m.Reactions, rc)
		}
	}
	return msgs, rows.Err()
}

func (r *MessageRepo) AddDeletedFor(ctx context.Context, id, userID string, at time.Time) (*domain.Message, error) {
	return r.inTx(ctx, id, func(tx *sql.Tx, m *domain.Message) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO message_deletions (message_id, user_id, deleted_at)
			VALUES (?, ?, ?)
			ON CONFLICT (message_id, user_id) DO NOTHING
		`, id, userID, at.UnixNano()); err != nil {
			return fmt.Errorf("insert deletion: %w", err)
		}
		deleted, err := loadDeletions(ctx, tx, id)
		if err != nil {
			return err
		}
		m.DeletedFor = deleted
		if m.DeletedForBoth() && !m.IsDeleted {
			if _, err := tx.ExecContext(ctx, `UPDATE messages SET is_deleted = 1 WHERE id = ?`, id); err != nil {
				return fmt.Errorf("mark deleted: %w", err)
			}
		}
		return nil
	})
}

func (r *MessageRepo) UpdateText(ctx context.Context, id, ciphertext string, editedAt time.Time) (*domain.Message, error) {
	return r.inTx(ctx, id, func(tx *sql.Tx, _ *domain.Message) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE messages SET text = ?, edited = 1, edited_at = ? WHERE id = ?
		`, ciphertext, editedAt.UnixNano(), id); err != nil {
			return fmt.Errorf("update text: %w", err)
		}
		return nil
	})
}

func (r *MessageRepo) ReplaceReactions(ctx context.Context, id string, reactions []domain.Reaction) (*domain.Message, error) {
	return r.inTx(ctx, id, func(tx *sql.Tx, _ *domain.Message) error {
		return writeReactions(ctx, tx, id, reactions)
	})
}

func (r *MessageRepo) ModifyReactions(ctx context.Context, id string, fn func([]domain.Reaction) []domain.Reaction) (*domain.Message, error) {
	return r.inTx(ctx, id, func(tx *sql.Tx, m *domain.Message) error {
		return writeReactions(ctx, tx, id, fn(m.Reactions))
	})
}

// ── helpers ──────────────────────────────────────────────────────────────────

// inTx loads message id inside a transaction, runs fn, and returns the row
// as it stands right before commit.
func (r *MessageRepo) inTx(ctx context.Context, id string, fn func(tx *sql.Tx, m *domain.Message) error) (*domain.Message, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	m, err := r.load(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(tx, m); err != nil {
		return nil, err
	}
	updated, err := r.load(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return updated, nil
}

func (r *MessageRepo) load(ctx context.Context, q querier, id string) (*domain.Message, error) {
	m, err := scanMessage(q.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	if m.DeletedFor, err = loadDeletions(ctx, q, id); err != nil {
		return nil, err
	}
	if m.Reactions, err = loadReactions(ctx, q, id); err != nil {
		return nil, err
	}
	return m, nil
}

func loadDeletions(ctx context.Context, q querier, id string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT user_id FROM message_deletions WHERE message_id = ? ORDER BY deleted_at ASC, user_id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("load deletions: %w", err)
	}
	defer rows.Close()
	var res []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan deletion: %w", err)
		}
		res = append(res, userID)
	}
	return res, rows.Err()
}

func loadReactions(ctx context.Context, q querier, id string) ([]domain.Reaction, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT user_id, emoji FROM message_reactions WHERE message_id = ? ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("load reactions: %w", err)
	}
	defer rows.Close()
	var res []domain.Reaction
	for rows.Next() {
		var rc domain.Reaction
		if err := rows.Scan(&rc.UserID, &rc.Emoji); err != nil {
			return nil, fmt.Errorf("scan reaction: %w", err)
		}
		res = append(res, rc)
	}
	return res, rows.Err()
}

func writeReactions(ctx context.Context, tx *sql.Tx, id string, reactions []domain.Reaction) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM message_reactions WHERE message_id = ?`, id); err != nil {
		return fmt.Errorf("clear reactions: %w", err)
	}
	for i, rc := range reactions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO message_reactions (message_id, user_id, emoji, position) VALUES (?, ?, ?, ?)
		`, id, rc.UserID, rc.Emoji, i); err != nil {
			return fmt.Errorf("insert reaction: %w", err)
		}
	}
	return nil
}

// eachPair drains a two-column result set and closes it. The sqlite pool
// has a single connection, so rows must be released before the next query.
func eachPair(rows *sql.Rows, fn func(a, b string)) error {
	defer rows.Close()
	for rows.Next() {
		var a, b string
		if err := rows.Scan(&a, &b); err != nil {
			return err
		}
		fn(a, b)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(s rowScanner) (*domain.Message, error) {
	var m domain.Message
	var fileURL, fileKind, fileName sql.NullString
	var createdAt int64
	var editedAt sql.NullInt64
	if err := s.Scan(
		&m.ID,
		&m.SenderID,
		&m.ReceiverID,
		&m.Text,
		&fileURL,
		&fileKind,
		&fileName,
		&createdAt,
		&m.Edited,
		&editedAt,
		&m.IsDeleted,
	); err != nil {
		return nil, err
	}
	m.CreatedAt = time.Unix(0, createdAt).UTC()
	if editedAt.Valid {
		t := time.Unix(0, editedAt.Int64).UTC()
		m.EditedAt = &t
	}
	if fileURL.Valid {
		m.Attachment = &domain.Attachment{
			URL:         fileURL.String,
			Kind:        domain.AttachmentKind(fileKind.String),
			DisplayName: fileName.String,
		}
	}
	return &m, nil
}

func scanMessages(rows *sql.Rows) ([]*domain.Message, error) {
	defer rows.Close()
	res := []*domain.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
