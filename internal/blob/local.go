// Package blob stores uploaded media on the local filesystem and serves it
// back under a URL prefix.
package blob

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"dmchat/internal/domain"
)

// Upload describes a stored file.
type Upload struct {
	URL          string                `json:"url"`
	OriginalName string                `json:"original_name"`
	Format       string                `json:"format"`
	Kind         domain.AttachmentKind `json:"kind"`
	Size         int64                 `json:"size"`
}

// Attachment returns the message attachment for this upload.
func (u *Upload) Attachment() *domain.Attachment {
	return &domain.Attachment{URL: u.URL, Kind: u.Kind, DisplayName: u.OriginalName}
}

type LocalStore struct {
	dir       string
	urlPrefix string
	maxSize   int64
}

// NewLocalStore creates dir if needed. Files are published as
// urlPrefix + "/" + generated name.
func NewLocalStore(dir, urlPrefix string, maxSize int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		maxSize:   maxSize,
	}, nil
}

// MaxSize is the largest accepted upload in bytes.
func (s *LocalStore) MaxSize() int64 {
	return s.maxSize
}

// Upload sniffs the content type of data, rejects anything that is not an
// image, video, audio clip or pdf, and writes it under a random name.
func (s *LocalStore) Upload(ctx context.Context, data []byte, name string) (*Upload, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrInvalidInput)
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("%w: file is %s, limit is %s", domain.ErrInvalidInput,
			humanize.Bytes(uint64(len(data))), humanize.Bytes(uint64(s.maxSize)))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mt := mimetype.Detect(data)
	kind, err := KindFor(mt.String())
	if err != nil {
		return nil, err
	}

	filename := uuid.NewString() + mt.Extension()
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	if name == "" {
		name = filename
	}
	return &Upload{
		URL:          s.urlPrefix + "/" + filename,
		OriginalName: name,
		Format:       strings.TrimPrefix(mt.Extension(), "."),
		Kind:         kind,
		Size:         int64(len(data)),
	}, nil
}

// UploadEncoded accepts a base64 payload, optionally wrapped in a data URL
// ("data:image/png;base64,...").
func (s *LocalStore) UploadEncoded(ctx context.Context, encoded, name string) (*Upload, error) {
	data, err := DecodePayload(encoded)
	if err != nil {
		return nil, err
	}
	return s.Upload(ctx, data, name)
}

// Path resolves a published filename to its location on disk.
func (s *LocalStore) Path(filename string) (string, error) {
	if filename == "" || filepath.Base(filename) != filename || strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("%w: invalid filename", domain.ErrInvalidInput)
	}
	p := filepath.Join(s.dir, filename)
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return p, nil
}

// KindFor maps a detected MIME type to an attachment kind.
func KindFor(mime string) (domain.AttachmentKind, error) {
	base, _, _ := strings.Cut(mime, ";")
	switch {
	case strings.HasPrefix(base, "image/"):
		return domain.AttachmentImage, nil
	case strings.HasPrefix(base, "video/"):
		return domain.AttachmentVideo, nil
	case strings.HasPrefix(base, "audio/"):
		return domain.AttachmentAudio, nil
	case base == "application/pdf":
		return domain.AttachmentPDF, nil
	}
	return "", fmt.Errorf("%w: unsupported file type %s", domain.ErrInvalidInput, base)
}

// DecodePayload strips an optional data URL header and decodes base64.
func DecodePayload(encoded string) ([]byte, error) {
	payload := strings.TrimSpace(encoded)
	if strings.HasPrefix(payload, "data:") {
		_, rest, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, fmt.Errorf("%w: malformed data url", domain.ErrInvalidInput)
		}
		payload = rest
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: file is not valid base64", domain.ErrInvalidInput)
	}
	return data, nil
}
