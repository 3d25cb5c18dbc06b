// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/folio-go/internal/imaging"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
	"github.com/olegiv/folio-go/internal/util"
)

// Upload limits
const (
	MaxImageSize     = 4 * 1024 * 1024  // 4MB
	MaxDocumentSize  = 10 * 1024 * 1024 // 10MB
	DefaultUploadDir = "./uploads"
	// UploadURLPrefix is where the uploads directory is served.
	UploadURLPrefix = "/uploads/"
)

// Upload purposes.
const (
	PurposeImage = "image"
	PurposeCV    = "cv"
)

// Document MIME types accepted for CV uploads.
const (
	MimeTypePDF  = "application/pdf"
	MimeTypeDOC  = "application/msword"
	MimeTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Upload errors.
var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("file type not allowed")
)

// oleMagic starts legacy Office documents.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Upload is a stored file.
type Upload struct {
	ID        int64     `json:"id"`
	UUID      string    `json:"uuid"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mimeType"`
	Size      int64     `json:"size"`
	Width     *int64    `json:"width,omitempty"`
	Height    *int64    `json:"height,omitempty"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// MediaService stores uploaded images and CV documents on disk.
type MediaService struct {
	queries   *store.Queries
	events    *EventService
	content   *ContentService
	processor *imaging.Processor
	uploadDir string
	now       func() time.Time
}

// NewMediaService creates a new media service.
func NewMediaService(db store.DBTX, events *EventService, content *ContentService, uploadDir string) *MediaService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &MediaService{
		queries:   store.New(db),
		events:    events,
		content:   content,
		processor: imaging.NewProcessor(0, 0),
		uploadDir: uploadDir,
		now:       time.Now,
	}
}

// Upload validates and stores a file. Images are re-encoded, which strips
// EXIF metadata. A CV upload must be a PDF or Word document and becomes the
// site's download-cv target.
func (s *MediaService) Upload(ctx context.Context, r io.Reader, filename, purpose string) (Upload, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return Upload{}, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return Upload{}, fmt.Errorf("empty file: %w", ErrUnsupportedType)
	}

	filename = sanitizeFilename(filename)
	mimeType := imaging.DetectMimeType(data)

	var (
		out           []byte
		ext           string
		width, height sql.NullInt64
	)
	switch {
	case imaging.IsImage(mimeType) && purpose != PurposeCV:
		if len(data) > MaxImageSize {
			return Upload{}, fmt.Errorf("image exceeds %d bytes: %w", MaxImageSize, ErrFileTooLarge)
		}
		res, err := s.processor.Process(bytes.NewReader(data))
		if err != nil {
			if errors.Is(err, imaging.ErrUnsupportedFormat) {
				return Upload{}, fmt.Errorf("%s: %w", mimeType, ErrUnsupportedType)
			}
			return Upload{}, fmt.Errorf("processing image: %w", err)
		}
		out, ext, mimeType = res.Data, res.Ext, res.MimeType
		width = sql.NullInt64{Int64: int64(res.Width), Valid: true}
		height = sql.NullInt64{Int64: int64(res.Height), Valid: true}
	case purpose != PurposeImage:
		if len(data) > MaxDocumentSize {
			return Upload{}, fmt.Errorf("document exceeds %d bytes: %w", MaxDocumentSize, ErrFileTooLarge)
		}
		mimeType, ext = documentType(filename, data)
		if mimeType == "" {
			return Upload{}, fmt.Errorf("%s: %w", filename, ErrUnsupportedType)
		}
		out = data
	default:
		return Upload{}, fmt.Errorf("%s: %w", mimeType, ErrUnsupportedType)
	}

	fileUUID := uuid.NewString()
	diskName := fileUUID + ext
	path, err := util.SafeJoin(s.uploadDir, diskName)
	if err != nil {
		return Upload{}, err
	}
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return Upload{}, fmt.Errorf("creating upload directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return Upload{}, fmt.Errorf("writing upload: %w", err)
	}

	row, err := s.queries.CreateUpload(ctx, store.CreateUploadParams{
		Uuid:      fileUUID,
		Filename:  filename,
		MimeType:  mimeType,
		Size:      int64(len(out)),
		Width:     width,
		Height:    height,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		_ = os.Remove(path)
		return Upload{}, fmt.Errorf("creating upload record: %w", err)
	}

	up := uploadFromRow(row, UploadURLPrefix+diskName)

	if purpose == PurposeCV {
		if err := s.content.SetCVURL(ctx, up.URL); err != nil {
			return Upload{}, err
		}
	}

	s.events.Info(ctx, model.EventUploadFile, fmt.Sprintf("File %q uploaded (%s, %d bytes).", up.Filename, up.MimeType, up.Size))
	return up, nil
}

func uploadFromRow(u store.Upload, url string) Upload {
	up := Upload{
		ID:        u.ID,
		UUID:      u.Uuid,
		Filename:  u.Filename,
		MimeType:  u.MimeType,
		Size:      u.Size,
		URL:       url,
		CreatedAt: u.CreatedAt,
	}
	if u.Width.Valid {
		w := u.Width.Int64
		up.Width = &w
	}
	if u.Height.Valid {
		h := u.Height.Int64
		up.Height = &h
	}
	return up
}

// documentType checks a document's extension against its content.
func documentType(filename string, data []byte) (mimeType, ext string) {
	ext = strings.ToLower(filepath.Ext(filename))
	sniffed := imaging.DetectMimeType(data)
	switch {
	case ext == ".pdf" && sniffed == MimeTypePDF:
		return MimeTypePDF, ext
	case ext == ".docx" && sniffed == "application/zip":
		return MimeTypeDOCX, ext
	case ext == ".doc" && bytes.HasPrefix(data, oleMagic):
		return MimeTypeDOC, ext
	default:
		return "", ""
	}
}

func sanitizeFilename(filename string) string {
	// Remove path separators
	filename = filepath.Base(strings.ReplaceAll(filename, `\`, "/"))

	replacer := strings.NewReplacer(
		" ", "-",
		"'", "",
		"\"", "",
		"<", "",
		">", "",
		"&", "",
		"#", "",
		"?", "",
		"%", "",
	)
	filename = replacer.Replace(filename)

	if filename == "." || filename == "/" || filename == "" {
		filename = "file"
	}
	if filepath.Ext(filename) == "" {
		filename += ".bin"
	}
	return filename
}
