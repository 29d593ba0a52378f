package attachmentapp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"welbex/internal/core/attachment"
	"welbex/internal/core/errs"
	attachmentPort "welbex/internal/ports/attachment"
)

// sniffLen is how much of an upload is inspected when its declared type says nothing.
const sniffLen = 3072

// AttachmentService is the Attachment Ingestor: it classifies an upload,
// names it and hands it to the configured storage backend.
type AttachmentService struct {
	Storage attachmentPort.Storage
	MaxSize int64
	logger  *zap.Logger
	now     func() time.Time
}

func NewAttachmentService(storage attachmentPort.Storage, maxSize int64, logger *zap.Logger) *AttachmentService {
	return &AttachmentService{
		Storage: storage,
		MaxSize: maxSize,
		logger:  logger,
		now:     time.Now,
	}
}

// Ingest stores up and reports which post slot it belongs to.
func (s *AttachmentService) Ingest(ctx context.Context, up *attachment.Upload) (*attachment.Stored, error) {
	if up == nil || up.Body == nil {
		return nil, errs.Validation("file is required")
	}
	if s.MaxSize > 0 && up.Size > s.MaxSize {
		return nil, errs.Validation("file exceeds the %d byte limit", s.MaxSize)
	}

	body := up.Body
	contentType := up.ContentType
	kind, ok := attachment.Classify(contentType)
	if !ok && needsSniffing(contentType) {
		head := make([]byte, sniffLen)
		n, err := io.ReadFull(body, head)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return nil, errs.Storage("read upload", err)
		}
		head = head[:n]
		contentType = mimetype.Detect(head).String()
		kind, ok = attachment.Classify(contentType)
		body = io.MultiReader(bytes.NewReader(head), body)
	}
	if !ok {
		return nil, errs.Validation("file must be an image or a video")
	}

	name := s.storageName(up.Filename)
	ref, err := s.Storage.Save(ctx, name, body, up.Size, contentType)
	if err != nil {
		return nil, errs.Storage("save attachment", err)
	}

	s.logger.Debug("Attachment stored",
		zap.String("kind", string(kind)),
		zap.String("ref", ref),
		zap.Int64("size", up.Size),
	)
	return &attachment.Stored{Kind: kind, Ref: ref}, nil
}

// Discard removes a stored file. Failures are logged, never returned:
// the sweeper catches whatever is left behind.
func (s *AttachmentService) Discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.Storage.Remove(ctx, ref); err != nil {
		s.logger.Warn("Failed to remove attachment", zap.String("ref", ref), zap.Error(err))
	}
}

// storageName is <unix millis>-<random>.<original extension>.
func (s *AttachmentService) storageName(original string) string {
	suffix := strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", "")[:12]
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if strings.ContainsAny(ext, `/\`) || len(ext) > 16 {
		ext = ""
	}
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), suffix, ext)
}

func needsSniffing(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return ct == "" || strings.HasPrefix(ct, "application/octet-stream")
}
