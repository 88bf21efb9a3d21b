package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
	"github.com/zchut-miluim/mentoring-api/pkg/storage"
)

// DocumentConfig bounds uploads.
type DocumentConfig struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// UploadedDocument describes a stored document and its signed download link.
type UploadedDocument struct {
	DocumentID  string    `json:"document_id"`
	FileName    string    `json:"file_name"`
	Path        string    `json:"path"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	SignedURL   string    `json:"signed_url"`
	ExpiresAt   time.Time `json:"expires_at"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// DocumentService stores uploaded approval documents on disk and issues
// HMAC-signed download tokens so document access needs no extra auth state.
type DocumentService struct {
	store  *storage.LocalStorage
	signer *storage.SignedURLSigner
	logger *zap.Logger
	config DocumentConfig
}

// NewDocumentService constructs a DocumentService instance.
func NewDocumentService(store *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger, config DocumentConfig) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxFileSizeBytes <= 0 {
		config.MaxFileSizeBytes = 10 * 1024 * 1024
	}
	return &DocumentService{store: store, signer: signer, logger: logger, config: config}
}

// Upload stores the document under the owner's directory and returns a
// signed download link.
func (s *DocumentService) Upload(ctx context.Context, ownerID, fileName, contentType string, size int64, r io.Reader) (*UploadedDocument, error) {
	if ownerID == "" || fileName == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "owner and file name are required")
	}
	if size > s.config.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput,
			fmt.Sprintf("file exceeds the %d byte limit", s.config.MaxFileSizeBytes))
	}
	if !s.mimeAllowed(contentType) {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "unsupported content type "+contentType)
	}

	documentID := uuid.NewString()
	relPath := filepath.Join(ownerID, documentID+sanitizeExt(fileName))

	stored, err := s.store.SaveStream(relPath, io.LimitReader(r, s.config.MaxFileSizeBytes))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to store document")
	}

	token, expiresAt, err := s.signer.Generate(documentID, stored)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}

	s.logger.Info("document uploaded",
		zap.String("owner_id", ownerID),
		zap.String("document_id", documentID),
		zap.Int64("size_bytes", size))

	return &UploadedDocument{
		DocumentID:  documentID,
		FileName:    fileName,
		Path:        stored,
		ContentType: contentType,
		SizeBytes:   size,
		SignedURL:   token,
		ExpiresAt:   expiresAt,
		UploadedAt:  time.Now().UTC(),
	}, nil
}

// Open validates the signed token and returns a handle to the stored file.
func (s *DocumentService) Open(ctx context.Context, token string) (*os.File, string, error) {
	documentID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download link")
	}

	file, err := s.store.Open(relPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to open document")
	}
	return file, documentID, nil
}

// Refresh re-signs an existing document path, extending the link lifetime.
func (s *DocumentService) Refresh(ctx context.Context, token string) (string, time.Time, error) {
	documentID, relPath, _, err := s.signer.Parse(token, true)
	if err != nil {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrUnauthorized, "invalid download link")
	}
	fresh, expiresAt, err := s.signer.Generate(documentID, relPath)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	return fresh, expiresAt, nil
}

// Delete removes a stored document.
func (s *DocumentService) Delete(ctx context.Context, token string) error {
	_, relPath, _, err := s.signer.Parse(token, true)
	if err != nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "invalid download link")
	}
	if err := s.store.Delete(relPath); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to delete document")
	}
	return nil
}

func (s *DocumentService) mimeAllowed(contentType string) bool {
	if len(s.config.AllowedMIMEs) == 0 {
		return true
	}
	for _, allowed := range s.config.AllowedMIMEs {
		if strings.EqualFold(allowed, contentType) {
			return true
		}
	}
	return false
}

// sanitizeExt keeps only a short alphanumeric extension from the original
// file name so stored paths stay predictable.
func sanitizeExt(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || len(ext) > 8 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
