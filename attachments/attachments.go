// Package attachments manages the lifecycle of uploaded files: storing new
// uploads, claiming them for a hoax, and purging orphans that were never
// claimed.
package attachments

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"time"

	"golang.org/x/exp/slog"
	"gorm.io/gorm"

	"github.com/hoaxify/hoax/internal/blob"
	"github.com/hoaxify/hoax/internal/snowflake"
	"github.com/hoaxify/hoax/internal/uid"
	"github.com/hoaxify/hoax/models"
)

// DefaultRetention is how long an unclaimed attachment is kept before it
// becomes eligible for purging.
const DefaultRetention = 24 * time.Hour

// filenameLength is the length of the generated part of a stored filename,
// before any extension.
const filenameLength = 32

// Service stores, associates and purges attachments.
type Service struct {
	db     *gorm.DB
	blobs  *blob.Store
	logger *slog.Logger
}

// NewService returns a Service using the environment's database and blob
// store.
func NewService(env *models.Env) *Service {
	return &Service{
		db:     env.DB,
		blobs:  env.Blobs,
		logger: env.Logger,
	}
}

// Store writes buf to the attachments bucket under a freshly generated
// filename and records its metadata. The returned attachment is not
// associated with any hoax.
//
// The media type is detected from the first bytes of buf; the client's
// claimed content type and filename are never consulted. Unrecognisable
// content is stored anyway, with an empty media type.
func (s *Service) Store(ctx context.Context, buf []byte) (*models.Attachment, error) {
	filename, err := uid.RandomString(filenameLength)
	if err != nil {
		return nil, err
	}

	att := &models.Attachment{
		ID:         snowflake.Now(),
		Filename:   filename,
		UploadedAt: time.Now(),
		MediaType:  detectMediaType(buf),
	}
	if ext := att.Extension(); ext != "" {
		att.Filename += "." + ext
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(buf)); err == nil {
		att.Width = cfg.Width
		att.Height = cfg.Height
	}

	if err := s.blobs.Write(blob.Attachments, att.Filename, buf); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(att).Error; err != nil {
		// the row was never created, so the file on disk is unreachable;
		// remove it rather than leave it for the sweeper to miss forever
		if derr := s.blobs.Delete(blob.Attachments, att.Filename); derr != nil {
			s.logger.Error("removing blob after failed insert", "filename", att.Filename, "err", derr)
		}
		return nil, err
	}
	return att, nil
}

// Associate claims the attachment for the given hoax. The first claim wins:
// if the attachment is already owned by a hoax, or does not exist at all,
// Associate does nothing and returns nil.
func (s *Service) Associate(ctx context.Context, attachmentID, hoaxID snowflake.ID) error {
	return s.db.WithContext(ctx).
		Model(&models.Attachment{}).
		Where("id = ? AND hoax_id IS NULL", attachmentID).
		Update("hoax_id", hoaxID).Error
}

// PurgeStale deletes every attachment that has no owning hoax and was
// uploaded more than retention ago. For each stale attachment the file is
// removed before the metadata row, so that a crash mid-purge can leave a
// row without a file (harmless, cleaned on the next pass) but never a file
// without a row.
//
// A failure to delete one attachment does not stop the pass; all failures
// are joined into the returned error.
func (s *Service) PurgeStale(ctx context.Context, retention time.Duration) error {
	cutoff := time.Now().Add(-retention)
	var purged int
	var errs []error

	var stale []models.Attachment
	res := s.db.WithContext(ctx).
		Where("hoax_id IS NULL AND uploaded_at < ?", cutoff).
		FindInBatches(&stale, 100, func(tx *gorm.DB, batch int) error {
			for i := range stale {
				if err := s.purge(tx, &stale[i]); err != nil {
					errs = append(errs, err)
					continue
				}
				purged++
			}
			return nil
		})
	if res.Error != nil {
		errs = append(errs, fmt.Errorf("attachments: finding stale attachments: %w", res.Error))
	}
	if purged > 0 {
		s.logger.Info("purged stale attachments", "count", purged, "cutoff", cutoff)
	}
	return errors.Join(errs...)
}

// purge removes one attachment, file first. A file that is already gone is
// treated as cleaned; any other file error leaves the row in place so a
// later pass can retry.
func (s *Service) purge(tx *gorm.DB, att *models.Attachment) error {
	if err := s.blobs.Delete(blob.Attachments, att.Filename); err != nil && !errors.Is(err, blob.ErrNotExist) {
		return fmt.Errorf("attachments: purging %s: %w", att.Filename, err)
	}
	if err := tx.Delete(att).Error; err != nil {
		return fmt.Errorf("attachments: purging %s: %w", att.Filename, err)
	}
	return nil
}

// detectMediaType sniffs the media type from the magic bytes of buf.
// It returns the empty string when nothing more specific than a byte
// stream could be detected.
func detectMediaType(buf []byte) string {
	typ := http.DetectContentType(buf)
	if typ == "application/octet-stream" {
		return ""
	}
	return typ
}
