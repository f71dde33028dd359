// Package hoaxes manages posts and their optional attachments.
package hoaxes

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"
	"gorm.io/gorm"

	"github.com/hoaxify/hoax/attachments"
	"github.com/hoaxify/hoax/internal/blob"
	"github.com/hoaxify/hoax/internal/snowflake"
	"github.com/hoaxify/hoax/models"
)

// Service creates and deletes hoaxes.
type Service struct {
	db          *gorm.DB
	blobs       *blob.Store
	attachments *attachments.Service
	logger      *slog.Logger
}

// NewService returns a Service using the environment's database and blob
// store.
func NewService(env *models.Env) *Service {
	return &Service{
		db:          env.DB,
		blobs:       env.Blobs,
		attachments: attachments.NewService(env),
		logger:      env.Logger,
	}
}

// Create saves a new hoax for the user and, if attachmentID is non-nil,
// claims that attachment for it. A missing or already claimed attachment
// does not fail the hoax; the post has already been accepted.
func (s *Service) Create(ctx context.Context, user *models.User, content string, attachmentID *snowflake.ID) (*models.Hoax, error) {
	hoax := &models.Hoax{
		ID:      snowflake.Now(),
		Content: content,
		UserID:  user.ID,
	}
	if err := s.db.WithContext(ctx).Create(hoax).Error; err != nil {
		return nil, err
	}
	if attachmentID != nil {
		if err := s.attachments.Associate(ctx, *attachmentID, hoax.ID); err != nil {
			s.logger.Warn("associating attachment", "hoax", hoax.ID, "attachment", *attachmentID, "err", err)
		}
	}
	return hoax, nil
}

// Delete removes the hoax, its attachment row and the attachment's file.
// The file is deleted before the rows so that a crash cannot leave an
// unreachable file behind; a file that is already gone is ignored.
func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	var hoax models.Hoax
	err := s.db.WithContext(ctx).Preload("Attachment").First(&hoax, id).Error
	if err != nil {
		return err
	}
	if hoax.Attachment != nil {
		err := s.blobs.Delete(blob.Attachments, hoax.Attachment.Filename)
		if err != nil && !errors.Is(err, blob.ErrNotExist) {
			return fmt.Errorf("hoaxes: deleting attachment file: %w", err)
		}
	}
	// the attachment row goes with the hoax via the cascade constraint
	return s.db.WithContext(ctx).Delete(&hoax).Error
}
