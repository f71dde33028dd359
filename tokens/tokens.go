// Package tokens issues and validates the opaque bearer tokens used to
// authenticate API requests.
package tokens

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"

	"github.com/hoaxify/hoax/models"
)

// MaxIdle is how long a token may go unused before it is invalid and
// eligible for sweeping.
const MaxIdle = 7 * 24 * time.Hour

// ErrInvalidToken is returned when a token is unknown or has been idle for
// longer than MaxIdle.
var ErrInvalidToken = errors.New("tokens: invalid token")

// Service issues, validates and removes tokens.
type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewService returns a Service using the environment's database.
func NewService(env *models.Env) *Service {
	return &Service{
		db:     env.DB,
		logger: env.Logger,
	}
}

// Create issues a new token for the user.
func (s *Service) Create(ctx context.Context, user *models.User) (*models.Token, error) {
	token := &models.Token{
		AccessToken: uuid.New().String(),
		UserID:      user.ID,
		LastUsedAt:  time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

// Authenticate resolves an access token to its user and refreshes the
// token's last-used time. Unknown tokens and tokens idle for longer than
// MaxIdle fail with ErrInvalidToken; expired rows are left for the sweeper.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	var token models.Token
	err := s.db.WithContext(ctx).Joins("User").First(&token, "access_token = ?", accessToken).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrInvalidToken
	case err != nil:
		return nil, err
	}
	if time.Since(token.LastUsedAt) > MaxIdle {
		return nil, ErrInvalidToken
	}
	err = s.db.WithContext(ctx).Model(&token).Update("last_used_at", time.Now()).Error
	if err != nil {
		return nil, err
	}
	return token.User, nil
}

// Revoke deletes the token, signing its holder out.
func (s *Service) Revoke(ctx context.Context, accessToken string) error {
	return s.db.WithContext(ctx).Delete(&models.Token{AccessToken: accessToken}).Error
}

// PurgeExpired deletes every token whose last use is older than maxIdle.
func (s *Service) PurgeExpired(ctx context.Context, maxIdle time.Duration) error {
	cutoff := time.Now().Add(-maxIdle)
	res := s.db.WithContext(ctx).Where("last_used_at < ?", cutoff).Delete(&models.Token{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		s.logger.Info("purged expired tokens", "count", res.RowsAffected, "cutoff", cutoff)
	}
	return nil
}
