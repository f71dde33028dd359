package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hoaxify/hoax/internal/snowflake"
	"github.com/hoaxify/hoax/internal/uid"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	require := require.New(t)
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger: logger.Default.LogMode(func() logger.LogLevel {
			return logger.Warn
		}()),
	})
	require.NoError(err)

	err = db.AutoMigrate(AllTables()...)
	require.NoError(err)

	// enable foreign key constraints
	err = db.Exec("PRAGMA foreign_keys = ON").Error
	require.NoError(err)

	return db
}

// MockUser creates an active user in the database.
func MockUser(t *testing.T, tx *gorm.DB, username string) *User {
	t.Helper()
	require := require.New(t)

	user := &User{
		ID:       snowflake.Now(),
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Inactive: false,
	}
	require.NoError(user.SetPassword("P4ssword"))
	require.NoError(tx.Create(user).Error)
	return user
}

// MockHoax creates a hoax for the given user.
func MockHoax(t *testing.T, tx *gorm.DB, user *User, content string) *Hoax {
	t.Helper()
	require := require.New(t)

	hoax := &Hoax{
		ID:      snowflake.Now(),
		Content: content,
		UserID:  user.ID,
	}
	require.NoError(tx.Create(hoax).Error)
	return hoax
}

// WithUploadedAt sets the upload time of a mock attachment.
func WithUploadedAt(ts time.Time) func(*Attachment) {
	return func(att *Attachment) {
		att.UploadedAt = ts
	}
}

// WithHoax associates a mock attachment with a hoax.
func WithHoax(hoax *Hoax) func(*Attachment) {
	return func(att *Attachment) {
		att.HoaxID = &hoax.ID
	}
}

// MockAttachment creates an attachment record in the database.
func MockAttachment(t *testing.T, tx *gorm.DB, opts ...func(*Attachment)) *Attachment {
	t.Helper()
	require := require.New(t)

	filename, err := uid.RandomString(32)
	require.NoError(err)
	att := &Attachment{
		ID:         snowflake.Now(),
		Filename:   filename,
		UploadedAt: time.Now(),
		MediaType:  "image/png",
	}
	for _, opt := range opts {
		opt(att)
	}
	require.NoError(tx.Create(att).Error)
	return att
}

// MockToken creates a token for the given user.
func MockToken(t *testing.T, tx *gorm.DB, user *User, lastUsedAt time.Time) *Token {
	t.Helper()
	require := require.New(t)

	token := &Token{
		AccessToken: uuid.New().String(),
		UserID:      user.ID,
		LastUsedAt:  lastUsedAt,
	}
	require.NoError(tx.Create(token).Error)
	return token
}
