package hoaxes

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hoaxify/hoax/attachments"
	"github.com/hoaxify/hoax/internal/blob"
	"github.com/hoaxify/hoax/internal/snowflake"
	"github.com/hoaxify/hoax/models"
)

func setupTestEnv(t *testing.T) *models.Env {
	t.Helper()
	require := require.New(t)
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger: logger.Default.LogMode(func() logger.LogLevel {
			return logger.Warn
		}()),
	})
	require.NoError(err)

	err = db.AutoMigrate(models.AllTables()...)
	require.NoError(err)

	err = db.Exec("PRAGMA foreign_keys = ON").Error
	require.NoError(err)

	blobs := blob.NewStore(t.TempDir())
	require.NoError(blobs.Init())

	return &models.Env{
		DB:     db,
		Blobs:  blobs,
		Logger: slog.New(slog.NewTextHandler(testWriter{t}, nil)),
	}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(bytes.TrimSuffix(p, []byte("\n"))))
	return len(p), nil
}

func mockUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	require := require.New(t)

	user := &models.User{
		ID:       snowflake.Now(),
		Username: username,
		Email:    username + "@example.com",
	}
	require.NoError(user.SetPassword("P4ssword"))
	require.NoError(db.Create(user).Error)
	return user
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Assert a hoax claims its uploaded attachment", func(t *testing.T) {
		require := require.New(t)
		env := setupTestEnv(t)

		att, err := attachments.NewService(env).Store(ctx, []byte("file content"))
		require.NoError(err)

		alice := mockUser(t, env.DB, "alice")
		hoax, err := NewService(env).Create(ctx, alice, "look at this", &att.ID)
		require.NoError(err)

		var got models.Attachment
		require.NoError(env.DB.First(&got, att.ID).Error)
		require.NotNil(got.HoaxID)
		require.Equal(hoax.ID, *got.HoaxID)
	})

	t.Run("Assert a bogus attachment id does not fail the hoax", func(t *testing.T) {
		require := require.New(t)
		env := setupTestEnv(t)

		bob := mockUser(t, env.DB, "bob")
		bogus := snowflake.Now()
		hoax, err := NewService(env).Create(ctx, bob, "no attachment really", &bogus)
		require.NoError(err)
		require.NoError(env.DB.First(&models.Hoax{}, hoax.ID).Error)
	})

	t.Run("Assert an attachment stays with the first hoax that claimed it", func(t *testing.T) {
		require := require.New(t)
		env := setupTestEnv(t)
		svc := NewService(env)

		att, err := attachments.NewService(env).Store(ctx, []byte("file content"))
		require.NoError(err)

		carol := mockUser(t, env.DB, "carol")
		first, err := svc.Create(ctx, carol, "mine", &att.ID)
		require.NoError(err)
		_, err = svc.Create(ctx, carol, "mine too", &att.ID)
		require.NoError(err)

		var got models.Attachment
		require.NoError(env.DB.First(&got, att.ID).Error)
		require.Equal(first.ID, *got.HoaxID)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Assert deleting a hoax removes attachment row and file", func(t *testing.T) {
		require := require.New(t)
		env := setupTestEnv(t)
		svc := NewService(env)

		att, err := attachments.NewService(env).Store(ctx, []byte("file content"))
		require.NoError(err)
		dave := mockUser(t, env.DB, "dave")
		hoax, err := svc.Create(ctx, dave, "short lived", &att.ID)
		require.NoError(err)

		require.NoError(svc.Delete(ctx, hoax.ID))

		require.ErrorIs(env.DB.First(&models.Hoax{}, hoax.ID).Error, gorm.ErrRecordNotFound)
		require.ErrorIs(env.DB.First(&models.Attachment{}, att.ID).Error, gorm.ErrRecordNotFound)
		ok, err := env.Blobs.Exists(blob.Attachments, att.Filename)
		require.NoError(err)
		require.False(ok)
	})

	t.Run("Assert a claimed attachment outlives the purge but not its hoax", func(t *testing.T) {
		require := require.New(t)
		env := setupTestEnv(t)
		svc := NewService(env)

		att, err := attachments.NewService(env).Store(ctx, []byte("file content"))
		require.NoError(err)
		erin := mockUser(t, env.DB, "erin")
		hoax, err := svc.Create(ctx, erin, "still here", &att.ID)
		require.NoError(err)

		// age the attachment well past the retention window
		old := time.Now().Add(-48 * time.Hour)
		require.NoError(env.DB.Model(&models.Attachment{}).Where("id = ?", att.ID).Update("uploaded_at", old).Error)

		require.NoError(attachments.NewService(env).PurgeStale(ctx, attachments.DefaultRetention))
		require.NoError(env.DB.First(&models.Attachment{}, att.ID).Error)

		require.NoError(svc.Delete(ctx, hoax.ID))
		require.ErrorIs(env.DB.First(&models.Attachment{}, att.ID).Error, gorm.ErrRecordNotFound)
	})
}
