package models

import (
	"golang.org/x/exp/slog"
	"gorm.io/gorm"

	"github.com/hoaxify/hoax/internal/blob"
)

// Env carries the shared dependencies of the application.
type Env struct {
	// DB is the database connection.
	DB *gorm.DB
	// Blobs is the upload file store.
	Blobs *blob.Store
	// Logger is the process-wide logger.
	Logger *slog.Logger
}

func (e *Env) Log() *slog.Logger {
	return e.Logger
}
