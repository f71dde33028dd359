package models

import (
	"time"

	"github.com/hoaxify/hoax/internal/snowflake"
)

// An Attachment is an uploaded file plus its metadata.
// An Attachment belongs to at most one Hoax; while HoaxID is null the
// attachment is an orphan and eligible for time-based purging.
type Attachment struct {
	snowflake.ID `gorm:"primarykey;autoIncrement:false"`
	// Filename is the opaque generated name of the file in the blob store.
	Filename string `gorm:"size:64;uniqueIndex;not null"`
	// UploadedAt is the time the file was written. Set once, never updated.
	UploadedAt time.Time `gorm:"not null;index:idx_attachments_orphans,priority:2"`
	// MediaType is the content type detected from the file's magic bytes.
	// Empty when detection failed. Never taken from the client.
	MediaType string `gorm:"size:64;not null;default:''"`
	// Width and Height are the pixel dimensions for decodable images,
	// zero otherwise.
	Width  int `gorm:"not null;default:0"`
	Height int `gorm:"not null;default:0"`
	// HoaxID is set exactly once, when the attachment is claimed by a hoax.
	HoaxID *snowflake.ID `gorm:"index:idx_attachments_orphans,priority:1"`
	Hoax   *Hoax         `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
}

// Extension returns the file extension for the attachment's media type,
// or the empty string if the type is unknown.
func (att *Attachment) Extension() string {
	switch att.MediaType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "video/mp4":
		return "mp4"
	case "video/webm":
		return "webm"
	case "audio/mpeg":
		return "mp3"
	case "audio/ogg":
		return "ogg"
	case "application/pdf":
		return "pdf"
	case "text/plain; charset=utf-8":
		return "txt"
	default:
		return ""
	}
}
