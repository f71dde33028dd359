package models

import (
	"github.com/hoaxify/hoax/internal/snowflake"
)

// A Hoax is a short post.
// A Hoax belongs to a User and owns zero or one Attachment.
type Hoax struct {
	snowflake.ID `gorm:"primarykey;autoIncrement:false"`
	Content      string       `gorm:"not null"`
	UserID       snowflake.ID `gorm:"not null"`
	User         *User        `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	Attachment   *Attachment  `gorm:"foreignKey:HoaxID;constraint:OnDelete:CASCADE"`
}
