package models

import (
	"time"

	"github.com/hoaxify/hoax/internal/snowflake"
)

// A Token is an opaque bearer credential for a User.
// A Token belongs to a User and is removed when the user is deleted.
// LastUsedAt is refreshed on every authenticated request; a token idle for
// more than a week is invalid and will be removed by the sweeper.
type Token struct {
	AccessToken string `gorm:"size:64;primaryKey;autoIncrement:false"`
	CreatedAt   time.Time
	UserID      snowflake.ID `gorm:"not null"`
	User        *User        `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	LastUsedAt  time.Time    `gorm:"not null;index"`
}
