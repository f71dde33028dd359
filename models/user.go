package models

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/hoaxify/hoax/internal/snowflake"
)

// A User is a registered account.
// A User has many Hoaxes and many Tokens; both are removed when the user
// is deleted.
type User struct {
	snowflake.ID      `gorm:"primarykey;autoIncrement:false"`
	Username          string `gorm:"size:64;uniqueIndex;not null"`
	Email             string `gorm:"size:64;uniqueIndex;not null"`
	EncryptedPassword []byte `gorm:"size:60;not null"`
	// Inactive is true until the account has been activated.
	Inactive        bool   `gorm:"not null"`
	ActivationToken string `gorm:"size:32;not null;default:''"`
	// Image is the filename of the user's profile image in the blob
	// store, empty if none has been uploaded.
	Image  string  `gorm:"size:64;not null;default:''"`
	Hoaxes []Hoax  `gorm:"constraint:OnDelete:CASCADE;"`
	Tokens []Token `gorm:"constraint:OnDelete:CASCADE;"`
}

// SetPassword replaces the user's password hash. The change is not
// persisted until the user is saved.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.EncryptedPassword = hash
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(u.EncryptedPassword, []byte(password)) == nil
}
