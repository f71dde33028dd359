package main

import (
	"gorm.io/gorm"

	"github.com/hoaxify/hoax/internal/snowflake"
	"github.com/hoaxify/hoax/internal/uid"
	"github.com/hoaxify/hoax/models"
)

type CreateUserCmd struct {
	Username string `required:"" help:"username of the user to create"`
	Email    string `required:"" help:"email address of the user to create"`
	Password string `required:"" help:"password of the user to create"`
	Inactive bool   `help:"create the user in the not-yet-activated state"`
}

func (c *CreateUserCmd) Run(ctx *Context) error {
	db, err := gorm.Open(ctx.Dialector, &ctx.Config)
	if err != nil {
		return err
	}

	user := &models.User{
		ID:       snowflake.Now(),
		Username: c.Username,
		Email:    c.Email,
		Inactive: c.Inactive,
	}
	if err := user.SetPassword(c.Password); err != nil {
		return err
	}
	if c.Inactive {
		token, err := uid.RandomString(16)
		if err != nil {
			return err
		}
		user.ActivationToken = token
	}
	return db.Create(user).Error
}
