package main

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hoaxify/hoax/attachments"
	"github.com/hoaxify/hoax/internal/blob"
	"github.com/hoaxify/hoax/models"
	"github.com/hoaxify/hoax/tokens"
)

type HousekeepingCmd struct {
	UploadDir    string        `default:"upload" env:"HOAX_UPLOAD_DIR" help:"directory for uploaded files"`
	Retention    time.Duration `default:"24h" env:"HOAX_RETENTION" help:"how long unclaimed attachments are kept"`
	TokenMaxIdle time.Duration `default:"168h" env:"HOAX_TOKEN_MAX_IDLE" help:"how long unused tokens are kept"`
}

// Run performs one cleanup pass, the same work the sweeper does on its
// timer inside serve.
func (c *HousekeepingCmd) Run(ctx *Context) error {
	db, err := gorm.Open(ctx.Dialector, &ctx.Config)
	if err != nil {
		return err
	}

	env := &models.Env{
		DB:     db,
		Blobs:  blob.NewStore(c.UploadDir),
		Logger: ctx.Logger,
	}

	if err := attachments.NewService(env).PurgeStale(context.Background(), c.Retention); err != nil {
		return err
	}
	return tokens.NewService(env).PurgeExpired(context.Background(), c.TokenMaxIdle)
}
