package main

import (
	"os"

	"github.com/alecthomas/kong"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"
)

type Context struct {
	Debug bool

	gorm.Config
	Dialector gorm.Dialector
	Logger    *slog.Logger
}

var cli struct {
	Debug bool   `help:"Enable debug logging."`
	DSN   string `required:"" env:"HOAX_DSN" help:"Database connection string."`

	Serve        ServeCmd        `cmd:"" help:"Serve the API."`
	AutoMigrate  AutoMigrateCmd  `cmd:"" help:"Create or update the database schema."`
	CreateUser   CreateUserCmd   `cmd:"" help:"Create a user account."`
	Housekeeping HousekeepingCmd `cmd:"" help:"Run one cleanup pass and exit."`
}

func main() {
	ctx := kong.Parse(&cli)
	opts := &slog.HandlerOptions{}
	if cli.Debug {
		opts.Level = slog.LevelDebug
	}
	err := ctx.Run(&Context{
		Debug:     cli.Debug,
		Dialector: newDialector(cli.DSN),
		Logger:    slog.New(slog.NewTextHandler(os.Stderr, opts)),
	})
	ctx.FatalIfErrorf(err)
}
