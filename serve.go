package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"github.com/hoaxify/hoax/attachments"
	"github.com/hoaxify/hoax/hoaxes"
	"github.com/hoaxify/hoax/internal/blob"
	"github.com/hoaxify/hoax/internal/group"
	"github.com/hoaxify/hoax/internal/httpx"
	"github.com/hoaxify/hoax/models"
	"github.com/hoaxify/hoax/sweeper"
	"github.com/hoaxify/hoax/tokens"
	"github.com/hoaxify/hoax/users"
)

type ServeCmd struct {
	Addr          string        `default:"localhost:8080" env:"HOAX_ADDR" help:"address to listen on"`
	UploadDir     string        `default:"upload" env:"HOAX_UPLOAD_DIR" help:"directory for uploaded files"`
	SweepInterval time.Duration `default:"1h" env:"HOAX_SWEEP_INTERVAL" help:"time between cleanup passes"`
	Retention     time.Duration `default:"24h" env:"HOAX_RETENTION" help:"how long unclaimed attachments are kept"`
	TokenMaxIdle  time.Duration `default:"168h" env:"HOAX_TOKEN_MAX_IDLE" help:"how long unused tokens are kept"`
}

func (s *ServeCmd) Run(ctx *Context) error {
	db, err := gorm.Open(ctx.Dialector, &ctx.Config)
	if err != nil {
		return err
	}
	if err := configureDB(db); err != nil {
		return err
	}

	blobs := blob.NewStore(s.UploadDir)
	if err := blobs.Init(); err != nil {
		return err
	}

	env := &models.Env{
		DB:     db,
		Blobs:  blobs,
		Logger: ctx.Logger,
	}
	envFn := func(r *http.Request) *models.Env { return env }

	sw := sweeper.New(
		attachments.NewService(env),
		tokens.NewService(env),
		ctx.Logger,
		sweeper.WithInterval(s.SweepInterval),
		sweeper.WithRetention(s.Retention),
		sweeper.WithTokenMaxIdle(s.TokenMaxIdle),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/1.0", func(r chi.Router) {
		r.Post("/auth", httpx.HandlerFunc(envFn, tokens.Login))
		r.Post("/logout", httpx.HandlerFunc(envFn, tokens.Logout))
		r.Post("/hoaxes", httpx.HandlerFunc(envFn, hoaxes.Create))
		r.Delete("/hoaxes/{id:[0-9]+}", httpx.HandlerFunc(envFn, hoaxes.Destroy))
		r.Post("/hoaxes/attachments", httpx.HandlerFunc(envFn, attachments.Create))
		r.Put("/users/{id:[0-9]+}", httpx.HandlerFunc(envFn, users.Update))
	})
	r.Get("/images/attachments/{filename}", httpx.HandlerFunc(envFn, attachments.Show))
	r.Get("/images/profile/{filename}", httpx.HandlerFunc(envFn, attachments.ShowProfile))

	svr := &http.Server{
		Addr:         s.Addr,
		Handler:      r,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	signalCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g := group.New(signalCtx)
	g.Add(func(gctx context.Context) error {
		sw.Start()
		<-gctx.Done()
		sw.Stop()
		return nil
	})
	g.Add(func(gctx context.Context) error {
		ctx.Logger.Info("listening", "addr", s.Addr)
		err := svr.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Add(func(gctx context.Context) error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return svr.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
