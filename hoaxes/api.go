package hoaxes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-json-experiment/json"
	"gorm.io/gorm"

	"github.com/hoaxify/hoax/internal/httpx"
	"github.com/hoaxify/hoax/internal/snowflake"
	"github.com/hoaxify/hoax/models"
	"github.com/hoaxify/hoax/tokens"
)

// Create handles posting a new hoax, optionally claiming a previously
// uploaded attachment.
func Create(env *models.Env, w http.ResponseWriter, r *http.Request) error {
	user, err := tokens.FromRequest(env, r)
	if err != nil {
		return err
	}

	var params struct {
		Content      string        `json:"content" schema:"content"`
		AttachmentID *snowflake.ID `json:"fileAttachment" schema:"fileAttachment"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	if params.Content == "" {
		return httpx.Error(http.StatusBadRequest, fmt.Errorf("content must not be empty"))
	}

	hoax, err := NewService(env).Create(r.Context(), user, params.Content, params.AttachmentID)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.MarshalFull(w, map[string]any{
		"id":      hoax.ID,
		"content": hoax.Content,
	})
}

// Destroy handles deleting one of the caller's own hoaxes.
func Destroy(env *models.Env, w http.ResponseWriter, r *http.Request) error {
	user, err := tokens.FromRequest(env, r)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return httpx.Error(http.StatusNotFound, fmt.Errorf("no such hoax"))
	}

	var hoax models.Hoax
	err = env.DB.WithContext(r.Context()).First(&hoax, snowflake.ID(id)).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return httpx.Error(http.StatusNotFound, fmt.Errorf("no such hoax"))
	case err != nil:
		return err
	}
	if hoax.UserID != user.ID {
		return httpx.Error(http.StatusForbidden, fmt.Errorf("not your hoax"))
	}

	if err := NewService(env).Delete(r.Context(), hoax.ID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusOK)
	return nil
}
