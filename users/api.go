// Package users exposes account management over HTTP.
package users

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-json-experiment/json"

	"github.com/hoaxify/hoax/attachments"
	"github.com/hoaxify/hoax/internal/blob"
	"github.com/hoaxify/hoax/internal/httpx"
	"github.com/hoaxify/hoax/internal/snowflake"
	"github.com/hoaxify/hoax/models"
	"github.com/hoaxify/hoax/tokens"
)

// Update handles changes to the caller's own account: a new username, a new
// profile image, or both. The image is sent base64 encoded; storing it
// replaces any previously stored profile image.
func Update(env *models.Env, w http.ResponseWriter, r *http.Request) error {
	user, err := tokens.FromRequest(env, r)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || snowflake.ID(id) != user.ID {
		return httpx.Error(http.StatusForbidden, fmt.Errorf("not your account"))
	}

	var params struct {
		Username string `json:"username" schema:"username"`
		Image    string `json:"image" schema:"image"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}

	updates := map[string]any{}
	if params.Username != "" {
		updates["username"] = params.Username
		user.Username = params.Username
	}
	if params.Image != "" {
		buf, err := base64.StdEncoding.DecodeString(params.Image)
		if err != nil {
			return httpx.Error(http.StatusBadRequest, fmt.Errorf("image is not valid base64: %w", err))
		}
		svc := attachments.NewService(env)
		filename, err := svc.StoreProfileImage(r.Context(), buf)
		if err != nil {
			return err
		}
		if user.Image != "" {
			// the old image is unreferenced once the row is updated
			if err := svc.DeleteProfileImage(r.Context(), user.Image); err != nil && !errors.Is(err, blob.ErrNotExist) {
				env.Logger.Warn("removing replaced profile image", "filename", user.Image, "err", err)
			}
		}
		updates["image"] = filename
		user.Image = filename
	}
	if len(updates) > 0 {
		if err := env.DB.WithContext(r.Context()).Model(user).Updates(updates).Error; err != nil {
			return err
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.MarshalFull(w, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"image":    user.Image,
	})
}
