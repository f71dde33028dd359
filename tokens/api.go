package tokens

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-json-experiment/json"
	"gorm.io/gorm"

	"github.com/hoaxify/hoax/internal/httpx"
	"github.com/hoaxify/hoax/models"
)

// Login authenticates a username/password pair and responds with a fresh
// bearer token.
func Login(env *models.Env, w http.ResponseWriter, r *http.Request) error {
	var params struct {
		Email    string `json:"email" schema:"email"`
		Password string `json:"password" schema:"password"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}

	var user models.User
	err := env.DB.WithContext(r.Context()).First(&user, "email = ?", params.Email).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return httpx.Error(http.StatusUnauthorized, fmt.Errorf("incorrect credentials"))
	case err != nil:
		return err
	}
	if !user.CheckPassword(params.Password) {
		return httpx.Error(http.StatusUnauthorized, fmt.Errorf("incorrect credentials"))
	}
	if user.Inactive {
		return httpx.Error(http.StatusForbidden, fmt.Errorf("account is not activated"))
	}

	token, err := NewService(env).Create(r.Context(), &user)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.MarshalFull(w, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"token":    token.AccessToken,
	})
}

// Logout revokes the caller's bearer token. Requests without a token are a
// no-op.
func Logout(env *models.Env, w http.ResponseWriter, r *http.Request) error {
	accessToken := bearerToken(r)
	if accessToken == "" {
		w.WriteHeader(http.StatusOK)
		return nil
	}
	if err := NewService(env).Revoke(r.Context(), accessToken); err != nil {
		return err
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

// FromRequest authenticates the request's bearer token and returns its
// user. Failures are reported as 401 StatusErrors.
func FromRequest(env *models.Env, r *http.Request) (*models.User, error) {
	accessToken := bearerToken(r)
	if accessToken == "" {
		return nil, httpx.Error(http.StatusUnauthorized, fmt.Errorf("missing bearer token"))
	}
	user, err := NewService(env).Authenticate(r.Context(), accessToken)
	if errors.Is(err, ErrInvalidToken) {
		return nil, httpx.Error(http.StatusUnauthorized, err)
	}
	return user, err
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return ""
	}
	return token
}
