package attachments

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/require"

	"github.com/hoaxify/hoax/internal/blob"
	"github.com/hoaxify/hoax/internal/httpx"
	"github.com/hoaxify/hoax/internal/snowflake"
	"github.com/hoaxify/hoax/models"
)

func uploadRequest(t *testing.T, content []byte) *http.Request {
	t.Helper()
	require := require.New(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "ignored-client-name.bin")
	require.NoError(err)
	_, err = fw.Write(content)
	require.NoError(err)
	require.NoError(mw.Close())

	req := httptest.NewRequest("POST", "/api/1.0/hoaxes/attachments", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreateAPI(t *testing.T) {
	t.Run("Assert uploading a png responds with the new attachment id", func(t *testing.T) {
		require := require.New(t)
		env := setupTestEnv(t)
		handler := httpx.HandlerFunc(func(r *http.Request) *models.Env { return env }, Create)

		w := httptest.NewRecorder()
		handler(w, uploadRequest(t, pngBytes(t, 50, 50)))
		require.Equal(http.StatusOK, w.Code)

		var resp struct {
			ID snowflake.ID `json:"id"`
		}
		require.NoError(json.UnmarshalFull(w.Body, &resp))
		require.NotZero(resp.ID)

		var att models.Attachment
		require.NoError(env.DB.First(&att, resp.ID).Error)
		require.Equal("image/png", att.MediaType)
		require.Nil(att.HoaxID)
		ok, err := env.Blobs.Exists(blob.Attachments, att.Filename)
		require.NoError(err)
		require.True(ok)
	})

	t.Run("Assert a request without a file field is a 400", func(t *testing.T) {
		require := require.New(t)
		env := setupTestEnv(t)
		handler := httpx.HandlerFunc(func(r *http.Request) *models.Env { return env }, Create)

		req := httptest.NewRequest("POST", "/api/1.0/hoaxes/attachments", nil)
		w := httptest.NewRecorder()
		handler(w, req)
		require.Equal(http.StatusBadRequest, w.Code)
	})
}

func imageRouter(env *models.Env) http.Handler {
	envFn := func(r *http.Request) *models.Env { return env }
	r := chi.NewRouter()
	r.Get("/images/attachments/{filename}", httpx.HandlerFunc(envFn, Show))
	r.Get("/images/profile/{filename}", httpx.HandlerFunc(envFn, ShowProfile))
	return r
}

func TestShowAPI(t *testing.T) {
	ctx := context.Background()

	t.Run("Assert a stored attachment is served back", func(t *testing.T) {
		require := require.New(t)
		env := setupTestEnv(t)

		content := pngBytes(t, 10, 10)
		att, err := NewService(env).Store(ctx, content)
		require.NoError(err)

		w := httptest.NewRecorder()
		imageRouter(env).ServeHTTP(w, httptest.NewRequest("GET", "/images/attachments/"+att.Filename, nil))
		require.Equal(http.StatusOK, w.Code)
		require.Equal(content, w.Body.Bytes())
	})

	t.Run("Assert a stored profile image is served from the profile bucket", func(t *testing.T) {
		require := require.New(t)
		env := setupTestEnv(t)

		content := pngBytes(t, 10, 10)
		filename, err := NewService(env).StoreProfileImage(ctx, content)
		require.NoError(err)

		w := httptest.NewRecorder()
		imageRouter(env).ServeHTTP(w, httptest.NewRequest("GET", "/images/profile/"+filename, nil))
		require.Equal(http.StatusOK, w.Code)
		require.Equal(content, w.Body.Bytes())
	})

	t.Run("Assert an unknown filename is a 404", func(t *testing.T) {
		require := require.New(t)
		env := setupTestEnv(t)

		w := httptest.NewRecorder()
		imageRouter(env).ServeHTTP(w, httptest.NewRequest("GET", "/images/profile/no-such-file", nil))
		require.Equal(http.StatusNotFound, w.Code)
	})
}
