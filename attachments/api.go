package attachments

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-json-experiment/json"

	"github.com/hoaxify/hoax/internal/blob"
	"github.com/hoaxify/hoax/internal/httpx"
	"github.com/hoaxify/hoax/models"
)

// maxUploadBytes bounds the size of an accepted upload.
const maxUploadBytes = 5 << 20

// Create handles a multipart upload and stores the file as an unclaimed
// attachment, responding with its id.
func Create(env *models.Env, w http.ResponseWriter, r *http.Request) error {
	file, _, err := r.FormFile("file")
	if err != nil {
		return httpx.Error(http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
	}
	defer file.Close()

	buf, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return err
	}
	if len(buf) > maxUploadBytes {
		return httpx.Error(http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", maxUploadBytes))
	}

	att, err := NewService(env).Store(r.Context(), buf)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.MarshalFull(w, map[string]any{
		"id": att.ID,
	})
}

// Show serves a stored attachment by filename.
func Show(env *models.Env, w http.ResponseWriter, r *http.Request) error {
	return serveBlob(env, w, r, blob.Attachments)
}

// ShowProfile serves a stored profile image by filename.
func ShowProfile(env *models.Env, w http.ResponseWriter, r *http.Request) error {
	return serveBlob(env, w, r, blob.Profile)
}

func serveBlob(env *models.Env, w http.ResponseWriter, r *http.Request, bucket string) error {
	filename := chi.URLParam(r, "filename")
	if filename != filepath.Base(filename) {
		return httpx.Error(http.StatusNotFound, fmt.Errorf("no such file"))
	}
	ok, err := env.Blobs.Exists(bucket, filename)
	if err != nil {
		return err
	}
	if !ok {
		return httpx.Error(http.StatusNotFound, fmt.Errorf("no such file"))
	}
	http.ServeFile(w, r, env.Blobs.Path(bucket, filename))
	return nil
}
