package httpserver

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dmchat/internal/blob"
	"dmchat/internal/metrics"
)

// @Summary      Upload file
// @Description  Store an image, video, audio clip or pdf and return its URL for use as an attachment
// @Tags         uploads
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File"
// @Success      201  {object}  blob.Upload
// @Failure      400  {object}  map[string]string
// @Router       /uploads [post]
func handleUpload(blobs *blob.LocalStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, blobs.MaxSize()+1<<20)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to parse multipart form"})
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read file"})
			return
		}

		up, err := blobs.Upload(r.Context(), data, header.Filename)
		if err != nil {
			writeError(w, r, err)
			return
		}
		metrics.Uploads.WithLabelValues(string(up.Kind)).Inc()
		writeJSON(w, http.StatusCreated, up)
	}
}

// Serves stored files: /api/uploads/{filename}
func handleServeUpload(blobs *blob.LocalStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, err := blobs.Path(chi.URLParam(r, "filename"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		http.ServeFile(w, r, path)
	}
}
