package controller

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"campuscms/internal/attachment"
	"campuscms/internal/web/renderer"
)

// Misc provides the editor's helper endpoints: content previews and the
// media library.
type Misc struct {
	Uploader       *Uploader
	AttachmentRepo *attachment.Repository
	Log            *zap.Logger
}

// Register registers the misc routes
func (m *Misc) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /admin/_preview", m.preview)
	mux.HandleFunc("GET /admin/media", m.media)
	mux.HandleFunc("POST /admin/media", m.upload)
	mux.HandleFunc("POST /admin/articles/upload-image", m.uploadImage)
}

// preview renders the request body as org-mode, markdown (?format=markdown)
// or sanitised HTML (?format=html).
func (m *Misc) preview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		writeError(w, r, m.Log, invalid("error reading request body"))
		return
	}
	defer r.Body.Close()

	var out string
	switch r.URL.Query().Get("format") {
	case "markdown":
		out, err = renderer.MarkdownToHTML(string(body))
	case "html":
		out = renderer.Sanitize(string(body))
	default:
		out, err = renderer.OrgToHTML(string(body))
	}
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(out))
}

func (m *Misc) media(w http.ResponseWriter, r *http.Request) {
	files, err := m.AttachmentRepo.List(r.Context())
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	type item struct {
		ID       int    `json:"id"`
		Filename string `json:"filename"`
		URL      string `json:"url"`
		MimeType string `json:"mime_type"`
		Size     int64  `json:"size"`
	}
	items := []item{}
	for _, f := range files {
		items = append(items, item{f.ID, f.Filename, uploadURL(f), f.MimeType, f.Size})
	}
	writeJSON(w, http.StatusOK, items)
}

func (m *Misc) upload(w http.ResponseWriter, r *http.Request) {
	m.save(w, r, "file", false)
}

func (m *Misc) uploadImage(w http.ResponseWriter, r *http.Request) {
	m.save(w, r, "image", true)
}

func (m *Misc) save(w http.ResponseWriter, r *http.Request, field string, imagesOnly bool) {
	a, err := m.Uploader.Save(w, r, field, imagesOnly)
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	m.Log.Info("file uploaded", zap.String("filename", a.Filename), zap.Int64("size", a.Size))
	writeJSON(w, http.StatusCreated, map[string]string{"url": uploadURL(a)})
}
