package controller

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"campuscms/internal/article"
	"campuscms/internal/document"
	"campuscms/internal/event"
	"campuscms/internal/facility"
	"campuscms/internal/menu"
	"campuscms/internal/models"
	"campuscms/internal/program"
	"campuscms/internal/setting"
	"campuscms/internal/slider"
	"campuscms/internal/staff"
)

const (
	homeLatestArticles = 3
	homeUpcomingEvents = 3
)

// Public serves the public pages of the site other than articles and pages.
type Public struct {
	Articles   *article.Repository
	Sliders    *slider.Repository
	Events     *event.Repository
	Facilities *facility.Repository
	Programs   *program.Repository
	Staff      *staff.Repository
	Documents  *document.Repository
	Menus      *menu.Service
	Settings   *setting.Cache
	UploadDir  string
	Now        func() time.Time
	Log        *zap.Logger
}

// Register registers the public routes
func (p *Public) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", p.home)
	mux.HandleFunc("GET /prodi", p.programs)
	mux.HandleFunc("GET /prodi/{slug}", p.program)
	mux.HandleFunc("GET /agenda", p.events)
	mux.HandleFunc("GET /agenda/{slug}", p.event)
	mux.HandleFunc("GET /fasilitas", p.facilities)
	mux.HandleFunc("GET /fasilitas/{slug}", p.facility)
	mux.HandleFunc("GET /download", p.documents)
	mux.HandleFunc("GET /download/{id}", p.download)
	mux.HandleFunc("GET /staf", p.staff)
}

func (p *Public) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Public) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := p.now()

	sliders, err := p.Sliders.ListActive(ctx)
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	articles, err := p.Articles.Latest(ctx, nil, homeLatestArticles)
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	events, err := p.Events.ListPublished(ctx, &now, homeUpcomingEvents)
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	_, nav, err := p.Menus.TreeByLocation(ctx, menu.PrimaryLocation)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		writeError(w, r, p.Log, err)
		return
	}
	settings, err := p.Settings.Values(ctx)
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sliders":        orEmpty(sliders),
		"latestArticles": orEmpty(articles),
		"upcomingEvents": orEmpty(events),
		"menu":           orEmpty(nav),
		"settings":       settings,
	})
}

func (p *Public) programs(w http.ResponseWriter, r *http.Request) {
	programs, err := p.Programs.List(r.Context())
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"programStudies": orEmpty(programs)})
}

func (p *Public) program(w http.ResponseWriter, r *http.Request) {
	ps, err := p.Programs.FindBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"programStudy": ps})
}

// events lists the upcoming published events, soonest first.
func (p *Public) events(w http.ResponseWriter, r *http.Request) {
	now := p.now()
	events, err := p.Events.ListPublished(r.Context(), &now, 0)
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": orEmpty(events)})
}

func (p *Public) event(w http.ResponseWriter, r *http.Request) {
	e, err := p.Events.FindBySlug(r.Context(), r.PathValue("slug"))
	if err == nil && !e.IsPublished {
		err = models.ErrNotFound
	}
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"event": e})
}

// facilities lists the active facilities, latest first.
func (p *Public) facilities(w http.ResponseWriter, r *http.Request) {
	all, err := p.Facilities.List(r.Context())
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	active := []models.Facility{}
	for _, f := range all {
		if f.IsActive {
			active = append(active, f)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"facilities": active})
}

func (p *Public) facility(w http.ResponseWriter, r *http.Request) {
	f, err := p.Facilities.FindBySlug(r.Context(), r.PathValue("slug"))
	if err == nil && !f.IsActive {
		err = models.ErrNotFound
	}
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"facility": f})
}

// documents lists the public documents grouped by category. Documents
// without a category are grouped under "".
func (p *Public) documents(w http.ResponseWriter, r *http.Request) {
	docs, err := p.Documents.ListPublic(r.Context())
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	grouped := map[string][]models.Document{}
	for _, d := range docs {
		var category string
		if d.Category != nil {
			category = *d.Category
		}
		grouped[category] = append(grouped[category], d)
	}
	writeJSON(w, http.StatusOK, map[string]any{"groupedDocuments": grouped})
}

// download sends a public document as an attachment named after its title.
func (p *Public) download(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	d, err := p.Documents.FindByID(r.Context(), id)
	if err == nil && !d.IsPublic {
		err = models.ErrNotFound
	}
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}

	path, ok := uploadPath(p.UploadDir, d.FilePath)
	if !ok {
		writeError(w, r, p.Log, fmt.Errorf("document %d file %q: %w", d.ID, d.FilePath, models.ErrNotFound))
		return
	}
	filename := d.Title + filepath.Ext(path)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	http.ServeFile(w, r, path)
}

func (p *Public) staff(w http.ResponseWriter, r *http.Request) {
	members, err := p.Staff.ListActive(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	programs, err := p.Programs.List(r.Context())
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"staff":          orEmpty(members),
		"programStudies": orEmpty(programs),
	})
}
