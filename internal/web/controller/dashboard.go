package controller

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"campuscms/internal/dashboard"
	"campuscms/internal/event"
)

const dashboardRecent = 5

// Dashboard serves the admin landing page figures.
type Dashboard struct {
	Repo      *dashboard.Repository
	EventRepo *event.Repository
	Now       func() time.Time
	Log       *zap.Logger
}

// Register registers the dashboard route
func (d *Dashboard) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/dashboard", d.show)
}

func (d *Dashboard) show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	today := now()

	counts, err := d.Repo.Counts(ctx)
	if err != nil {
		writeError(w, r, d.Log, err)
		return
	}
	articles, err := d.Repo.RecentArticles(ctx, dashboardRecent)
	if err != nil {
		writeError(w, r, d.Log, err)
		return
	}
	events, err := d.EventRepo.ListPublished(ctx, &today, dashboardRecent)
	if err != nil {
		writeError(w, r, d.Log, err)
		return
	}
	eventStats, err := d.EventRepo.Stats(ctx, today)
	if err != nil {
		writeError(w, r, d.Log, err)
		return
	}
	users, err := d.Repo.RecentUsers(ctx, dashboardRecent)
	if err != nil {
		writeError(w, r, d.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats":          counts,
		"eventStats":     eventStats,
		"recentArticles": orEmpty(articles),
		"upcomingEvents": orEmpty(events),
		"recentUsers":    orEmpty(users),
	})
}
