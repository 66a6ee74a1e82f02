package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campuscms/internal/article"
	"campuscms/internal/auth"
	"campuscms/internal/database/testdb"
	"campuscms/internal/models"
)

var fixedNow = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

type testServer struct {
	t      *testing.T
	server *Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := auth.NewSessionStore(strings.Repeat("s", 32))
	require.NoError(t, err)
	s := NewServer(Options{
		DB:             testdb.Open(t),
		Sessions:       store,
		SessionName:    "campuscms-test",
		UploadDir:      t.TempDir(),
		UploadMaxBytes: 1 << 20,
		Log:            zap.NewNop(),
		Now:            func() time.Time { return fixedNow },
	})
	return &testServer{t: t, server: s}
}

func (ts *testServer) do(method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	ts.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(ts.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)
	return rec
}

// login creates a user with role and returns the session cookies.
func (ts *testServer) login(username, role string) []*http.Cookie {
	ts.t.Helper()
	_, err := ts.server.authService.RegisterUser(context.Background(), username, "", "secret-password", role)
	require.NoError(ts.t, err)

	rec := ts.do("POST", "/login", map[string]string{"username": username, "password": "secret-password"}, nil)
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(ts.t, cookies)
	return cookies
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do("POST", "/login", map[string]string{"username": "nobody", "password": "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookies := ts.login("dewi", models.RoleWriter)
	rec = ts.do("GET", "/me", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dewi", decode[models.User](t, rec).Username)

	rec = ts.do("GET", "/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAccess(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, ts.do("GET", "/admin/articles", nil, nil).Code)

	writer := ts.login("writer", models.RoleWriter)
	assert.Equal(t, http.StatusOK, ts.do("GET", "/admin/articles", nil, writer).Code)
	assert.Equal(t, http.StatusOK, ts.do("GET", "/admin/dashboard", nil, writer).Code)
	assert.Equal(t, http.StatusForbidden, ts.do("GET", "/admin/menus", nil, writer).Code)
	assert.Equal(t, http.StatusForbidden, ts.do("GET", "/admin/users", nil, writer).Code)

	admin := ts.login("admin", models.RoleAdmin)
	assert.Equal(t, http.StatusOK, ts.do("GET", "/admin/menus", nil, admin).Code)
	assert.Equal(t, http.StatusOK, ts.do("GET", "/admin/articles", nil, admin).Code)
	assert.Equal(t, http.StatusNotFound, ts.do("GET", "/admin/nothing-here", nil, admin).Code)
}

func TestErrorMapping(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login("admin", models.RoleAdmin)

	assert.Equal(t, http.StatusNotFound, ts.do("GET", "/admin/articles/abc", nil, admin).Code)
	assert.Equal(t, http.StatusNotFound, ts.do("GET", "/admin/articles/999", nil, admin).Code)

	rec := ts.do("POST", "/admin/articles", "{not json", admin)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do("POST", "/admin/articles", map[string]any{"title": "No content"}, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "content is required")

	rec = ts.do("POST", "/admin/articles", map[string]any{"title": "T", "content": "c", "layout": "wide"}, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestArticles(t *testing.T) {
	ts := newTestServer(t)
	writer := ts.login("writer", models.RoleWriter)

	rec := ts.do("POST", "/admin/articles", map[string]any{
		"title": "Wisuda 2026", "content": "<p>Selamat</p>", "is_published": true,
	}, writer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	a := decode[models.Article](t, rec)
	assert.Regexp(t, `^wisuda-2026-[0-9a-f]{5}$`, a.Slug)
	require.NotNil(t, a.UserID)

	rec = ts.do("POST", "/admin/articles", map[string]any{
		"title": "Other", "slug": a.Slug, "content": "x",
	}, writer)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do("GET", "/berita/"+a.Slug, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do("GET", "/berita?search=selamat", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	index := decode[struct {
		Articles article.Paged `json:"articles"`
	}](t, rec)
	assert.Equal(t, 1, index.Articles.Total)
}

func TestMenuEditing(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login("admin", models.RoleAdmin)

	rec := ts.do("POST", "/admin/menus", map[string]any{"name": "Main", "location": "primary", "is_active": true}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	mn := decode[models.Menu](t, rec)

	rec = ts.do("POST", "/admin/menus", map[string]any{"name": "Dup", "location": "primary"}, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	ids := map[string]int{}
	for i, title := range []string{"A", "B", "C"} {
		rec := ts.do("POST", "/admin/menu-items", map[string]any{
			"menu_id": mn.ID, "title": title, "url": "/" + strings.ToLower(title), "order": i,
		}, admin)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids[title] = decode[models.MenuItem](t, rec).ID
	}

	rec = ts.do("POST", "/admin/menu-items", map[string]any{
		"menu_id": mn.ID, "title": "Ghost", "linkable_type": "article", "linkable_id": 42,
	}, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// C moves under A; the menu is taken from the first item.
	rec = ts.do("POST", "/admin/menu-items/reorder", map[string]any{
		"items": []map[string]any{
			{"id": ids["C"], "order": 0, "parent_id": ids["A"]},
			{"id": ids["B"], "order": 5, "parent_id": nil},
		},
	}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do("GET", "/menus/primary", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tree := decode[struct {
		Items []*models.MenuItem `json:"items"`
	}](t, rec)
	require.Len(t, tree.Items, 2)
	assert.Equal(t, "A", tree.Items[0].Title)
	require.Len(t, tree.Items[0].Children, 1)
	assert.Equal(t, "C", tree.Items[0].Children[0].Title)
	assert.Equal(t, "B", tree.Items[1].Title)

	rec = ts.do("POST", "/admin/menu-items/reorder", map[string]any{
		"menu_id": mn.ID,
		"items":   []map[string]any{{"id": ids["A"], "order": 0, "parent_id": ids["C"]}},
	}, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do("POST", "/admin/menu-items/reorder", map[string]any{"items": []any{}}, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPageBuilderData(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	for i := range 2 {
		a := models.Article{
			Title: fmt.Sprintf("a%d", i), Slug: fmt.Sprintf("a%d", i), Content: "x", IsPublished: true,
			CreatedAt: fixedNow.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, ts.server.articleRepo.Create(ctx, &a))
	}

	rec := ts.do("POST", "/page-builder/data", `{"blocks":[
		{"id":"x","type":"latest_articles","data":{"limit":"1"}},
		{"id":"y","type":"hero","data":{"title":"Hi"}},
		{"type":"slider_module"},
		{"id":7,"type":"events_list","data":{"show_upcoming_only":"1"}}
	]}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[map[string][]map[string]any](t, rec)
	assert.Len(t, res, 2)
	require.Len(t, res["x"], 1)
	assert.Equal(t, "a1", res["x"][0]["slug"])
	assert.NotNil(t, res["7"])
	assert.Empty(t, res["7"])

	rec = ts.do("POST", "/page-builder/data", `{"blocks":"nope"}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do("POST", "/page-builder/data", `{}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestPublicPage(t *testing.T) {
	ts := newTestServer(t)
	writer := ts.login("writer", models.RoleWriter)

	rec := ts.do("POST", "/admin/pages", map[string]any{
		"title":        "Tentang Kami",
		"editor_mode":  "builder",
		"is_published": true,
		"blocks": []map[string]any{
			{"id": "intro", "type": "markdown", "data": map[string]any{"content": "# Halo"}},
			{"id": "prodi", "type": "program_studies"},
		},
	}, writer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "tentang-kami", decode[models.Page](t, rec).Slug)

	rec = ts.do("GET", "/tentang-kami", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[struct {
		DynamicData    map[string][]any  `json:"dynamicData"`
		RenderedBlocks map[string]string `json:"renderedBlocks"`
		RecentArticles []any             `json:"recentArticles"`
	}](t, rec)
	assert.Contains(t, view.DynamicData, "prodi")
	assert.NotContains(t, view.DynamicData, "intro")
	assert.Contains(t, view.RenderedBlocks["intro"], "<h1")
	assert.NotNil(t, view.RecentArticles)

	rec = ts.do("POST", "/admin/pages", map[string]any{"title": "Draft", "content": "x"}, writer)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, http.StatusNotFound, ts.do("GET", "/draft", nil, nil).Code)

	rec = ts.do("POST", "/admin/pages", map[string]any{"title": "Bad", "editor_mode": "builder", "blocks": "[{"}, writer)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPageRevisions(t *testing.T) {
	ts := newTestServer(t)
	writer := ts.login("writer", models.RoleWriter)

	rec := ts.do("POST", "/admin/pages", map[string]any{"title": "Visi", "content": "lama"}, writer)
	require.Equal(t, http.StatusCreated, rec.Code)
	pg := decode[models.Page](t, rec)
	first := pg.CurrentRevisionID

	rec = ts.do("PUT", fmt.Sprintf("/admin/pages/%d", pg.ID), map[string]any{"title": "Visi", "content": "baru"}, writer)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "visi", decode[models.Page](t, rec).Slug)

	rec = ts.do("GET", fmt.Sprintf("/admin/pages/%d/revisions", pg.ID), nil, writer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Revision](t, rec), 2)

	rec = ts.do("GET", fmt.Sprintf("/admin/pages/%d/diff?from=%d", pg.ID, first), nil, writer)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	diff := decode[map[string]any](t, rec)["diff"].(string)
	assert.Contains(t, diff, "<del>")
	assert.Contains(t, diff, "<ins>")
}

func TestHomeAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do("GET", "/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	home := decode[map[string]json.RawMessage](t, rec)
	for _, key := range []string{"sliders", "latestArticles", "upcomingEvents", "menu"} {
		assert.JSONEq(t, `[]`, string(home[key]), key)
	}

	rec = ts.do("GET", "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `campuscms_http_requests_total{code="200",method="GET",pattern="GET /{$}"} 1`)
}

func TestContentResources(t *testing.T) {
	ts := newTestServer(t)
	writer := ts.login("writer", models.RoleWriter)

	rec := ts.do("POST", "/admin/facilities", map[string]any{"title": "Lab Anatomi", "is_active": true}, writer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	lab := decode[models.Facility](t, rec)
	assert.Equal(t, "lab-anatomi", lab.Slug)

	rec = ts.do("POST", "/admin/facilities", map[string]any{"title": "Gudang", "is_active": false}, writer)
	require.Equal(t, http.StatusCreated, rec.Code)
	store := decode[models.Facility](t, rec)

	rec = ts.do("PUT", fmt.Sprintf("/admin/facilities/%d", lab.ID), map[string]any{"title": "Lab Anatomi Baru", "is_active": true}, writer)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "lab-anatomi", decode[models.Facility](t, rec).Slug)

	rec = ts.do("GET", "/fasilitas", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	index := decode[struct {
		Facilities []models.Facility `json:"facilities"`
	}](t, rec)
	require.Len(t, index.Facilities, 1)
	assert.Equal(t, "Lab Anatomi Baru", index.Facilities[0].Title)

	assert.Equal(t, http.StatusNotFound, ts.do("GET", "/fasilitas/"+store.Slug, nil, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do("GET", "/fasilitas/lab-anatomi", nil, nil).Code)

	assert.Equal(t, http.StatusNoContent, ts.do("DELETE", fmt.Sprintf("/admin/facilities/%d", store.ID), nil, writer).Code)
	assert.Equal(t, http.StatusNotFound, ts.do("DELETE", fmt.Sprintf("/admin/facilities/%d", store.ID), nil, writer).Code)

	assert.Equal(t, http.StatusForbidden, ts.do("POST", "/admin/staff", map[string]any{"name": "Budi"}, writer).Code)
}

func TestEventsAgenda(t *testing.T) {
	ts := newTestServer(t)
	writer := ts.login("writer", models.RoleWriter)

	for _, e := range []struct {
		title string
		start time.Time
	}{
		{"Seminar Lalu", fixedNow.Add(-48 * time.Hour)},
		{"Seminar Nanti", fixedNow.Add(48 * time.Hour)},
	} {
		rec := ts.do("POST", "/admin/events", map[string]any{
			"title": e.title, "start_date": e.start, "is_published": true,
		}, writer)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := ts.do("POST", "/admin/events", map[string]any{
		"title": "Bad", "start_date": fixedNow, "end_date": fixedNow.Add(-time.Hour),
	}, writer)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do("GET", "/agenda", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	agenda := decode[struct {
		Events []models.Event `json:"events"`
	}](t, rec)
	require.Len(t, agenda.Events, 1)
	assert.Equal(t, "Seminar Nanti", agenda.Events[0].Title)
	assert.Regexp(t, `^seminar-nanti-[0-9a-f]{5}$`, agenda.Events[0].Slug)
}

func TestDocumentDownload(t *testing.T) {
	ts := newTestServer(t)
	writer := ts.login("writer", models.RoleWriter)

	name := "0123abcd-1.pdf"
	require.NoError(t, os.WriteFile(filepath.Join(ts.server.opts.UploadDir, name), []byte("%PDF-1.4"), 0644))

	rec := ts.do("POST", "/admin/documents", map[string]any{
		"title": "Kalender Akademik", "file_path": "/uploads/" + name, "is_public": true, "category": "Akademik",
	}, writer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	doc := decode[models.Document](t, rec)

	rec = ts.do("GET", fmt.Sprintf("/download/%d", doc.ID), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.4", rec.Body.String())
	assert.Equal(t, `attachment; filename="Kalender Akademik.pdf"`, rec.Header().Get("Content-Disposition"))

	rec = ts.do("GET", "/download", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	grouped := decode[struct {
		Groups map[string][]models.Document `json:"groupedDocuments"`
	}](t, rec)
	assert.Len(t, grouped.Groups["Akademik"], 1)

	rec = ts.do("POST", "/admin/documents", map[string]any{
		"title": "Rahasia", "file_path": "/uploads/" + name, "is_public": false,
	}, writer)
	require.Equal(t, http.StatusCreated, rec.Code)
	hidden := decode[models.Document](t, rec)
	assert.Equal(t, http.StatusNotFound, ts.do("GET", fmt.Sprintf("/download/%d", hidden.ID), nil, nil).Code)
}

func TestSearch(t *testing.T) {
	ts := newTestServer(t)
	writer := ts.login("writer", models.RoleWriter)

	rec := ts.do("POST", "/admin/articles", map[string]any{
		"title": "Beasiswa Prestasi", "content": "<p>Pendaftaran beasiswa dibuka</p>", "is_published": true,
	}, writer)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do("GET", "/search?q=beasiswa", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[struct {
		Results []map[string]string `json:"results"`
		Query   string              `json:"query"`
	}](t, rec)
	assert.Equal(t, "beasiswa", res.Query)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "Berita", res.Results[0]["type"])
	assert.Equal(t, "Pendaftaran beasiswa dibuka...", res.Results[0]["description"])

	rec = ts.do("GET", "/search", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"results":[]`)
}

func TestAdminMetricsLabels(t *testing.T) {
	ts := newTestServer(t)
	writer := ts.login("writer", models.RoleWriter)

	require.Equal(t, http.StatusOK, ts.do("GET", "/admin/articles", nil, writer).Code)
	require.Equal(t, http.StatusForbidden, ts.do("GET", "/admin/users", nil, writer).Code)

	rec := ts.do("GET", "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `campuscms_http_requests_total{code="200",method="GET",pattern="GET /admin/articles"} 1`)
	assert.Contains(t, body, `campuscms_http_requests_total{code="403",method="GET",pattern="GET /admin/users"} 1`)
	assert.NotContains(t, body, `pattern="/admin/"`)
}
