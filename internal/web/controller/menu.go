package controller

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"campuscms/internal/article"
	"campuscms/internal/menu"
	"campuscms/internal/models"
	"campuscms/internal/page"
)

// Menu serves the menu editor and the public navigation trees.
type Menu struct {
	Service     *menu.Service
	ArticleRepo *article.Repository
	PageRepo    *page.Repository
	Log         *zap.Logger
}

// RegisterAdmin registers the menu management routes.
func (m *Menu) RegisterAdmin(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/menus", m.list)
	mux.HandleFunc("POST /admin/menus", m.createMenu)
	mux.HandleFunc("GET /admin/menus/{id}", m.edit)
	mux.HandleFunc("PUT /admin/menus/{id}", m.updateMenu)
	mux.HandleFunc("DELETE /admin/menus/{id}", m.deleteMenu)

	mux.HandleFunc("POST /admin/menu-items", m.createItem)
	mux.HandleFunc("POST /admin/menu-items/reorder", m.reorder)
	mux.HandleFunc("PUT /admin/menu-items/{id}", m.updateItem)
	mux.HandleFunc("DELETE /admin/menu-items/{id}", m.deleteItem)
}

// RegisterPublic registers the navigation route.
func (m *Menu) RegisterPublic(mux *http.ServeMux) {
	mux.HandleFunc("GET /menus/{location}", m.byLocation)
}

func (m *Menu) list(w http.ResponseWriter, r *http.Request) {
	menus, err := m.Service.Repo.ListMenus(r.Context())
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(menus))
}

// edit returns a menu with its item tree and everything an item may link to.
func (m *Menu) edit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	mn, err := m.Service.Repo.FindMenu(ctx, id)
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	items, err := m.Service.Tree(ctx, id)
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	articles, err := m.ArticleRepo.Latest(ctx, nil, -1)
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	pages, err := m.PageRepo.ListPublished(ctx)
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	categories, err := m.ArticleRepo.ListCategories(ctx)
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"menu":       mn,
		"items":      orEmpty(items),
		"articles":   orEmpty(articles),
		"pages":      orEmpty(pages),
		"categories": orEmpty(categories),
	})
}

// prepareMenu validates mn and keeps its location unique. An empty location
// is stored as NULL so any number of menus may be unplaced.
func (m *Menu) prepareMenu(r *http.Request, mn *models.Menu) error {
	if err := required("name", mn.Name); err != nil {
		return err
	}
	if mn.Location == nil {
		return nil
	}
	loc := strings.TrimSpace(*mn.Location)
	if loc == "" {
		mn.Location = nil
		return nil
	}
	mn.Location = &loc
	taken, err := m.Service.Repo.LocationTaken(r.Context(), loc, mn.ID)
	if err != nil {
		return err
	}
	if taken {
		return invalid("location %q already has a menu", loc)
	}
	return nil
}

func (m *Menu) createMenu(w http.ResponseWriter, r *http.Request) {
	var mn models.Menu
	if err := decodeJSON(w, r, &mn); err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	mn.ID = 0
	if err := m.prepareMenu(r, &mn); err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	if err := m.Service.Repo.CreateMenu(r.Context(), &mn); err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, mn)
}

func (m *Menu) updateMenu(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	var mn models.Menu
	if err := decodeJSON(w, r, &mn); err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	mn.ID = id
	if err := m.prepareMenu(r, &mn); err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	if err := m.Service.Repo.UpdateMenu(r.Context(), &mn); err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, mn)
}

func (m *Menu) deleteMenu(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	if err := m.Service.Repo.DeleteMenu(r.Context(), id); err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// itemInput is the menu item form. linkable_type is one of "", "custom",
// "article" or "page".
type itemInput struct {
	MenuID       int     `json:"menu_id"`
	ParentID     *int    `json:"parent_id"`
	Title        string  `json:"title"`
	URL          *string `json:"url"`
	Order        int     `json:"order"`
	Target       *string `json:"target"`
	Icon         *string `json:"icon"`
	LinkableType string  `json:"linkable_type"`
	LinkableID   *int    `json:"linkable_id"`
}

func (in itemInput) item() (models.MenuItem, menu.Linkable, error) {
	link, err := menu.ParseLinkable(in.LinkableType, in.LinkableID)
	if err != nil {
		return models.MenuItem{}, link, err
	}
	if err := required("title", in.Title); err != nil {
		return models.MenuItem{}, link, err
	}
	if link.Kind == menu.LinkCustom && (in.URL == nil || strings.TrimSpace(*in.URL) == "") {
		return models.MenuItem{}, link, invalid("url is required for custom links")
	}
	if in.Target != nil && *in.Target != "_self" && *in.Target != "_blank" {
		return models.MenuItem{}, link, invalid("target must be _self or _blank")
	}
	return models.MenuItem{
		MenuID:   in.MenuID,
		ParentID: in.ParentID,
		Title:    in.Title,
		URL:      in.URL,
		Order:    in.Order,
		Target:   in.Target,
		Icon:     in.Icon,
	}, link, nil
}

func (m *Menu) createItem(w http.ResponseWriter, r *http.Request) {
	var in itemInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	it, link, err := in.item()
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	if err := m.Service.CreateItem(r.Context(), &it, link); err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (m *Menu) updateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	current, err := m.Service.Repo.FindItem(r.Context(), id)
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}

	var in itemInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	it, link, err := in.item()
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	it.ID, it.MenuID, it.ParentID = current.ID, current.MenuID, current.ParentID
	if err := m.Service.UpdateItem(r.Context(), &it, link); err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (m *Menu) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	if err := m.Service.DeleteItem(r.Context(), id); err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// reorderInput is the result of a drag-and-drop in the menu editor. When
// menu_id is absent the menu is taken from the first item.
type reorderInput struct {
	MenuID int                 `json:"menu_id"`
	Items  []menu.ReorderEntry `json:"items"`
}

func (m *Menu) reorder(w http.ResponseWriter, r *http.Request) {
	var in reorderInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	if len(in.Items) == 0 {
		writeError(w, r, m.Log, invalid("items must not be empty"))
		return
	}

	menuID := in.MenuID
	if menuID == 0 {
		first, err := m.Service.Repo.FindItem(r.Context(), in.Items[0].ID)
		if err != nil {
			writeError(w, r, m.Log, err)
			return
		}
		menuID = first.MenuID
	}

	if err := m.Service.Reorder(r.Context(), menuID, in.Items); err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (m *Menu) byLocation(w http.ResponseWriter, r *http.Request) {
	mn, items, err := m.Service.TreeByLocation(r.Context(), r.PathValue("location"))
	if err != nil {
		writeError(w, r, m.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"menu":  mn,
		"items": orEmpty(items),
	})
}
