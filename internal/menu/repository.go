package menu

import (
	"context"
	"database/sql"
	"fmt"

	"campuscms/internal/database"
	"campuscms/internal/models"
)

const selectItem = `SELECT id, menu_id, parent_id, title, url, "order", target, icon, linkable_type, linkable_id FROM menu_items`

// Repository provides access to menus and their items.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new menu repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// ListMenus lists all menus with their item counts, newest first.
func (r *Repository) ListMenus(ctx context.Context) ([]models.Menu, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT m.id, m.name, m.location, m.is_active, m.created_at,
		(SELECT COUNT(*) FROM menu_items i WHERE i.menu_id = m.id)
		FROM menus m ORDER BY m.created_at DESC, m.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing menus: %w", err)
	}
	defer rows.Close()

	var menus []models.Menu
	for rows.Next() {
		var m models.Menu
		if err := rows.Scan(&m.ID, &m.Name, &m.Location, &m.IsActive, &m.CreatedAt, &m.ItemCount); err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}

// FindMenu finds a menu by its ID.
func (r *Repository) FindMenu(ctx context.Context, id int) (models.Menu, error) {
	var m models.Menu
	err := r.DB.QueryRowContext(ctx, "SELECT id, name, location, is_active, created_at FROM menus WHERE id = ?", id).
		Scan(&m.ID, &m.Name, &m.Location, &m.IsActive, &m.CreatedAt)
	return m, database.NotFound(err, "menu")
}

// FindActiveMenuByLocation finds the active menu placed at location.
func (r *Repository) FindActiveMenuByLocation(ctx context.Context, location string) (models.Menu, error) {
	var m models.Menu
	err := r.DB.QueryRowContext(ctx, "SELECT id, name, location, is_active, created_at FROM menus WHERE location = ? AND is_active = 1", location).
		Scan(&m.ID, &m.Name, &m.Location, &m.IsActive, &m.CreatedAt)
	return m, database.NotFound(err, "menu")
}

// CreateMenu inserts a menu and sets its ID.
func (r *Repository) CreateMenu(ctx context.Context, m *models.Menu) error {
	m.CreatedAt = database.Now()
	res, err := r.DB.ExecContext(ctx, "INSERT INTO menus (name, location, is_active, created_at) VALUES (?, ?, ?, ?)",
		m.Name, m.Location, m.IsActive, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating menu: %w", err)
	}
	id, _ := res.LastInsertId()
	m.ID = int(id)
	return nil
}

// UpdateMenu writes the name, location and active flag of m.
func (r *Repository) UpdateMenu(ctx context.Context, m *models.Menu) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE menus SET name = ?, location = ?, is_active = ? WHERE id = ?",
		m.Name, m.Location, m.IsActive, m.ID)
	if err != nil {
		return fmt.Errorf("error updating menu: %w", err)
	}
	return database.CheckAffected(res, "menu")
}

// LocationTaken reports whether another menu already sits at location.
func (r *Repository) LocationTaken(ctx context.Context, location string, exceptID int) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM menus WHERE location = ? AND id != ?", location, exceptID).Scan(&n)
	return n > 0, err
}

// DeleteMenu removes a menu and all of its items.
func (r *Repository) DeleteMenu(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM menus WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting menu: %w", err)
	}
	return database.CheckAffected(res, "menu")
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listItems(ctx context.Context, q queryer, menuID int) ([]models.MenuItem, error) {
	rows, err := q.QueryContext(ctx, selectItem+` WHERE menu_id = ? ORDER BY "order" ASC, id ASC`, menuID)
	if err != nil {
		return nil, fmt.Errorf("error listing menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var it models.MenuItem
		if err := rows.Scan(&it.ID, &it.MenuID, &it.ParentID, &it.Title, &it.URL, &it.Order, &it.Target, &it.Icon,
			&it.LinkableType, &it.LinkableID); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Items lists the items of a menu by order, then ID.
func (r *Repository) Items(ctx context.Context, menuID int) ([]models.MenuItem, error) {
	return listItems(ctx, r.DB, menuID)
}

// FindItem finds a menu item by its ID.
func (r *Repository) FindItem(ctx context.Context, id int) (models.MenuItem, error) {
	var it models.MenuItem
	err := r.DB.QueryRowContext(ctx, selectItem+" WHERE id = ?", id).Scan(&it.ID, &it.MenuID, &it.ParentID, &it.Title,
		&it.URL, &it.Order, &it.Target, &it.Icon, &it.LinkableType, &it.LinkableID)
	return it, database.NotFound(err, "menu item")
}

// CreateItem inserts a menu item and sets its ID.
func (r *Repository) CreateItem(ctx context.Context, it *models.MenuItem) error {
	res, err := r.DB.ExecContext(ctx, `INSERT INTO menu_items
		(menu_id, parent_id, title, url, "order", target, icon, linkable_type, linkable_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.MenuID, it.ParentID, it.Title, it.URL, it.Order, it.Target, it.Icon, it.LinkableType, it.LinkableID)
	if err != nil {
		return fmt.Errorf("error creating menu item: %w", err)
	}
	id, _ := res.LastInsertId()
	it.ID = int(id)
	return nil
}

// UpdateItem writes the content of a menu item. Placement (menu, parent and
// order among siblings) is changed through Reorder.
func (r *Repository) UpdateItem(ctx context.Context, it *models.MenuItem) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE menu_items SET
		title = ?, url = ?, "order" = ?, target = ?, icon = ?, linkable_type = ?, linkable_id = ?
		WHERE id = ?`,
		it.Title, it.URL, it.Order, it.Target, it.Icon, it.LinkableType, it.LinkableID, it.ID)
	if err != nil {
		return fmt.Errorf("error updating menu item: %w", err)
	}
	return database.CheckAffected(res, "menu item")
}

// DeleteItem removes a menu item. Its children move up to the item's parent.
func (r *Repository) DeleteItem(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var parentID *int
	if err := tx.QueryRowContext(ctx, "SELECT parent_id FROM menu_items WHERE id = ?", id).Scan(&parentID); err != nil {
		return database.NotFound(err, "menu item")
	}
	if _, err := tx.ExecContext(ctx, "UPDATE menu_items SET parent_id = ? WHERE parent_id = ?", parentID, id); err != nil {
		return fmt.Errorf("error re-parenting menu items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM menu_items WHERE id = ?", id); err != nil {
		return fmt.Errorf("error deleting menu item: %w", err)
	}
	return tx.Commit()
}

// Reorder validates and applies a batch of placement updates to the items of
// one menu inside a single transaction.
func (r *Repository) Reorder(ctx context.Context, menuID int, entries []ReorderEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	items, err := listItems(ctx, tx, menuID)
	if err != nil {
		return err
	}
	parents := make(map[int]*int, len(items))
	for _, it := range items {
		parents[it.ID] = it.ParentID
	}
	if err := validateReorder(parents, entries); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `UPDATE menu_items SET "order" = ?, parent_id = ? WHERE id = ? AND menu_id = ?`)
	if err != nil {
		return fmt.Errorf("error preparing reorder: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Order, e.ParentID, e.ID, menuID); err != nil {
			return fmt.Errorf("error reordering menu item %d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}
