package article

import (
	"context"
	"fmt"

	"campuscms/internal/database"
	"campuscms/internal/models"
)

// ListCategories lists all categories by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, slug FROM categories ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// FindCategory finds a category by its ID.
func (r *Repository) FindCategory(ctx context.Context, id int) (models.Category, error) {
	var c models.Category
	err := r.DB.QueryRowContext(ctx, "SELECT id, name, slug FROM categories WHERE id = ?", id).Scan(&c.ID, &c.Name, &c.Slug)
	return c, database.NotFound(err, "category")
}

// CreateCategory inserts a category and sets its ID.
func (r *Repository) CreateCategory(ctx context.Context, c *models.Category) error {
	res, err := r.DB.ExecContext(ctx, "INSERT INTO categories (name, slug) VALUES (?, ?)", c.Name, c.Slug)
	if err != nil {
		return fmt.Errorf("error creating category: %w", err)
	}
	id, _ := res.LastInsertId()
	c.ID = int(id)
	return nil
}

// UpdateCategory renames a category.
func (r *Repository) UpdateCategory(ctx context.Context, c *models.Category) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE categories SET name = ?, slug = ? WHERE id = ?", c.Name, c.Slug, c.ID)
	if err != nil {
		return fmt.Errorf("error updating category: %w", err)
	}
	return database.CheckAffected(res, "category")
}

// DeleteCategory removes a category; its articles become uncategorised.
func (r *Repository) DeleteCategory(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting category: %w", err)
	}
	return database.CheckAffected(res, "category")
}
