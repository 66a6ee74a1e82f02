package menu

import (
	"context"
	"errors"

	"campuscms/internal/models"
)

// PrimaryLocation is where the main navigation menu is placed.
const PrimaryLocation = "primary"

var primaryItems = []struct {
	title, url string
}{
	{"Beranda", "/"},
	{"Berita", "/berita"},
	{"Agenda", "/agenda"},
	{"Download", "/download"},
	{"Fasilitas", "/fasilitas"},
}

// SeedPrimary creates the main navigation with its default links unless a
// menu already sits at PrimaryLocation.
func (r *Repository) SeedPrimary(ctx context.Context) (bool, error) {
	taken, err := r.LocationTaken(ctx, PrimaryLocation, 0)
	if err != nil || taken {
		return false, err
	}

	loc := PrimaryLocation
	m := models.Menu{Name: "Main Navigation", Location: &loc, IsActive: true}
	if err := r.CreateMenu(ctx, &m); err != nil {
		return false, err
	}
	for i, it := range primaryItems {
		url := it.url
		item := models.MenuItem{MenuID: m.ID, Title: it.title, URL: &url, Order: i + 1}
		if err := r.CreateItem(ctx, &item); err != nil {
			return false, errors.Join(err, r.DeleteMenu(ctx, m.ID))
		}
	}
	return true, nil
}
