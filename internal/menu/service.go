package menu

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"campuscms/internal/models"
)

// Service applies the menu rules on top of the repository: link URLs are
// resolved when an item is written and trees are built when read.
type Service struct {
	Repo  *Repository
	Links Links
	Log   *zap.Logger
}

// NewService creates a menu service.
func NewService(repo *Repository, links Links, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Repo: repo, Links: links, Log: log}
}

// applyLink stores the linkable reference on it and, for article and page
// links, replaces its URL with the resolved one.
func (s *Service) applyLink(ctx context.Context, it *models.MenuItem, link Linkable) error {
	if link.Kind == LinkCustom {
		it.LinkableType = nil
		it.LinkableID = nil
		return nil
	}

	url, err := s.Links.ResolveURL(ctx, link)
	if err != nil {
		return err
	}
	kind, id := link.Kind.String(), link.ID
	it.URL = &url
	it.LinkableType = &kind
	it.LinkableID = &id
	return nil
}

// CreateItem resolves the item's link and inserts it. A parent must belong to
// the same menu.
func (s *Service) CreateItem(ctx context.Context, it *models.MenuItem, link Linkable) error {
	if _, err := s.Repo.FindMenu(ctx, it.MenuID); err != nil {
		return err
	}
	if it.ParentID != nil {
		parent, err := s.Repo.FindItem(ctx, *it.ParentID)
		if errors.Is(err, models.ErrNotFound) || (err == nil && parent.MenuID != it.MenuID) {
			return fmt.Errorf("%w: parent %d is not an item of menu %d", models.ErrInvalid, *it.ParentID, it.MenuID)
		}
		if err != nil {
			return err
		}
	}
	if err := s.applyLink(ctx, it, link); err != nil {
		return err
	}
	return s.Repo.CreateItem(ctx, it)
}

// UpdateItem resolves the item's link and writes its content.
func (s *Service) UpdateItem(ctx context.Context, it *models.MenuItem, link Linkable) error {
	if err := s.applyLink(ctx, it, link); err != nil {
		return err
	}
	return s.Repo.UpdateItem(ctx, it)
}

// DeleteItem removes an item, moving its children up one level.
func (s *Service) DeleteItem(ctx context.Context, id int) error {
	return s.Repo.DeleteItem(ctx, id)
}

// Reorder applies a drag-and-drop result to a menu. The batch is rejected as
// a whole when it names foreign items or parents, or would create a cycle.
func (s *Service) Reorder(ctx context.Context, menuID int, entries []ReorderEntry) error {
	if err := s.Repo.Reorder(ctx, menuID, entries); err != nil {
		return err
	}
	s.Log.Debug("menu reordered", zap.Int("menu_id", menuID), zap.Int("items", len(entries)))
	return nil
}

// Tree loads and builds the item forest of a menu. A parent cycle in the
// stored data is logged and the reachable part of the forest returned.
func (s *Service) Tree(ctx context.Context, menuID int) ([]*models.MenuItem, error) {
	items, err := s.Repo.Items(ctx, menuID)
	if err != nil {
		return nil, err
	}
	forest, err := BuildTree(items)
	if errors.Is(err, ErrCycle) {
		s.Log.Warn("menu has a parent cycle", zap.Int("menu_id", menuID), zap.Error(err))
		return forest, nil
	}
	return forest, err
}

// TreeByLocation builds the tree of the active menu placed at location.
func (s *Service) TreeByLocation(ctx context.Context, location string) (models.Menu, []*models.MenuItem, error) {
	m, err := s.Repo.FindActiveMenuByLocation(ctx, location)
	if err != nil {
		return m, nil, err
	}
	forest, err := s.Tree(ctx, m.ID)
	return m, forest, err
}
