package menu

import (
	"fmt"

	"campuscms/internal/models"
)

// ReorderEntry is the new placement of one menu item.
type ReorderEntry struct {
	ID       int  `json:"id"`
	Order    int  `json:"order"`
	ParentID *int `json:"parent_id"`
}

// validateReorder checks a batch against the current parent of every item in
// the menu. Every entry must name an item of the menu and a parent from the
// same menu, and the resulting parent graph must stay acyclic.
func validateReorder(parents map[int]*int, entries []ReorderEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: no items to reorder", models.ErrInvalid)
	}

	next := make(map[int]*int, len(parents))
	for id, p := range parents {
		next[id] = p
	}

	for _, e := range entries {
		if _, ok := parents[e.ID]; !ok {
			return fmt.Errorf("menu item %d: %w", e.ID, models.ErrNotFound)
		}
		if e.ParentID != nil {
			if *e.ParentID == e.ID {
				return fmt.Errorf("%w: menu item %d cannot be its own parent", models.ErrInvalid, e.ID)
			}
			if _, ok := parents[*e.ParentID]; !ok {
				return fmt.Errorf("%w: parent %d of menu item %d is not in this menu", models.ErrInvalid, *e.ParentID, e.ID)
			}
		}
		next[e.ID] = e.ParentID
	}

	for id := range next {
		seen := map[int]bool{id: true}
		for p := next[id]; p != nil; p = next[*p] {
			if seen[*p] {
				return fmt.Errorf("%w: %w at menu item %d", models.ErrInvalid, ErrCycle, id)
			}
			seen[*p] = true
		}
	}
	return nil
}
