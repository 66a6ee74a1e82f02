// Package menu assembles navigation menus from their stored items and keeps
// item links and ordering consistent on write.
package menu

import (
	"errors"
	"fmt"
	"sort"

	"campuscms/internal/models"
)

// ErrCycle reports menu items whose parent chain loops back on itself.
var ErrCycle = errors.New("menu item parent cycle")

// BuildTree arranges the items of one menu into a forest. Each sibling group
// is sorted by Order; items with equal Order keep their input order. Items
// whose parent is not part of items are placed at the root.
//
// Items that cannot be reached from a root belong to a parent cycle. They are
// left out of the forest and reported through an error wrapping ErrCycle; the
// returned forest is still usable.
func BuildTree(items []models.MenuItem) ([]*models.MenuItem, error) {
	nodes := make([]*models.MenuItem, 0, len(items))
	byID := make(map[int]*models.MenuItem, len(items))
	for i := range items {
		if _, dup := byID[items[i].ID]; dup {
			continue
		}
		n := items[i]
		n.Children = nil
		nodes = append(nodes, &n)
		byID[n.ID] = &n
	}

	var roots []*models.MenuItem
	children := make(map[int][]*models.MenuItem)
	for _, n := range nodes {
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		if _, ok := byID[*n.ParentID]; !ok {
			roots = append(roots, n)
			continue
		}
		children[*n.ParentID] = append(children[*n.ParentID], n)
	}

	sortByOrder(roots)
	visited := make(map[int]bool, len(nodes))
	stack := append([]*models.MenuItem(nil), roots...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n.ID] {
			return roots, fmt.Errorf("%w: item %d reached twice", ErrCycle, n.ID)
		}
		visited[n.ID] = true

		kids := children[n.ID]
		sortByOrder(kids)
		n.Children = kids
		stack = append(stack, kids...)
	}

	if len(visited) == len(nodes) {
		return roots, nil
	}

	var stranded []int
	for _, n := range nodes {
		if !visited[n.ID] {
			stranded = append(stranded, n.ID)
		}
	}
	return roots, fmt.Errorf("%w: items %v are unreachable from the menu root", ErrCycle, stranded)
}

func sortByOrder(items []*models.MenuItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Order < items[j].Order
	})
}

// Flatten lists the forest depth first; used to render admin item pickers.
func Flatten(forest []*models.MenuItem) []*models.MenuItem {
	var out []*models.MenuItem
	var walk func([]*models.MenuItem)
	walk = func(level []*models.MenuItem) {
		for _, n := range level {
			out = append(out, n)
			walk(n.Children)
		}
	}
	walk(forest)
	return out
}
