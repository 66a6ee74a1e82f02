package models

// Layouts an article or page may be rendered with.
var Layouts = []string{"default", "full", "sidebar-left", "sidebar-right", "centered"}

// ValidLayout reports whether layout is one of Layouts. The empty layout is
// valid and means "default".
func ValidLayout(layout string) bool {
	if layout == "" {
		return true
	}
	for _, l := range Layouts {
		if l == layout {
			return true
		}
	}
	return false
}
