// Package domain holds the wine catalog entities and the error taxonomy
// shared by every layer.
package domain

// Wine is a catalog entry.
// ID is assigned by the store when the wine is added and never changes afterwards.
type Wine struct {
	ID    int
	Title string
	Year  int
	Brand string
	Type  string
}

// EntityID returns the store-assigned identifier.
func (w *Wine) EntityID() int {
	return w.ID
}

// AssignID sets the identifier. Only stores should call this.
func (w *Wine) AssignID(id int) {
	w.ID = id
}
