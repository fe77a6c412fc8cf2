package domain

// ChangeTracker records which output fields of a value changed, in the order
// they were marked.
type ChangeTracker struct {
	dirtyFields map[string]bool
	order       []string
}

// NewChangeTracker creates a new ChangeTracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{
		dirtyFields: make(map[string]bool),
	}
}

// MarkDirty marks a field as dirty (modified).
func (ct *ChangeTracker) MarkDirty(field string) {
	if ct.dirtyFields[field] {
		return
	}
	ct.dirtyFields[field] = true
	ct.order = append(ct.order, field)
}

// Dirty checks if a field has been modified.
func (ct *ChangeTracker) Dirty(field string) bool {
	return ct.dirtyFields[field]
}

// Clear clears all dirty field markers.
func (ct *ChangeTracker) Clear() {
	ct.dirtyFields = make(map[string]bool)
	ct.order = nil
}

// HasChanges returns true if any field has been modified.
func (ct *ChangeTracker) HasChanges() bool {
	return len(ct.order) > 0
}

// DirtyFields returns the dirty field names in marking order.
func (ct *ChangeTracker) DirtyFields() []string {
	return append([]string(nil), ct.order...)
}
