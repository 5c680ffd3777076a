package model

// GroupCount is one bucket of a grouped count. Label is nil for the NULL group.
type GroupCount struct {
	Label *string `db:"label"`
	Count int64   `db:"count"`
}
