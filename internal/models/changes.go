package models

// ChangeInfo - information about a featured product that changed.
type ChangeInfo struct {
	Old Product
	New Product
}

// Changes - comparison result between two featured slides.
type Changes struct {
	Added   []Product
	Removed []Product
	Changed []ChangeInfo
}

// Empty reports whether nothing changed.
func (c *Changes) Empty() bool {
	return c == nil || len(c.Added)+len(c.Removed)+len(c.Changed) == 0
}

// State - the featured slide as last stored in the database.
type State struct {
	Hash     string
	Products []Product
}
