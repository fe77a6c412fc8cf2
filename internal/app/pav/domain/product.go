package domain

import "time"

// Product is a node of the variant hierarchy.
type Product struct {
	ID                string
	Name              string
	ChildrenCount     int64
	ClassificationIDs []string
	ImageID           string
	ModifiedAt        time.Time
	ModifiedByID      string
	Deleted           bool
}

// ProductNode is a child product as seen from its parent.
type ProductNode struct {
	ID            string
	Name          string
	ChildrenCount int64
}

// HierarchyEdge links a parent product to a child product.
type HierarchyEdge struct {
	ID        string
	ParentID  string
	EntityID  string
	MainChild bool
	Deleted   bool
	CreatedAt time.Time
}

// Clone returns a copy of the edge.
func (e *HierarchyEdge) Clone() *HierarchyEdge {
	c := *e
	return &c
}
