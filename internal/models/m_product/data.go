package m_product

import (
	"cloud.google.com/go/spanner"
)

// Data represents the database model for the products table.
type Data struct {
	ProductID         string             `spanner:"product_id"`
	Name              string             `spanner:"name"`
	ChildrenCount     int64              `spanner:"children_count"`
	ClassificationIDs []string           `spanner:"classification_ids"`
	ImageID           spanner.NullString `spanner:"image_id"`
	ModifiedAt        spanner.NullTime   `spanner:"modified_at"`
	ModifiedByID      spanner.NullString `spanner:"modified_by_id"`
	Deleted           bool               `spanner:"deleted"`
}
