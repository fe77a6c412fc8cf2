package m_product

// Field name constants for the products table.
// These provide type-safe field references and prevent typos.
const (
	TableName = "products"

	ProductID         = "product_id"
	Name              = "name"
	ChildrenCount     = "children_count"
	ClassificationIDs = "classification_ids"
	ImageID           = "image_id"
	ModifiedAt        = "modified_at"
	ModifiedByID      = "modified_by_id"
	Deleted           = "deleted"
)
