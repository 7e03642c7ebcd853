package domain

// Item is a catalog record. Updates replace all three mutable fields at
// once; there are no partial semantics for items.
type Item struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}
