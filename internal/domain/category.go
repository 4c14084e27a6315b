package domain

// Category aggregates the catalog by product category label.
type Category struct {
	Name     string `json:"name"`
	Products int    `json:"products"`
}
