package model

// CatalogDevice is a known part number and the device it identifies.
type CatalogDevice struct {
	Spec  string `db:"spec" json:"spec"`
	Model string `db:"model" json:"model"`
	GB    string `db:"gb" json:"gb"`
	Color string `db:"color" json:"color"`
	COO   string `db:"coo" json:"coo"`
}
