package inventory

// DeriveStatus applies the backend stock rule: nothing on hand is out of stock,
// anything under the minimum level is low.
func DeriveStatus(stock, minLevel int) ProductStatus {
	switch {
	case stock <= 0:
		return StatusOutOfStock
	case stock < minLevel:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Label returns the human readable status.
func (s ProductStatus) Label() string {
	switch s {
	case StatusLowStock:
		return "Low Stock"
	case StatusOutOfStock:
		return "Out of Stock"
	default:
		return "In Stock"
	}
}

// Valid reports whether s is one of the known statuses.
func (s ProductStatus) Valid() bool {
	switch s {
	case StatusInStock, StatusLowStock, StatusOutOfStock:
		return true
	}
	return false
}
