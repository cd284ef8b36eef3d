package cart

// Book is the projection of a catalog book the cart needs. Inventory is
// advisory: nil means unlimited and the cart itself never enforces it.
type Book struct {
	ID                string   `json:"id" validate:"notblank"`
	InventoryQuantity *int     `json:"inventoryQuantity"`
	Price             *float64 `json:"price" validate:"omitempty,gte=0"`
	Title             string   `json:"title"`
	PurchasePrice     *float64 `json:"purchasePrice,omitempty"`
	Images            []string `json:"images,omitempty"`
	SKU               string   `json:"sku"`
	StoreID           string   `json:"storeId,omitempty"`
}

// UnitPrice returns the listed price, treating a missing price as zero.
func (b Book) UnitPrice() float64 {
	if b.Price == nil {
		return 0
	}
	return *b.Price
}

// HasStockFor reports whether the book's advisory inventory covers qty.
func (b Book) HasStockFor(qty int) bool {
	if b.InventoryQuantity == nil {
		return true
	}
	return qty <= *b.InventoryQuantity
}
