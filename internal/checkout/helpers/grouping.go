package helpers

import "github.com/angelmondragon/bookstore-backend/internal/cart"

// StoreItems holds the line items sold by one store.
type StoreItems struct {
	StoreID string
	Items   []cart.LineItem
}

// GroupLineItemsByStore groups line items by the store that owns each book.
// Groups keep the order in which their store first appears in the cart and
// items without a store share the group with an empty StoreID.
func GroupLineItemsByStore(items []cart.LineItem) []StoreItems {
	index := make(map[string]int, len(items))
	var groups []StoreItems
	for _, item := range items {
		storeID := item.Book.StoreID
		i, ok := index[storeID]
		if !ok {
			i = len(groups)
			index[storeID] = i
			groups = append(groups, StoreItems{StoreID: storeID})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// StoreTotals captures the recalculated totals for one store group.
type StoreTotals struct {
	StoreID string    `json:"storeId"`
	Cart    cart.Cart `json:"cart"`
}

// ComputeTotalsByStore prices every group with the same policy as the cart.
func ComputeTotalsByStore(items []cart.LineItem, policy cart.Policy) []StoreTotals {
	groups := GroupLineItemsByStore(items)
	out := make([]StoreTotals, 0, len(groups))
	for _, group := range groups {
		out = append(out, StoreTotals{
			StoreID: group.StoreID,
			Cart:    cart.Recalculate(group.Items, policy),
		})
	}
	return out
}
