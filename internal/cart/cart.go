package cart

import "github.com/google/uuid"

// LineItem is one book in the cart. Price is locked at the first add and
// Total is always Quantity × Price.
type LineItem struct {
	ID       string  `json:"id"`
	Book     Book    `json:"book"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

// Cart is the item collection plus its derived aggregates.
type Cart struct {
	Items     []LineItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Tax       float64    `json:"tax"`
	Shipping  float64    `json:"shipping"`
	Discount  float64    `json:"discount"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// Empty returns the zero-aggregate cart.
func Empty() Cart {
	return Cart{Items: []LineItem{}}
}

// IsEmpty reports whether the cart holds no line items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// IsInCart reports whether a line item exists for bookID.
func (c Cart) IsInCart(bookID string) bool {
	return c.indexOf(bookID) >= 0
}

// GetItemQuantity returns the quantity held for bookID, or 0.
func (c Cart) GetItemQuantity(bookID string) int {
	if i := c.indexOf(bookID); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}

func (c Cart) indexOf(bookID string) int {
	for i, item := range c.Items {
		if item.Book.ID == bookID {
			return i
		}
	}
	return -1
}

func (c Cart) cloneItems() []LineItem {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return items
}

// Aggregator applies cart mutations. Every method returns a new Cart with
// aggregates recomputed from scratch and never touches its input.
type Aggregator struct {
	policy Policy
	newID  func() string
}

// NewAggregator binds the pricing policy used for every recomputation.
func NewAggregator(policy Policy) *Aggregator {
	return &Aggregator{policy: policy, newID: uuid.NewString}
}

// Policy returns the pricing policy in effect.
func (a *Aggregator) Policy() Policy {
	return a.policy
}

// MaxLineQuantity caps the quantity of a single line so merged adds can never
// overflow.
const MaxLineQuantity = 10000

func clampQuantity(qty int) int {
	if qty > MaxLineQuantity {
		return MaxLineQuantity
	}
	return qty
}

// AddToCart merges qty into the existing line for the book or appends a new
// line priced at the book's current price. A quantity below 1 counts as 1 and
// a merged line saturates at MaxLineQuantity.
func (a *Aggregator) AddToCart(c Cart, book Book, qty int) Cart {
	if qty < 1 {
		qty = 1
	}
	qty = clampQuantity(qty)
	items := c.cloneItems()
	if i := c.indexOf(book.ID); i >= 0 {
		held := clampQuantity(items[i].Quantity)
		if held > MaxLineQuantity-qty {
			items[i].Quantity = MaxLineQuantity
		} else {
			items[i].Quantity = held + qty
		}
	} else {
		items = append(items, LineItem{
			ID:       a.newID(),
			Book:     book,
			Quantity: qty,
			Price:    book.UnitPrice(),
		})
	}
	return Recalculate(items, a.policy)
}

// RemoveFromCart drops the line for bookID; absent ids are a no-op.
func (a *Aggregator) RemoveFromCart(c Cart, bookID string) Cart {
	items := make([]LineItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Book.ID != bookID {
			items = append(items, item)
		}
	}
	return Recalculate(items, a.policy)
}

// UpdateQuantity sets an absolute quantity, capped at MaxLineQuantity. Zero or
// below removes the line.
func (a *Aggregator) UpdateQuantity(c Cart, bookID string, qty int) Cart {
	if qty <= 0 {
		return a.RemoveFromCart(c, bookID)
	}
	items := c.cloneItems()
	if i := c.indexOf(bookID); i >= 0 {
		items[i].Quantity = clampQuantity(qty)
	}
	return Recalculate(items, a.policy)
}

// ClearCart returns the empty cart.
func (a *Aggregator) ClearCart() Cart {
	return Empty()
}

// Rehydrate trusts stored items but recomputes every aggregate.
func (a *Aggregator) Rehydrate(stored Cart) Cart {
	return Recalculate(stored.cloneItems(), a.policy)
}
