package cart

import cartsvc "github.com/angelmondragon/bookstore-backend/internal/cart"

type addItemRequest struct {
	Book     cartsvc.Book `json:"book"`
	Quantity int          `json:"quantity" validate:"gte=0,lte=10000"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,lte=10000"`
}

type buyNowRequest struct {
	Book     cartsvc.Book `json:"book"`
	Quantity int          `json:"quantity" validate:"gte=0,lte=10000"`
}
