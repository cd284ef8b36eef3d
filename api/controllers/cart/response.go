package cart

import cartsvc "github.com/angelmondragon/bookstore-backend/internal/cart"

type itemStatusResponse struct {
	BookID   string `json:"bookId"`
	InCart   bool   `json:"inCart"`
	Quantity int    `json:"quantity"`
}

type buyNowResponse struct {
	Item     *cartsvc.BuyNowItem `json:"item"`
	Checkout *cartsvc.Cart       `json:"checkout,omitempty"`
}

func newBuyNowResponse(item *cartsvc.BuyNowItem) buyNowResponse {
	if item == nil {
		return buyNowResponse{}
	}
	view := item.CheckoutView()
	return buyNowResponse{Item: item, Checkout: &view}
}
