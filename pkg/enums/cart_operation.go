package enums

// CartOperation labels cart and buy-now mutations for metrics and logs.
type CartOperation string

const (
	CartOperationAdd            CartOperation = "add"
	CartOperationRemove         CartOperation = "remove"
	CartOperationUpdateQuantity CartOperation = "update_quantity"
	CartOperationClear          CartOperation = "clear"
	CartOperationSetBuyNow      CartOperation = "set_buy_now"
	CartOperationClearBuyNow    CartOperation = "clear_buy_now"
)

// String implements fmt.Stringer.
func (c CartOperation) String() string {
	return string(c)
}
