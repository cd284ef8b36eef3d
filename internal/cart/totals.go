package cart

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bookstore-backend/pkg/config"
	"github.com/angelmondragon/bookstore-backend/pkg/money"
)

// Policy holds the configurable parts of the totals calculation. The zero
// value charges no tax and no shipping.
type Policy struct {
	TaxRate      decimal.Decimal
	FlatShipping decimal.Decimal
	// FreeShippingThreshold waives FlatShipping once the subtotal reaches it.
	// Zero disables the waiver.
	FreeShippingThreshold decimal.Decimal
}

// NewPolicy builds the pricing policy from configuration.
func NewPolicy(cfg config.CartConfig) Policy {
	return Policy{
		TaxRate:               decimal.NewFromFloat(cfg.TaxRate),
		FlatShipping:          money.FromFloat(cfg.FlatShipping),
		FreeShippingThreshold: money.FromFloat(cfg.FreeShippingThreshold),
	}
}

func (p Policy) shippingFor(subtotal decimal.Decimal, hasItems bool) decimal.Decimal {
	if !hasItems {
		return decimal.Zero
	}
	if p.FreeShippingThreshold.IsPositive() && subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatShipping
}

// Recalculate derives every aggregate from items in a single pass. Line totals
// are recomputed from the stored unit price and lines with a non-positive
// quantity are dropped. The result depends only on items and policy.
func Recalculate(items []LineItem, policy Policy) Cart {
	out := Cart{Items: make([]LineItem, 0, len(items))}

	subtotal := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		item.Total = money.LineTotal(item.Price, item.Quantity)
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Total))
		out.ItemCount += item.Quantity
		out.Items = append(out.Items, item)
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(policy.TaxRate).Round(2)
	shipping := policy.shippingFor(subtotal, len(out.Items) > 0).Round(2)
	// No discount rules exist yet.
	discount := decimal.Zero

	out.Subtotal = money.ToFloat(subtotal)
	out.Tax = money.ToFloat(tax)
	out.Shipping = money.ToFloat(shipping)
	out.Discount = money.ToFloat(discount)
	out.Total = money.ToFloat(subtotal.Add(tax).Add(shipping).Sub(discount))
	return out
}
