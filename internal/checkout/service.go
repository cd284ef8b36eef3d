package checkout

import (
	"context"
	"fmt"

	"github.com/angelmondragon/bookstore-backend/internal/cart"
	"github.com/angelmondragon/bookstore-backend/internal/checkout/helpers"
	"github.com/angelmondragon/bookstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookstore-backend/pkg/errors"
	"github.com/angelmondragon/bookstore-backend/pkg/logger"
)

// Preview is what the checkout page renders before the order is placed.
type Preview struct {
	Source enums.CheckoutSource  `json:"source"`
	Cart   cart.Cart             `json:"cart"`
	Groups []helpers.StoreTotals `json:"groups"`
}

// Service prepares and finalizes checkout for a cart session.
type Service interface {
	Preview(ctx context.Context, sessionID string, source enums.CheckoutSource) (*Preview, error)
	Complete(ctx context.Context, sessionID string, source enums.CheckoutSource) error
}

type service struct {
	carts  cart.Service
	policy cart.Policy
	logg   *logger.Logger
}

// NewService builds the checkout service on top of the cart service.
func NewService(carts cart.Service, policy cart.Policy, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{carts: carts, policy: policy, logg: logg}, nil
}

func (s *service) Preview(ctx context.Context, sessionID string, source enums.CheckoutSource) (*Preview, error) {
	switch source {
	case enums.CheckoutSourceCart:
		current, err := s.carts.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if current.IsEmpty() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return &Preview{
			Source: source,
			Cart:   current,
			Groups: helpers.ComputeTotalsByStore(current.Items, s.policy),
		}, nil
	case enums.CheckoutSourceBuyNow:
		item, err := s.carts.GetBuyNow(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no buy now item")
		}
		view := item.CheckoutView()
		return &Preview{
			Source: source,
			Cart:   view,
			Groups: []helpers.StoreTotals{{StoreID: item.Book.StoreID, Cart: view}},
		}, nil
	default:
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid checkout source %q", source)
	}
}

// Complete clears the state that fed the order once the platform has accepted it.
func (s *service) Complete(ctx context.Context, sessionID string, source enums.CheckoutSource) error {
	var err error
	switch source {
	case enums.CheckoutSourceCart:
		_, err = s.carts.Clear(ctx, sessionID)
	case enums.CheckoutSourceBuyNow:
		err = s.carts.ClearBuyNow(ctx, sessionID)
	default:
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid checkout source %q", source)
	}
	if err != nil {
		return err
	}
	ctx = s.logg.WithCartSession(ctx, sessionID)
	s.logg.Info(s.logg.WithField(ctx, "checkout_source", source), "checkout completed")
	return nil
}
