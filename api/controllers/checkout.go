package controllers

import (
	"errors"
	"net/http"

	"github.com/angelmondragon/bookstore-backend/api/middleware"
	"github.com/angelmondragon/bookstore-backend/api/responses"
	"github.com/angelmondragon/bookstore-backend/api/validators"
	checkoutsvc "github.com/angelmondragon/bookstore-backend/internal/checkout"
	"github.com/angelmondragon/bookstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookstore-backend/pkg/errors"
	"github.com/angelmondragon/bookstore-backend/pkg/logger"
)

type checkoutRequest struct {
	Source string `json:"source" validate:"omitempty,oneof=cart buy_now"`
}

func (c checkoutRequest) source() enums.CheckoutSource {
	if c.Source == "" {
		return enums.CheckoutSourceCart
	}
	return enums.CheckoutSource(c.Source)
}

// CheckoutPreview prices the cart or buy-now slot, split per store.
func CheckoutPreview(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		payload, err := decodeCheckoutRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		preview, err := svc.Preview(r.Context(), middleware.CartSessionFromContext(r.Context()), payload.source())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, preview)
	}
}

// CheckoutComplete clears the checked-out source after the platform accepted the order.
func CheckoutComplete(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		payload, err := decodeCheckoutRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		source := payload.source()
		if err := svc.Complete(r.Context(), middleware.CartSessionFromContext(r.Context()), source); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"source": source, "status": "completed"})
	}
}

// An empty body checks out the cart.
func decodeCheckoutRequest(r *http.Request) (checkoutRequest, error) {
	var payload checkoutRequest
	err := validators.DecodeJSONBody(r, &payload)
	if errors.Is(err, validators.ErrEmptyBody) {
		return checkoutRequest{}, nil
	}
	return payload, err
}
