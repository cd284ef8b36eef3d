package cart

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bookstore-backend/api/middleware"
	"github.com/angelmondragon/bookstore-backend/api/responses"
	"github.com/angelmondragon/bookstore-backend/api/validators"
	cartsvc "github.com/angelmondragon/bookstore-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/bookstore-backend/pkg/errors"
	"github.com/angelmondragon/bookstore-backend/pkg/logger"
)

// CartFetch returns the session's cart.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		current, err := svc.Get(r.Context(), middleware.CartSessionFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

// CartAddItem adds a book to the cart, merging with an existing line. The
// resulting quantity must fit the book's advertised inventory.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := middleware.CartSessionFromContext(r.Context())
		requested := payload.Quantity
		if requested < 1 {
			requested = 1
		}
		held, err := svc.Quantity(r.Context(), session, payload.Book.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !payload.Book.HasStockFor(held + requested) {
			responses.WriteError(r.Context(), logg, w, outOfStock(payload.Book, held+requested))
			return
		}

		updated, err := svc.Add(r.Context(), session, payload.Book, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, updated)
	}
}

// CartItemStatus reports whether a book is in the cart and how many.
func CartItemStatus(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		bookID, err := bookIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		qty, err := svc.Quantity(r.Context(), middleware.CartSessionFromContext(r.Context()), bookID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, itemStatusResponse{BookID: bookID, InCart: qty > 0, Quantity: qty})
	}
}

// CartUpdateQuantity sets an absolute quantity; zero removes the line.
func CartUpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		bookID, err := bookIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := middleware.CartSessionFromContext(r.Context())
		current, err := svc.Get(r.Context(), session)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !current.IsInCart(bookID) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "book is not in the cart"))
			return
		}
		for _, item := range current.Items {
			if item.Book.ID == bookID && *payload.Quantity > 0 && !item.Book.HasStockFor(*payload.Quantity) {
				responses.WriteError(r.Context(), logg, w, outOfStock(item.Book, *payload.Quantity))
				return
			}
		}

		updated, err := svc.UpdateQuantity(r.Context(), session, bookID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// CartRemoveItem drops a book from the cart. Unknown books are a no-op.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		bookID, err := bookIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.Remove(r.Context(), middleware.CartSessionFromContext(r.Context()), bookID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// CartClear empties the cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		updated, err := svc.Clear(r.Context(), middleware.CartSessionFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func bookIDParam(r *http.Request) (string, error) {
	bookID := strings.TrimSpace(chi.URLParam(r, "bookId"))
	if bookID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "book id is required")
	}
	return bookID, nil
}

func outOfStock(book cartsvc.Book, requested int) error {
	details := map[string]any{"bookId": book.ID, "requested": requested}
	if book.InventoryQuantity != nil {
		details["available"] = *book.InventoryQuantity
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "not enough stock").WithDetails(details)
}
