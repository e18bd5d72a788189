package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-grocer/internal/common"
	"github.com/noah-isme/backend-grocer/internal/coupon"
)

// Handler wires cart operations to HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       int64  `json:"qty" validate:"required,gt=0"`
}

type addBulkItemRequest struct {
	ProductID  string  `json:"productId" validate:"required"`
	Qty        float64 `json:"qty" validate:"required,gt=0"`
	Unit       string  `json:"unit" validate:"required,oneof=kg pc"`
	TotalPrice int64   `json:"totalPrice" validate:"gte=0"`
	Notes      string  `json:"notes" validate:"max=280"`
}

type setQtyRequest struct {
	Qty int64 `json:"qty" validate:"required,gt=0"`
}

// adjustQtyRequest accepts either an absolute quantity or a signed delta.
type adjustQtyRequest struct {
	Qty   *int64 `json:"qty" validate:"omitempty,gt=0"`
	Delta *int64 `json:"delta"`
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required,min=1,max=64"`
}

type setPointsRequest struct {
	Points int64 `json:"points" validate:"gte=0"`
}

func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return ErrInvalidInput
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(dst); err != nil {
			return ErrInvalidInput
		}
	}
	return nil
}

// Current resolves or creates the caller's active cart.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserID(r.Context())
	anonID, _ := common.AnonID(r.Context())
	view, err := h.Svc.EnsureCart(r.Context(), userID, anonID)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// Get returns a cart with a fresh quote.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.Svc.Get(r.Context(), chi.URLParam(r, "cartId"))
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// AddItem inserts or increments a unit-counted line.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Svc.AddItem(r.Context(), chi.URLParam(r, "cartId"), req.ProductID, req.Qty)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// AddBulkItem appends a weight or piece-selected line.
func (h *Handler) AddBulkItem(w http.ResponseWriter, r *http.Request) {
	var req addBulkItemRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Svc.AddBulkItem(r.Context(), chi.URLParam(r, "cartId"), BulkInput{
		ProductID:  req.ProductID,
		Qty:        req.Qty,
		Unit:       Unit(req.Unit),
		TotalPrice: req.TotalPrice,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// SetQty sets the absolute quantity of a line.
func (h *Handler) SetQty(w http.ResponseWriter, r *http.Request) {
	var req setQtyRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Svc.SetQty(r.Context(), chi.URLParam(r, "cartId"), chi.URLParam(r, "entryId"), req.Qty)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// AdjustQty updates a line's quantity, either absolutely or by a signed delta.
func (h *Handler) AdjustQty(w http.ResponseWriter, r *http.Request) {
	var req adjustQtyRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	cartID := chi.URLParam(r, "cartId")
	entryID := chi.URLParam(r, "entryId")
	var (
		view View
		err  error
	)
	switch {
	case req.Qty != nil:
		view, err = h.Svc.SetQty(r.Context(), cartID, entryID, *req.Qty)
	case req.Delta != nil:
		view, err = h.Svc.AdjustQty(r.Context(), cartID, entryID, *req.Delta)
	default:
		writeError(w, ErrInvalidInput)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// RemoveEntry deletes a line from the cart.
func (h *Handler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	view, err := h.Svc.RemoveEntry(r.Context(), chi.URLParam(r, "cartId"), chi.URLParam(r, "entryId"))
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// ApplyCoupon attaches a code coupon to the cart.
func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req applyCouponRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Svc.ApplyCoupon(r.Context(), chi.URLParam(r, "cartId"), req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// ClearCoupon removes the applied code coupon.
func (h *Handler) ClearCoupon(w http.ResponseWriter, r *http.Request) {
	view, err := h.Svc.ClearCoupon(r.Context(), chi.URLParam(r, "cartId"))
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// SetPoints stores the point slider selection.
func (h *Handler) SetPoints(w http.ResponseWriter, r *http.Request) {
	var req setPointsRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Svc.SetPoints(r.Context(), chi.URLParam(r, "cartId"), req.Points)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

func writeError(w http.ResponseWriter, err error) {
	app := appError(err)
	common.JSONError(w, app.HTTPStatus, app.Code, app.Message, app.Details)
}

// appError translates domain sentinels into the canonical AppError shape.
func appError(err error) *common.AppError {
	var app *common.AppError
	if errors.As(err, &app) {
		return app
	}
	switch {
	case errors.Is(err, coupon.ErrNotFound):
		return common.NewAppError("COUPON_NOT_FOUND", "coupon not found", http.StatusNotFound, err)
	case errors.Is(err, ErrInvalidInput):
		return common.NewAppError("INVALID_INPUT", err.Error(), http.StatusBadRequest, err)
	case errors.Is(err, ErrNotFound):
		return common.NewAppError("NOT_FOUND", "cart not found", http.StatusNotFound, err)
	default:
		return common.NewAppError("INTERNAL", "something went wrong", http.StatusInternalServerError, err)
	}
}
