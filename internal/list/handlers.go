package list

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-grocer/internal/cart"
	"github.com/noah-isme/backend-grocer/internal/common"
)

// Handler wires saved-list operations to HTTP. Applying a list back to the
// active cart goes through the cart service so the quote pipeline reruns.
type Handler struct {
	Svc      *Service
	Carts    *cart.Service
	Validate *validator.Validate
}

type saveListRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
	// CartID snapshots a specific cart; the caller's active cart otherwise.
	CartID string `json:"cartId" validate:"omitempty,uuid4"`
}

type applyListRequest struct {
	Mode string `json:"mode" validate:"omitempty,oneof=replace merge"`
}

func owner(r *http.Request) (string, bool) {
	if userID, ok := common.UserID(r.Context()); ok {
		return userID, true
	}
	if anonID, ok := common.AnonID(r.Context()); ok {
		return anonID, true
	}
	return "", false
}

// List returns the caller's saved lists.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	own, ok := owner(r)
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "identity required", nil)
		return
	}
	lists, err := h.Svc.List(r.Context(), own)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, lists)
}

// Save snapshots the caller's active cart under a name.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	own, ok := owner(r)
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "identity required", nil)
		return
	}
	var req saveListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(&req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "INVALID_INPUT", "name is required", nil)
			return
		}
	}
	var (
		view cart.View
		err  error
	)
	if req.CartID != "" {
		view, err = h.Carts.Get(r.Context(), req.CartID)
	} else {
		userID, _ := common.UserID(r.Context())
		anonID, _ := common.AnonID(r.Context())
		view, err = h.Carts.EnsureCart(r.Context(), userID, anonID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	saved, err := h.Svc.Save(r.Context(), own, req.Name, view.Cart)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, saved)
}

// Get returns one saved list.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	own, ok := owner(r)
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "identity required", nil)
		return
	}
	l, err := h.Svc.Load(r.Context(), own, chi.URLParam(r, "listId"))
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, l)
}

// Apply loads a saved list into the caller's active cart. Mode "replace"
// (default) swaps the contents; "merge" folds the snapshot in.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	own, ok := owner(r)
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "identity required", nil)
		return
	}
	var req applyListRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body", nil)
			return
		}
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(&req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "INVALID_INPUT", "mode must be replace or merge", nil)
			return
		}
	}
	l, err := h.Svc.Load(r.Context(), own, chi.URLParam(r, "listId"))
	if err != nil {
		writeError(w, err)
		return
	}
	userID, _ := common.UserID(r.Context())
	anonID, _ := common.AnonID(r.Context())
	view, err := h.Carts.EnsureCart(r.Context(), userID, anonID)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Mode == "merge" {
		view, err = h.Carts.MergeEntries(r.Context(), view.Cart.ID, l.Entries)
	} else {
		view, err = h.Carts.ReplaceEntries(r.Context(), view.Cart.ID, l.Entries)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	countListOp("apply", "ok")
	common.JSONData(w, http.StatusOK, view)
}

// Delete removes a saved list. Absent lists delete cleanly.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	own, ok := owner(r)
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "identity required", nil)
		return
	}
	if err := h.Svc.Delete(r.Context(), own, chi.URLParam(r, "listId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
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
	case errors.Is(err, ErrEmptyName):
		return common.NewAppError("EMPTY_NAME", "list name required", http.StatusBadRequest, err)
	case errors.Is(err, ErrEmptyCart):
		return common.NewAppError("EMPTY_CART", "cannot save an empty cart", http.StatusBadRequest, err)
	case errors.Is(err, ErrNotFound):
		return common.NewAppError("NOT_FOUND", "list not found", http.StatusNotFound, err)
	case errors.Is(err, cart.ErrInvalidInput):
		return common.NewAppError("INVALID_INPUT", err.Error(), http.StatusBadRequest, err)
	case errors.Is(err, cart.ErrNotFound):
		return common.NewAppError("NOT_FOUND", "cart not found", http.StatusNotFound, err)
	default:
		return common.NewAppError("INTERNAL", "something went wrong", http.StatusInternalServerError, err)
	}
}
