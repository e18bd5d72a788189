package profile

import (
	"net/http"

	"github.com/noah-isme/backend-grocer/internal/common"
	"github.com/noah-isme/backend-grocer/internal/coupon"
)

// Handler exposes the read-only profile surface.
type Handler struct {
	Svc *Service
}

// Me returns the wallet balance and grouped coupon chips for the caller.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "profile service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	wallet, err := h.Svc.Wallet(r.Context(), userID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load wallet", nil)
		return
	}
	coupons, err := h.Svc.Coupons(r.Context(), userID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load coupons", nil)
		return
	}
	common.JSONData(w, http.StatusOK, map[string]any{
		"userId":  userID,
		"wallet":  wallet,
		"coupons": coupon.GroupAll(coupons),
	})
}

// Coupons returns the grouped coupon chips for the caller.
func (h *Handler) Coupons(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "profile service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	coupons, err := h.Svc.Coupons(r.Context(), userID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load coupons", nil)
		return
	}
	common.JSONData(w, http.StatusOK, coupon.GroupAll(coupons))
}
