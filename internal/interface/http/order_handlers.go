package http

import (
	"net/http"

	domorder "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/order"
)

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())

	orders, err := a.orderSvc.ListByUser(r.Context(), user.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		out = append(out, mapOrder(o))
	}
	writeJSON(w, http.StatusOK, out)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PLACED PAID PROCESSING SHIPPED DELIVERED CANCELLED REFUNDED"`
	Note   string `json:"note"`
}

func (a *API) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, domorder.ErrOrderNotFound)
		return
	}

	var req updateStatusRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.orderSvc.UpdateStatus(r.Context(), id, domorder.Status(req.Status), req.Note, user.Email)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, domorder.ErrOrderNotFound)
		return
	}

	o, err := a.orderSvc.GetForUser(r.Context(), user.UserID, id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}
