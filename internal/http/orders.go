package httpapi

import (
	"errors"
	"net/http"

	"github.com/andreasstove999/cafeteria-go/internal/order"
)

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req order.PlaceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.CustomerID == "" {
		req.CustomerID = order.DefaultCustomerID
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	o, err := h.orders.Place(ctx, req)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	o, err := h.orders.Get(ctx, id)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	orders, err := h.orders.ListByCustomer(ctx, customerID(r))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	orders, err := h.orders.ListAll(ctx)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order or status")
		return
	}
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	status, ok := order.ParseStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid order or status")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	o, err := h.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) || errors.Is(err, order.ErrInvalidStatus) {
			writeError(w, http.StatusBadRequest, "Invalid order or status")
			return
		}
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) TopSelling(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	top, err := h.orders.TopSelling(ctx, limit)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}
