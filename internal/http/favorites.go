package httpapi

import (
	"net/http"
	"strings"

	"github.com/andreasstove999/cafeteria-go/internal/menu"
)

// favoriteCustomer reads the required customer_id query parameter.
func favoriteCustomer(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.URL.Query().Get("customer_id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "customer_id is required")
		return "", false
	}
	return id, true
}

// ListFavorites returns the customer's favorite items in menu order.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	cid, ok := favoriteCustomer(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	ids, err := h.favorites.List(ctx, cid)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	out := []menu.Item{}
	if len(ids) > 0 {
		items, err := h.items.List(ctx, menu.Query{})
		if err != nil {
			h.writeFailure(w, r, err)
			return
		}
		fav := make(map[int64]bool, len(ids))
		for _, id := range ids {
			fav[id] = true
		}
		for _, it := range items {
			if fav[it.ID] {
				out = append(out, it)
			}
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type favoriteResponse struct {
	Message string `json:"message"`
	ItemID  int64  `json:"item_id"`
}

func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cid, ok := favoriteCustomer(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.favorites.Add(ctx, cid, itemID); err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteResponse{Message: "Added to favorites", ItemID: itemID})
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cid, ok := favoriteCustomer(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.favorites.Remove(ctx, cid, itemID); err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteResponse{Message: "Removed from favorites", ItemID: itemID})
}
