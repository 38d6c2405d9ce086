package httpapi

import (
	"net/http"
	"strings"

	"github.com/andreasstove999/cafeteria-go/internal/menu"
)

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	var (
		q   menu.Query
		err error
	)
	if q.Available, err = queryBool(r, "available"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for name, dst := range map[string]*bool{
		"vegetarian":    &q.Vegetarian,
		"vegan":         &q.Vegan,
		"gluten_free":   &q.GlutenFree,
		"daily_special": &q.DailySpecial,
	} {
		v, err := queryBool(r, name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		*dst = v != nil && *v
	}
	if c := strings.TrimSpace(r.URL.Query().Get("category")); c != "" && c != menu.CategoryAll {
		q.Category = c
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	items, err := h.items.List(ctx, q)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	it, err := h.items.Get(ctx, id)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var in menu.Input
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	it, err := h.items.Create(ctx, in)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.log.Info().Int64("item_id", it.ID).Str("name", it.Name).Msg("item created")
	writeJSON(w, http.StatusCreated, it)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var p menu.Patch
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	it, err := h.items.Update(ctx, id, p)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.log.Info().Int64("item_id", it.ID).Int("quantity", it.Quantity).Bool("available", it.Available).Msg("item updated")
	writeJSON(w, http.StatusOK, it)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.items.Delete(ctx, id); err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.log.Info().Int64("item_id", id).Msg("item deleted")
	w.WriteHeader(http.StatusNoContent)
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

func (h *Handler) RateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req ratingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	it, err := h.items.Rate(ctx, id, req.Rating)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	cats, err := h.items.Categories(ctx)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.URL.Query().Get("q"))
	if text == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == menu.CategoryAll {
		category = ""
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	items, err := h.items.Search(ctx, text, category)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) DailySpecials(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	items, err := h.items.DailySpecials(ctx)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) TopRated(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	items, err := h.items.TopRated(ctx, limit)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
