package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/andreasstove999/cafeteria-go/internal/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.RequestLogger(h.log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(h.corsOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/items", h.ListItems)
		r.Get("/items/{id}", h.GetItem)
		r.Post("/items/{id}/rating", h.RateItem)
		r.Get("/categories", h.Categories)
		r.Get("/search", h.Search)
		r.Get("/daily-specials", h.DailySpecials)

		r.Get("/orders", h.ListCustomerOrders)
		r.Get("/orders/{id}", h.GetOrder)
		r.Post("/orders", h.PlaceOrder)

		r.Get("/analytics/top-selling", h.TopSelling)
		r.Get("/analytics/top-rated", h.TopRated)

		r.Get("/favorites", h.ListFavorites)
		r.Post("/favorites/{itemID}", h.AddFavorite)
		r.Delete("/favorites/{itemID}", h.RemoveFavorite)

		login := http.HandlerFunc(h.Login)
		if h.loginLimiter != nil {
			r.Method(http.MethodPost, "/admin/login", h.loginLimiter.Middleware(login))
		} else {
			r.Method(http.MethodPost, "/admin/login", login)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireBearer(h.tokens))

			r.Post("/items", h.CreateItem)
			r.Put("/items/{id}", h.UpdateItem)
			r.Delete("/items/{id}", h.DeleteItem)

			r.Get("/admin/orders", h.ListAllOrders)
			r.Put("/admin/orders/{id}/status", h.UpdateOrderStatus)
		})
	})

	return r
}
