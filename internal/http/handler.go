package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/cafeteria-go/internal/favorite"
	"github.com/andreasstove999/cafeteria-go/internal/menu"
	"github.com/andreasstove999/cafeteria-go/internal/middleware"
	"github.com/andreasstove999/cafeteria-go/internal/order"
)

const (
	serviceName     = "cafeteria-server"
	maxBodyBytes    = 1 << 20
	defaultLimit    = 5
	maxLimit        = 100
	requestDeadline = 5 * time.Second
)

// OrderService is the order workflow the handlers drive.
type OrderService interface {
	Place(ctx context.Context, req order.PlaceRequest) (order.Order, error)
	Get(ctx context.Context, id int64) (order.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]order.Order, error)
	ListAll(ctx context.Context) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id int64, status order.Status) (order.Order, error)
	TopSelling(ctx context.Context, limit int) ([]order.TopSeller, error)
}

type TokenService interface {
	Issue(subject string) (string, time.Time, error)
	Verify(token string) (string, error)
}

type KeyVerifier interface {
	Check(candidate string) bool
}

type Deps struct {
	Logger      zerolog.Logger
	Items       menu.Repository
	Orders      OrderService
	Favorites   favorite.Repository
	Tokens      TokenService
	AdminKey    KeyVerifier
	CORSOrigins []string

	// Optional.
	LoginLimiter *middleware.RateLimiter
	Ping         func(ctx context.Context) error
}

type Handler struct {
	log          zerolog.Logger
	items        menu.Repository
	orders       OrderService
	favorites    favorite.Repository
	tokens       TokenService
	adminKey     KeyVerifier
	corsOrigins  []string
	loginLimiter *middleware.RateLimiter
	ping         func(ctx context.Context) error
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		log:          d.Logger,
		items:        d.Items,
		orders:       d.Orders,
		favorites:    d.Favorites,
		tokens:       d.Tokens,
		adminKey:     d.AdminKey,
		corsOrigins:  d.CORSOrigins,
		loginLimiter: d.LoginLimiter,
		ping:         d.Ping,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.log.Warn().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "degraded",
				"service": serviceName,
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
	})
}

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestDeadline)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeFailure maps domain errors onto status codes. Anything unrecognised
// is logged and reported as a 500 without leaking the cause.
func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var (
		menuErr  *menu.ValidationError
		orderErr *order.ValidationError
	)
	switch {
	case errors.As(err, &menuErr):
		writeError(w, http.StatusBadRequest, menuErr.Msg)
	case errors.As(err, &orderErr):
		writeError(w, http.StatusBadRequest, orderErr.Msg)
	case errors.Is(err, menu.ErrNotFound), errors.Is(err, favorite.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "Item not found")
	case errors.Is(err, favorite.ErrNotFound):
		writeError(w, http.StatusNotFound, "Favorite not found")
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "Request timed out")
	default:
		h.log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("correlation_id", middleware.GetCorrelationID(r.Context())).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid JSON body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

func queryLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return defaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d", maxLimit)
	}
	return n, nil
}

func queryBool(r *http.Request, name string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s", name)
	}
	return &v, nil
}

func customerID(r *http.Request) string {
	if id := strings.TrimSpace(r.URL.Query().Get("customer_id")); id != "" {
		return id
	}
	return order.DefaultCustomerID
}
