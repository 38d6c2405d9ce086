package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

type ctxKey string

const (
	ctxCorrelationID ctxKey = "correlation_id"
	ctxSubject       ctxKey = "subject"
)

// writeDetail writes the API error shape used by every handler.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func GetSubject(ctx context.Context) string {
	if s, ok := ctx.Value(ctxSubject).(string); ok {
		return s
	}
	return ""
}
