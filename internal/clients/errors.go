package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is any non-2xx response. Detail is the server's "detail" field, or
// "HTTP <code>" when the body carries none.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string { return e.Detail }

func newAPIError(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return &APIError{Status: resp.StatusCode, Detail: detailFrom(raw, resp.StatusCode)}
}

func detailFrom(raw []byte, status int) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Detail) > 0 {
		var s string
		if json.Unmarshal(body.Detail, &s) == nil && strings.TrimSpace(s) != "" {
			return s
		}
		// Field validation errors arrive as a list of {msg}.
		var list []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(body.Detail, &list) == nil && len(list) > 0 && list[0].Msg != "" {
			return list[0].Msg
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
