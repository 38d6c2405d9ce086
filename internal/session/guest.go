package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const CustomerIDKey = "cafeteria_customer_id"

// KV is the client's persistent key/value store.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// GuestID returns the stored guest customer id, creating and saving a new
// "guest-<uuid>" on first use.
func GuestID(ctx context.Context, kv KV) (string, error) {
	id, ok, err := kv.Get(ctx, CustomerIDKey)
	if err != nil {
		return "", fmt.Errorf("load customer id: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}
	id = "guest-" + uuid.NewString()
	if err := kv.Set(ctx, CustomerIDKey, id); err != nil {
		return "", fmt.Errorf("save customer id: %w", err)
	}
	return id, nil
}
