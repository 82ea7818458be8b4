package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// ReadJSON decodes the value stored at key into T. An absent key, a read
// failure, or malformed JSON all yield the zero value and ok=false; the
// repositories treat every one of those as an empty collection.
func ReadJSON[T any](ctx context.Context, s Store, key string) (T, bool) {
	var v T
	data, err := s.Get(ctx, key)
	if err != nil || data == nil {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}

// WriteJSON marshals v and stores it at key.
func WriteJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
