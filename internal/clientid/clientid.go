// Package clientid manages the opaque identifier that correlates this client
// with backend-side conversation state.
package clientid

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/synapse-ai/synapse-chat/internal/storage"
)

// StorageKey is the local storage key holding the identifier.
const StorageKey = "user_id"

const randomLength = 9

// Generate builds a new identifier: a random alphanumeric token followed by
// the millisecond timestamp.
func Generate(now time.Time) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate client identifier: %w", err)
	}

	token := strings.ReplaceAll(id.String(), "-", "")[:randomLength]
	return token + strconv.FormatInt(now.UnixMilli(), 10), nil
}

// Resolve returns the stored identifier, creating and persisting one when the
// store has none. An existing non-empty value is never replaced.
//
// When the store cannot be read, a new identifier is generated and written
// over it, so a damaged store heals on the next launch. The read error is
// returned with the identifier. When the new identifier cannot be persisted
// it is still returned together with the error, so the caller can use it for
// the current session.
func Resolve(store storage.Storage, now time.Time) (string, error) {
	existing, ok, readErr := store.GetItem(StorageKey)
	if readErr == nil && ok && existing != "" {
		return existing, nil
	}

	id, err := Generate(now)
	if err != nil {
		return "", err
	}

	if err := store.SetItem(StorageKey, id); err != nil {
		return id, fmt.Errorf("failed to persist client identifier: %w", err)
	}

	if readErr != nil {
		return id, fmt.Errorf("failed to read client identifier, replaced it: %w", readErr)
	}
	return id, nil
}
