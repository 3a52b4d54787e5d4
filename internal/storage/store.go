// Package storage implements the origin-scoped key-value store backing the
// FakEye caches. Each namespace holds a single JSON-encoded record list.
//
// Consistency across contexts is last-writer-wins: concurrent writes to the
// same namespace are not merged, the most recent write fully replaces prior
// state. Callers that need to avoid losing updates re-read the current
// persisted value immediately before writing.
package storage

import (
	"context"
	"encoding/json"
)

// Well-known namespaces.
const (
	NamespaceHistory   = "ai-detector-history"
	NamespaceUsers     = "ai-detector-users"
	NamespaceCommunity = "ai-detector-community"
	NamespaceSession   = "ai-detector-user"

	// NamespaceExtensionScans lives in the producer's own storage area,
	// never in the host store.
	NamespaceExtensionScans = "phishingScanHistory"
)

// Store is a durable namespace -> blob store.
type Store interface {
	// Read returns the stored blob, or nil if the namespace is absent.
	Read(ctx context.Context, namespace string) ([]byte, error)

	// Write replaces the namespace's blob.
	Write(ctx context.Context, namespace string, value []byte) error

	// Delete removes the namespace. Removing an absent namespace is a no-op.
	Delete(ctx context.Context, namespace string) error

	// Watch returns a channel that receives a signal whenever the namespace
	// changes, and a cancel function releasing the subscription. Signals are
	// coalesced wake-ups: no payload is authoritative, receivers re-read the
	// current persisted state.
	Watch(namespace string) (<-chan struct{}, func())

	Close() error
}

// LoadRecords reads a namespace and decodes its record list. A missing
// namespace or a payload that fails to decode yields an empty slice; decode
// problems are never surfaced to callers. Only storage I/O errors are
// returned.
func LoadRecords[T any](ctx context.Context, s Store, namespace string) ([]T, error) {
	data, err := s.Read(ctx, namespace)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []T{}, nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return []T{}, nil
	}
	return records, nil
}

// SaveRecords serializes the record list and replaces the namespace's blob.
func SaveRecords[T any](ctx context.Context, s Store, namespace string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.Write(ctx, namespace, data)
}
