package store

import (
	"context"
	"encoding/json"
)

// Collection names a keyed record collection.
type Collection string

const (
	Users          Collection = "users"
	Products       Collection = "products"
	StockMovements Collection = "stock-movements"
	Sales          Collection = "sales"
	Payments       Collection = "payments"
	SyncEvents     Collection = "sync-events"
	AuditLogs      Collection = "audit-logs"
	Customers      Collection = "customers"
	AccountEntries Collection = "account-entries"
	Cashbook       Collection = "cashbook"
)

// All lists every collection the engine touches, in migration/seed order.
func All() []Collection {
	return []Collection{
		Users, Products, StockMovements, Sales, Payments,
		SyncEvents, AuditLogs, Customers, AccountEntries, Cashbook,
	}
}

// RecordStore is the persistence contract of the engine: whole-collection
// read and whole-collection replace, keyed by collection name. Record order
// is preserved.
//
// WriteAll replaces several collections in one call. Backends that support
// transactions commit the batch atomically; the engine relies on this for
// the finalization flush.
type RecordStore interface {
	Read(ctx context.Context, c Collection) ([]json.RawMessage, error)
	Write(ctx context.Context, c Collection, records []json.RawMessage) error
	WriteAll(ctx context.Context, batch map[Collection][]json.RawMessage) error
}

// Load reads a collection and decodes every record into T.
func Load[T any](ctx context.Context, rs RecordStore, c Collection) ([]T, error) {
	raw, err := rs.Read(ctx, c)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Save encodes records and replaces the collection.
func Save[T any](ctx context.Context, rs RecordStore, c Collection, records []T) error {
	raw, err := encode(records)
	if err != nil {
		return err
	}
	return rs.Write(ctx, c, raw)
}

// Batch buffers whole-collection replacements in memory so that a
// multi-collection mutation can be validated completely before anything is
// persisted. Flush hands the buffered writes to the store in one call.
type Batch struct {
	pending map[Collection][]json.RawMessage
}

// NewBatch returns an empty write buffer.
func NewBatch() *Batch {
	return &Batch{pending: make(map[Collection][]json.RawMessage)}
}

// Put stages the full replacement contents of a collection.
func Put[T any](b *Batch, c Collection, records []T) error {
	raw, err := encode(records)
	if err != nil {
		return err
	}
	b.pending[c] = raw
	return nil
}

// Flush writes every staged collection through the store's WriteAll.
func (b *Batch) Flush(ctx context.Context, rs RecordStore) error {
	if len(b.pending) == 0 {
		return nil
	}
	return rs.WriteAll(ctx, b.pending)
}

func encode[T any](records []T) ([]json.RawMessage, error) {
	raw := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		blob, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		raw = append(raw, blob)
	}
	return raw, nil
}
