package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	data       map[Collection][]json.RawMessage
	writeCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[Collection][]json.RawMessage)}
}

func (f *fakeStore) Read(_ context.Context, c Collection) ([]json.RawMessage, error) {
	return f.data[c], nil
}

func (f *fakeStore) Write(_ context.Context, c Collection, records []json.RawMessage) error {
	f.writeCalls++
	f.data[c] = records
	return nil
}

func (f *fakeStore) WriteAll(_ context.Context, batch map[Collection][]json.RawMessage) error {
	f.writeCalls++
	for c, records := range batch {
		f.data[c] = records
	}
	return nil
}

type testRecord struct {
	Name string `json:"name"`
}

func TestLoadSave(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()

	require.NoError(t, Save(ctx, fs, Customers, []testRecord{{Name: "a"}, {Name: "b"}}))

	got, err := Load[testRecord](ctx, fs, Customers)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
}

func TestLoad_EmptyCollection(t *testing.T) {
	got, err := Load[testRecord](context.Background(), newFakeStore(), Sales)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBatch_SingleFlush(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()

	b := NewBatch()
	require.NoError(t, Put(b, Sales, []testRecord{{Name: "s"}}))
	require.NoError(t, Put(b, Products, []testRecord{{Name: "p"}}))

	// Nothing persisted until the flush.
	assert.Zero(t, fs.writeCalls)

	require.NoError(t, b.Flush(ctx, fs))
	assert.Equal(t, 1, fs.writeCalls)

	sales, _ := Load[testRecord](ctx, fs, Sales)
	products, _ := Load[testRecord](ctx, fs, Products)
	assert.Len(t, sales, 1)
	assert.Len(t, products, 1)
}

func TestBatch_EmptyFlushIsNoop(t *testing.T) {
	fs := newFakeStore()
	require.NoError(t, NewBatch().Flush(context.Background(), fs))
	assert.Zero(t, fs.writeCalls)
}
