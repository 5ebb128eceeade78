package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := New(afs.New(), nil)

	records := []map[string]any{
		{"id": "c-1", "name": "Ann"},
		{"id": "c-2", "name": "Bob"},
	}

	for _, url := range []string{
		"mem://localhost/source-test/customers.json",
		"mem://localhost/source-test/customers.yaml.zst",
		"mem://localhost/source-test/customers.msgpack.lz4",
	} {
		t.Run(url, func(t *testing.T) {
			digest, err := store.Save(ctx, url, "", records)
			require.NoError(t, err)
			assert.NotZero(t, digest)

			got, err := store.Load(ctx, url, "")
			require.NoError(t, err)
			assert.Equal(t, records, got)
		})
	}
}

func TestStore_LoadPair(t *testing.T) {
	ctx := context.Background()
	store := New(nil, nil)

	_, err := store.Save(ctx, "mem://localhost/pair-test/orders.json", "", []map[string]any{{"id": "o-1"}})
	require.NoError(t, err)
	_, err = store.Save(ctx, "mem://localhost/pair-test/customers.bin", "msgpack", []map[string]any{{"id": "c-1"}})
	require.NoError(t, err)

	pair, err := store.LoadPair(ctx,
		"mem://localhost/pair-test/orders.json", "",
		"mem://localhost/pair-test/customers.bin", "msgpack")
	require.NoError(t, err)
	assert.Len(t, pair.Primary, 1)
	assert.Len(t, pair.Secondary, 1)

	_, err = store.LoadPair(ctx,
		"mem://localhost/pair-test/orders.json", "",
		"mem://localhost/pair-test/missing.json", "")
	assert.ErrorContains(t, err, "missing.json")
}

func TestStore_UnknownFormat(t *testing.T) {
	store := New(nil, nil)

	_, err := store.Load(context.Background(), "mem://localhost/x.json", "csv")
	assert.ErrorContains(t, err, `unknown format "csv"`)

	_, err = store.Save(context.Background(), "mem://localhost/x.json", "csv", nil)
	assert.ErrorContains(t, err, `unknown format "csv"`)
}

func TestDigest(t *testing.T) {
	a, err := Digest([]byte("payload"))
	require.NoError(t, err)

	b, err := Digest([]byte("payload"))
	require.NoError(t, err)

	c, err := Digest([]byte("payload!"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
