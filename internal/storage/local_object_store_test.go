package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalObjectStorePutGet(t *testing.T) {
	store, err := NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	contents := []byte("hello, uploads")
	require.NoError(t, store.PutObject(ctx, "abc-notes.txt", bytes.NewReader(contents)))

	r, err := store.GetObject(ctx, "abc-notes.txt")
	require.NoError(t, err)
	defer r.Close()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, contents, got)
}

func TestLocalObjectStoreMissingKey(t *testing.T) {
	store, err := NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.GetObject(context.Background(), "does-not-exist")
	assert.Error(t, err)
}

func TestLocalObjectStoreOverwrite(t *testing.T) {
	store, err := NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, store.PutObject(ctx, "key", bytes.NewReader([]byte("first"))))
	require.NoError(t, store.PutObject(ctx, "key", bytes.NewReader([]byte("second"))))

	r, err := store.GetObject(ctx, "key")
	require.NoError(t, err)
	defer r.Close()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}
