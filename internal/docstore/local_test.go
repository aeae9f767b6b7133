package docstore

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edukits/ragtutor/internal/config"
)

type memDoc struct {
	*bytes.Reader
}

func (m *memDoc) Close() error {
	return nil
}

func TestLocalStoreSaveOpenRoundTrip(t *testing.T) {
	store, err := New(config.DocStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)

	doc := &memDoc{Reader: bytes.NewReader([]byte("raw chapter text"))}
	require.NoError(t, store.Save(context.Background(), "leph101.txt", doc, int64(doc.Len())))

	r, err := store.Open(context.Background(), "leph101.txt")
	require.NoError(t, err)
	defer r.Close()
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "raw chapter text", string(content))
}

func TestLocalStoreRejectsPathKeys(t *testing.T) {
	store, err := New(config.DocStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)

	doc := &memDoc{Reader: bytes.NewReader([]byte("x"))}
	require.Error(t, store.Save(context.Background(), "../escape.txt", doc, 1))
	_, err = store.Open(context.Background(), "a/b.txt")
	require.Error(t, err)
}

func TestNewUnknownType(t *testing.T) {
	_, err := New(config.DocStoreConfig{Type: "ftp"})
	require.Error(t, err)
}
