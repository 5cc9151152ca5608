package spz

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	var payload bytes.Buffer
	require.NoError(t, Encode(&payload, testCloud(5, 0)))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload.Bytes())
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "nested", "world.spz")
	require.NoError(t, Download(context.Background(), srv.URL, path))

	got, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, got.NumPoints)
}

func TestDownloadNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired signature", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "world.spz")
	err := Download(context.Background(), srv.URL, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
