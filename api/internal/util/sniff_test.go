package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffImageExt(t *testing.T) {
	jpg := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0}
	webp := append([]byte("RIFF"), 0, 0, 0, 0, 'W', 'E', 'B', 'P')
	gif := []byte("GIF89a....")

	assert.Equal(t, "jpg", SniffImageExt(jpg))
	assert.Equal(t, "png", SniffImageExt(png))
	assert.Equal(t, "webp", SniffImageExt(webp))
	assert.Equal(t, "gif", SniffImageExt(gif))
	assert.Equal(t, "", SniffImageExt([]byte("plain text")))
	assert.Equal(t, "", SniffImageExt(nil))
	assert.Equal(t, "", SniffImageExt([]byte{0xFF}))
}

func TestSniffMimeHTTP(t *testing.T) {
	assert.Equal(t, "application/octet-stream", SniffMimeHTTP(nil))
	assert.Equal(t, "image/jpeg", SniffMimeHTTP([]byte{0xFF, 0xD8, 0xFF, 0xE0}))
}

func TestExtFromFileName(t *testing.T) {
	assert.Equal(t, "jpg", ExtFromFileName("photo.JPG"))
	assert.Equal(t, "png", ExtFromFileName("a.b.png"))
	assert.Equal(t, "", ExtFromFileName("noext"))
	assert.Equal(t, "", ExtFromFileName("trailing."))
}
