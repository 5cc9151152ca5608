package util

import (
	"net/http"
	"strings"
)

// SniffImageExt returns the file extension (no dot) for common image
// payloads, or "" when the bytes are not a recognized image. Used to fill
// the extension of data_base64 prompts and media uploads.
func SniffImageExt(b []byte) string {
	// JPEG: FF D8
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8 {
		return "jpg"
	}
	// PNG
	if len(b) >= 8 &&
		b[0] == 0x89 && b[1] == 0x50 && b[2] == 0x4E && b[3] == 0x47 &&
		b[4] == 0x0D && b[5] == 0x0A && b[6] == 0x1A && b[7] == 0x0A {
		return "png"
	}
	// WebP: RIFF....WEBP
	if len(b) >= 12 && string(b[0:4]) == "RIFF" && string(b[8:12]) == "WEBP" {
		return "webp"
	}
	// GIF87a / GIF89a
	if len(b) >= 6 && (string(b[0:6]) == "GIF87a" || string(b[0:6]) == "GIF89a") {
		return "gif"
	}
	return ""
}

// SniffMimeHTTP returns an HTTP content type for the payload, defaulting to
// octet-stream.
func SniffMimeHTTP(b []byte) string {
	if len(b) == 0 {
		return "application/octet-stream"
	}
	return http.DetectContentType(b)
}

// ExtFromFileName returns the lowercase extension without the dot.
func ExtFromFileName(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}
