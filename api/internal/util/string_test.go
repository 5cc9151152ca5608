package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "plain", StripCodeFences("plain"))
	assert.Equal(t, "text", StripCodeFences("```\ntext\n```"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc…", Truncate("abcdef", 3))
	// Rune-safe: never splits a multi-byte character.
	assert.Equal(t, "мир…", Truncate("мировой", 3))
}
