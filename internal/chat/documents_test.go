package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextPlain(t *testing.T) {
	text, err := ExtractText("notes.txt", "text/plain", []byte("some notes"))
	require.NoError(t, err)
	assert.Equal(t, "some notes", text)
}

func TestExtractTextJson(t *testing.T) {
	text, err := ExtractText("data.json", "application/json", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)
}

func TestExtractTextUnreadableFormat(t *testing.T) {
	text, err := ExtractText("photo.png", "image/png", []byte{0x89, 0x50})
	require.NoError(t, err)
	assert.Contains(t, text, "photo.png")
	assert.Contains(t, text, "image/png")
}
