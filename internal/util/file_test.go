package util

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestCheckImage(t *testing.T) {
	r := bytes.NewReader(pngHeader)
	mime, err := CheckImage(r, "Me.PNG", int64(len(pngHeader)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, rest, "reader rewound")
}

func TestCheckImageRejects(t *testing.T) {
	cases := map[string]struct {
		name string
		data []byte
		size int64
	}{
		"extension": {name: "notes.txt", data: pngHeader, size: int64(len(pngHeader))},
		"content":   {name: "fake.png", data: []byte("plain text"), size: 10},
		"size":      {name: "big.png", data: pngHeader, size: MaxAvatarSize + 1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := CheckImage(bytes.NewReader(tc.data), tc.name, tc.size)
			assert.True(t, errors.Is(err, ErrInvalidFile), "got %v", err)
		})
	}
}
