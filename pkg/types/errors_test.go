package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := Truncated("string data: description", 0x60, 10, 8)
	wrapped := fmt.Errorf("decode: %w", err)

	assert.True(t, errors.Is(wrapped, ErrTruncated))
	assert.False(t, errors.Is(wrapped, ErrFormat))

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrKindTruncated, kind)
}

func TestErrorMessageCarriesContext(t *testing.T) {
	err := Truncated("string data: description", 0x60, 10, 8)
	msg := err.Error()
	assert.Contains(t, msg, "description")
	assert.Contains(t, msg, "0x60")
	assert.Contains(t, msg, "expected 10, actual 8")

	oob := OutOfBounds("link info", "volume id", 40, 20, 50)
	assert.Contains(t, oob.Error(), "[40, 60) exceeds bound 50")
	assert.Equal(t, int64(60), oob.Expected)
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("odd length")
	err := Encoding("string data", 12, cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestKindOfForeignError(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestErrKindString(t *testing.T) {
	assert.Equal(t, "resource-limit", ErrKindResourceLimit.String())
	assert.Equal(t, "kind(99)", ErrKind(99).String())
}
