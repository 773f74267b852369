package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrapf(original, "loading %s", "data.csv")

	assert.Contains(t, wrapped.Error(), "loading data.csv")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHintf(New("missing column"), "expected a %q column", "poverty")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, `expected a "poverty" column`, hints[0])
}

func TestSentinels(t *testing.T) {
	notFound := NewNotFoundError("file %s", "data.csv")
	assert.True(t, IsNotFoundError(notFound))
	assert.False(t, IsInvalidRequestError(notFound))
	assert.Contains(t, notFound.Error(), "file data.csv")

	invalid := Wrap(NewInvalidRequestError("unknown field %q", "height"), "select")
	assert.True(t, IsInvalidRequestError(invalid))
	assert.False(t, IsNotFoundError(invalid))

	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsInvalidRequestError(nil))
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
}

func TestStackTrace(t *testing.T) {
	detailed := fmt.Sprintf("%+v", New("with stack"))
	assert.Contains(t, detailed, "errors_test.go")
}

func ExampleWrap() {
	err := Wrap(New("no such file"), "failed to load dataset")
	fmt.Println(err)
	// Output: failed to load dataset: no such file
}
