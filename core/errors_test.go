package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Parallel()

	t.Run("NewError", func(t *testing.T) {
		t.Parallel()

		err1 := errors.New("error 1")
		err2 := errors.New("error 2")
		e := NewError("base message", err1, err2)

		assert.Equal(t, "base message", e.Message)
		assert.Equal(t, []string{"error 1", "error 2"}, e.Err)
		assert.Equal(t, []string{"error 1", "error 2"}, e.Messages())
	})

	t.Run("nil causes are skipped", func(t *testing.T) {
		t.Parallel()

		e := NewError("only message", nil, nil)

		assert.Equal(t, "only message", e.Message)
		assert.Empty(t, e.Err)
		require.NoError(t, e.Unwrap())
	})

	t.Run("Error method", func(t *testing.T) {
		t.Parallel()

		e := NewError("test", errors.New("internal"))

		assert.JSONEq(t, `{"message":"test","err":["internal"]}`, e.Error())
	})

	t.Run("Unwrap joins causes", func(t *testing.T) {
		t.Parallel()

		e := NewError("test", errors.New("first"), errors.New("second"))

		joined := e.Unwrap()
		require.Error(t, joined)
		assert.Contains(t, joined.Error(), "first")
		assert.Contains(t, joined.Error(), "second")
	})
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"running", "upcoming", "completed"} {
		category, err := ParseCategory(valid)
		require.NoError(t, err)
		assert.Equal(t, Category(valid), category)
	}

	_, err := ParseCategory("bogus")
	require.ErrorIs(t, err, ErrInvalidCategory)
}
