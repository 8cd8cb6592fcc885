package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("poco.enums", "boxed", "use string or typed")

		assert.Contains(t, err.Error(), "pocogen: config error")
		assert.Contains(t, err.Error(), "poco.enums")
		assert.Contains(t, err.Error(), "boxed")
		assert.Contains(t, err.Error(), "use string or typed")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Package", nil, "cannot be empty")

		assert.Contains(t, err.Error(), "Package")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrInvalidConfig", func(t *testing.T) {
		err := NewConfigError("Target", nil, "missing")
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		assert.True(t, IsConfigError(NewConfigError("Target", nil, "missing")))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("disk full")
		err := NewGenerationError("write", "user.go", "cannot write", cause)

		msg := err.Error()
		assert.Contains(t, msg, "pocogen: generation error")
		assert.Contains(t, msg, "phase write")
		assert.Contains(t, msg, "file: user.go")
		assert.Contains(t, msg, "cannot write")
		assert.Contains(t, msg, "disk full")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewGenerationError("format", "", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
		assert.True(t, errors.Is(err, ErrGenerationFailed))
	})

	t.Run("IsGenerationError helper", func(t *testing.T) {
		assert.True(t, IsGenerationError(NewGenerationError("write", "", "", nil)))
		assert.False(t, IsGenerationError(errors.New("other")))
	})
}

func TestObjectError(t *testing.T) {
	t.Run("Error message with column", func(t *testing.T) {
		err := NewObjectError("table", "dbo.Orders", "Total", "unsupported type", nil)

		assert.Equal(t, "pocogen: table dbo.Orders column Total: unsupported type", err.Error())
	})

	t.Run("Error message without kind", func(t *testing.T) {
		err := NewObjectError("", "Orders", "", "", errors.New("boom"))

		assert.Equal(t, "pocogen: Orders: boom", err.Error())
	})

	t.Run("Is and As", func(t *testing.T) {
		cause := errors.New("timeout")
		wrapped := errors.Join(errors.New("outer"), NewObjectError("view", "v", "", "", cause))

		assert.True(t, errors.Is(wrapped, ErrInvalidObject))
		assert.True(t, errors.Is(wrapped, cause))
		assert.True(t, IsObjectError(wrapped))

		var oe *ObjectError
		require.True(t, errors.As(wrapped, &oe))
		assert.Equal(t, "view", oe.Kind)
	})
}
