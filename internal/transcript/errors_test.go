package transcript

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("should render transport errors with the fetch prefix", func(t *testing.T) {
		// Arrange
		cause := fmt.Errorf("connection refused")

		// Act
		err := NewTransportError(cause)

		// Assert
		assert.Equal(t, "Error fetching data: connection refused", err.Error())
		assert.Equal(t, KindTransport, err.Kind)
	})

	t.Run("should render file errors with the save prefix", func(t *testing.T) {
		// Arrange
		cause := fmt.Errorf("permission denied")

		// Act
		err := NewFileError(cause)

		// Assert
		assert.Equal(t, "Error saving transcript: permission denied", err.Error())
		assert.Equal(t, KindFileIO, err.Kind)
	})

	t.Run("should unwrap to the underlying cause", func(t *testing.T) {
		// Arrange
		cause := fmt.Errorf("connection refused")
		err := NewTransportError(cause)

		// Act & Assert
		assert.Equal(t, cause, errors.Unwrap(err))
		assert.True(t, errors.Is(err, cause))
	})
}

func TestKindOf(t *testing.T) {
	t.Run("should classify conversion errors by kind", func(t *testing.T) {
		// Arrange
		_, formatErr := FormatJSON("{bad")
		_, extractErr := Extract(`{"no_segments": []}`)
		transportErr := NewTransportError(fmt.Errorf("timeout"))
		fileErr := NewFileError(fmt.Errorf("disk full"))

		// Act & Assert
		assert.Equal(t, KindInvalidJSON, KindOf(formatErr))
		assert.Equal(t, KindBadDocument, KindOf(extractErr))
		assert.Equal(t, KindTransport, KindOf(transportErr))
		assert.Equal(t, KindFileIO, KindOf(fileErr))
	})

	t.Run("should return unknown kind for foreign errors", func(t *testing.T) {
		// Arrange
		err := fmt.Errorf("some other failure")

		// Act & Assert
		assert.Equal(t, KindUnknown, KindOf(err))
		assert.Equal(t, KindUnknown, KindOf(nil))
	})

	t.Run("should classify wrapped conversion errors", func(t *testing.T) {
		// Arrange
		inner := NewTransportError(fmt.Errorf("connection reset"))
		wrapped := fmt.Errorf("job failed: %w", inner)

		// Act & Assert
		assert.Equal(t, KindTransport, KindOf(wrapped))
	})
}

func TestKind_String(t *testing.T) {
	t.Run("should name kinds for structured logging", func(t *testing.T) {
		assert.Equal(t, "invalid_json", KindInvalidJSON.String())
		assert.Equal(t, "bad_document", KindBadDocument.String())
		assert.Equal(t, "transport", KindTransport.String())
		assert.Equal(t, "file_io", KindFileIO.String())
		assert.Equal(t, "unknown", KindUnknown.String())
	})
}
