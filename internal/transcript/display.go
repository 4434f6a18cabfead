package transcript

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Display renders fetched documents as indented JSON on an output writer
type Display struct {
	writer io.Writer
	logger *zap.Logger
}

// NewDisplay creates a new Display instance
func NewDisplay(writer io.Writer, logger *zap.Logger) *Display {
	return &Display{
		writer: writer,
		logger: logger,
	}
}

// ShowDocument writes the document to the output writer as indented JSON.
// When the document is not valid JSON the failure message is shown in its
// place, so the reader always sees what was fetched.
func (d *Display) ShowDocument(text string) error {
	formatted, err := FormatJSON(text)
	if err != nil {
		d.logger.Warn("document is not valid JSON", zap.Error(err))
		formatted = err.Error()
	}

	if _, err := fmt.Fprintln(d.writer, formatted); err != nil {
		d.logger.Error("failed to write document display", zap.Error(err))
		return fmt.Errorf("failed to write document display: %w", err)
	}

	return nil
}

// ShowMessage writes a single status line to the output writer
func (d *Display) ShowMessage(message string) error {
	if _, err := fmt.Fprintln(d.writer, message); err != nil {
		d.logger.Error("failed to write message", zap.Error(err))
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}
