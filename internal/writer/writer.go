package writer

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"transcripttext/internal/transcript"
)

// FileWriter persists transcript text to disk, creating parent directories
// as needed and overwriting existing files
type FileWriter struct {
	logger *zap.Logger
}

// NewFileWriter creates a new FileWriter instance
func NewFileWriter() *FileWriter {
	return &FileWriter{
		logger: zap.NewNop(), // Default no-op logger
	}
}

// NewFileWriterWithLogger creates a new FileWriter instance with custom logger
func NewFileWriterWithLogger(logger *zap.Logger) *FileWriter {
	return &FileWriter{
		logger: logger,
	}
}

// WriteFile writes content to path as UTF-8 text. Intermediate directories
// are created; an existing file at path is replaced. The file appears at its
// final path only once fully written.
func (w *FileWriter) WriteFile(content string, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		w.logger.Error("failed to create output directory",
			zap.String("dir", dir),
			zap.Error(err))
		return transcript.NewFileError(err)
	}

	// Write to a temporary file in the same directory, then rename into place
	tempFile := path + ".tmp"
	defer os.Remove(tempFile)

	if err := os.WriteFile(tempFile, []byte(content), 0644); err != nil {
		w.logger.Error("failed to write transcript file",
			zap.String("path", path),
			zap.Error(err))
		return transcript.NewFileError(err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		w.logger.Error("failed to move transcript file into place",
			zap.String("path", path),
			zap.Error(err))
		return transcript.NewFileError(err)
	}

	w.logger.Info("transcript file written",
		zap.String("path", path),
		zap.Int("bytes", len(content)))

	return nil
}
