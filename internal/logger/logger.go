package logger

import (
	"fmt"

	"go.uber.org/zap"
)

const serviceName = "transcripttext"

// NewLogger creates a new zap logger with default configuration
func NewLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		// Fallback to no-op logger if production logger fails
		return zap.NewNop()
	}
	return logger
}

// NewConverterLogger builds the logger the conversion pipeline runs with.
// Debug mode selects the development console encoder at debug level;
// otherwise production JSON output is used.
func NewConverterLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return NewDevelopmentLogger()
	}
	return NewProductionLogger()
}

// NewProductionLogger creates a new zap logger configured for production use.
// Entries carry the service name so converter output is filterable when
// aggregated with other services' logs.
func NewProductionLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.InitialFields = map[string]interface{}{"service": serviceName}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build production logger: %w", err)
	}
	return logger, nil
}

// NewDevelopmentLogger creates a new zap logger configured for development use
func NewDevelopmentLogger() (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build development logger: %w", err)
	}
	return logger, nil
}
