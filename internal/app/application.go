package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"transcripttext/internal/config"
	"transcripttext/internal/fetcher"
	"transcripttext/internal/logger"
	"transcripttext/internal/metrics"
	"transcripttext/internal/server"
	"transcripttext/internal/transcript"
	"transcripttext/internal/writer"
)

// healthStatusFile is read by container health checks and the -health flag
const healthStatusFile = "/tmp/transcripttext-health.json"

// RunHealth tracks the health status of conversion jobs and the document server
type RunHealth struct {
	mu             sync.RWMutex
	lastFetchTime  time.Time
	lastOutputTime time.Time
	serverActive   bool
	serveMode      bool
	lastJobFailed  bool
	totalJobs      int64
	totalFailures  int64
}

// Application represents the main transcript converter application orchestrator
type Application struct {
	config     *config.Configuration
	zapLogger  *zap.Logger
	fetcher    *fetcher.Fetcher
	display    *transcript.Display
	fileWriter *writer.FileWriter
	journal    *logger.RunJournal
	recorder   *metrics.Recorder
	server     *server.Server
	runHealth  *RunHealth
}

// NewApplication creates a new application instance with all components initialized
func NewApplication() (*Application, error) {
	// Load configuration from config file if CONFIG_PATH is set, otherwise use environment variables
	var cfg *config.Configuration
	var err error

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		cfg, err = config.NewConfigurationFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.NewConfigurationFromEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to load config from environment: %w", err)
		}
	}

	return NewApplicationWithConfig(cfg)
}

// NewApplicationWithConfig creates an application instance from an already
// constructed configuration
func NewApplicationWithConfig(cfg *config.Configuration) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create zap logger - centralized structured logging, debug mode switches
	// to the development console encoder
	zapLogger, err := logger.NewConverterLogger(cfg.GetDebugMode())
	if err != nil {
		zapLogger = logger.NewLogger()
	}

	// Create run journal for job records
	journal, err := logger.NewRunJournal(cfg, zapLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create run journal: %w", err)
	}

	// Create document fetcher with configured timeout, token and retry policy
	docFetcher := fetcher.NewFetcherWithLogger(time.Duration(cfg.GetFetchTimeoutSec())*time.Second, zapLogger)
	docFetcher.SetToken(cfg.GetSourceToken())
	docFetcher.SetRetryPolicy(cfg.GetFetchMaxRetries(), cfg.GetFetchBackoffMS())

	// Create display for formatted document output
	display := transcript.NewDisplay(os.Stdout, zapLogger)

	// Create file writer for transcript output
	fileWriter := writer.NewFileWriterWithLogger(zapLogger)

	// Create metrics recorder, with per-job logging in debug mode
	recorder := metrics.NewRecorderWithBenchmark(zapLogger, cfg.GetDebugMode())

	// Document server is only built in serve mode, so leave it nil for now
	return &Application{
		config:     cfg,
		zapLogger:  zapLogger,
		fetcher:    docFetcher,
		display:    display,
		fileWriter: fileWriter,
		journal:    journal,
		recorder:   recorder,
		runHealth:  &RunHealth{},
	}, nil
}

// SetDocumentPath overrides the configured source document path
func (app *Application) SetDocumentPath(documentPath string) {
	app.config.SetSourceDocumentPath(documentPath)
}

// Run executes a single conversion job: fetch the transcript document,
// extract its text and write the result to the output directory
func (app *Application) Run(ctx context.Context) error {
	app.zapLogger.Info("starting Transcript Text Converter application")

	// Check if context is already cancelled
	select {
	case <-ctx.Done():
		app.zapLogger.Info("context cancelled before startup, shutting down immediately")
		return nil
	default:
	}

	documentPath := app.config.GetSourceDocumentPath()
	if documentPath == "" {
		return fmt.Errorf("no document path configured, set source.document_path or pass -path")
	}

	documentURL := app.buildDocumentURL(documentPath)
	outputPath := app.buildOutputPath(documentPath)

	app.zapLogger.Info("starting conversion job",
		zap.Bool("debug_mode", app.config.GetDebugMode()),
		zap.String("document_path", documentPath),
		zap.String("output_path", outputPath))

	// Journal consumes job records from a channel so writes never block the job
	recordCh := make(chan logger.JobRecord, 1)
	journalDone := make(chan struct{})
	go func() {
		defer close(journalDone)
		app.journal.ProcessJobRecords(recordCh)
	}()
	defer func() {
		close(recordCh)
		<-journalDone
	}()

	record := logger.NewJobRecord(uuid.NewString(), documentURL)
	timer := app.recorder.StartJob(documentURL)
	defer func() {
		app.recorder.EndJob(timer)
		if app.config.GetDebugMode() {
			app.recorder.LogSummary()
		}
	}()

	start := time.Now()

	// Fetch the transcript document with automatic retry and exponential backoff
	body, err := app.fetcher.FetchWithRetry(ctx, documentURL)
	app.updateFetchHealth()
	if err != nil {
		timer.Failed = true
		app.finishJob(record, "fetch_failed", start)
		recordCh <- *record
		app.updateJobOutcome(true)
		return err
	}

	record.FetchedBytes = len(body)
	timer.FetchedBytes = int64(len(body))

	// Show the formatted document so the reader can inspect what was fetched
	if err := app.display.ShowDocument(body); err != nil {
		app.zapLogger.Warn("failed to display document", zap.Error(err))
	}

	// Extract the transcript text. A document that does not match the
	// expected shape still produces an output file carrying the rendered
	// error message, so a bad document never vanishes silently.
	outputContent := ""
	extractFailed := false
	doc, err := transcript.ParseDocument(body)
	if err != nil {
		extractFailed = true
		outputContent = err.Error()
		app.zapLogger.Warn("transcript extraction failed, writing error message to output",
			zap.String("error_kind", transcript.KindOf(err).String()),
			zap.Error(err))
	} else {
		outputContent = doc.FullTranscript()
		record.SegmentCount = len(doc.Segments)
		timer.SegmentCount = len(doc.Segments)
		record.TranscriptChars = utf8.RuneCountInString(outputContent)
	}

	if err := app.fileWriter.WriteFile(outputContent, outputPath); err != nil {
		timer.Failed = true
		app.finishJob(record, "write_failed", start)
		recordCh <- *record
		app.updateJobOutcome(true)
		return err
	}

	app.updateOutputHealth()

	if err := app.display.ShowMessage("Transcript saved to " + outputPath); err != nil {
		app.zapLogger.Warn("failed to display save confirmation", zap.Error(err))
	}

	record.OutputPath = outputPath
	if extractFailed {
		timer.Failed = true
		app.finishJob(record, "extract_failed", start)
		recordCh <- *record
		app.updateJobOutcome(true)
	} else {
		app.finishJob(record, "completed", start)
		recordCh <- *record
		app.updateJobOutcome(false)
	}

	// Record health for the -health flag even in one-shot mode
	if err := app.writeHealthStatusFile(); err != nil {
		app.zapLogger.Warn("failed to write health status file", zap.Error(err))
	}

	app.zapLogger.Info("conversion job finished",
		zap.String("job_id", record.JobID),
		zap.String("status", record.Status),
		zap.Int("segment_count", record.SegmentCount),
		zap.Int64("duration_ms", record.DurationMS))

	return nil
}

// RunServer starts the document server and blocks until the context is cancelled
func (app *Application) RunServer(ctx context.Context) error {
	app.zapLogger.Info("starting Transcript Text Converter in serve mode")

	app.server = server.NewServerWithLogger(app.config, app.zapLogger)
	app.updateServerHealth(true, true)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Start()
	}()

	// Start heartbeat monitoring
	go app.startHeartbeat(ctx)

	select {
	case <-ctx.Done():
		app.zapLogger.Info("shutdown signal received, stopping document server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop document server: %w", err)
		}
		app.updateServerHealth(true, false)
		return <-errCh
	case err := <-errCh:
		app.updateServerHealth(true, false)
		if err != nil {
			return fmt.Errorf("document server failed: %w", err)
		}
		return nil
	}
}

// buildDocumentURL joins the configured base URL and the document path
func (app *Application) buildDocumentURL(documentPath string) string {
	base := strings.TrimSuffix(app.config.GetSourceBaseURL(), "/")
	return base + "/" + strings.TrimPrefix(documentPath, "/")
}

// buildOutputPath derives the output file path from the document path
func (app *Application) buildOutputPath(documentPath string) string {
	stem := strings.TrimSuffix(path.Base(documentPath), ".json")
	return filepath.Join(app.config.GetOutputDir(), stem+"_output.txt")
}

// finishJob stamps the terminal status and duration on a job record
func (app *Application) finishJob(record *logger.JobRecord, status string, start time.Time) {
	record.Status = status
	record.DurationMS = time.Since(start).Milliseconds()
}

// updateFetchHealth records that a fetch attempt completed
func (app *Application) updateFetchHealth() {
	app.runHealth.mu.Lock()
	defer app.runHealth.mu.Unlock()
	app.runHealth.lastFetchTime = time.Now()
}

// updateOutputHealth records that an output file was written
func (app *Application) updateOutputHealth() {
	app.runHealth.mu.Lock()
	defer app.runHealth.mu.Unlock()
	app.runHealth.lastOutputTime = time.Now()
}

// updateJobOutcome records the outcome of a finished job
func (app *Application) updateJobOutcome(failed bool) {
	app.runHealth.mu.Lock()
	defer app.runHealth.mu.Unlock()
	app.runHealth.totalJobs++
	app.runHealth.lastJobFailed = failed
	if failed {
		app.runHealth.totalFailures++
	}
}

// updateServerHealth records the document server state
func (app *Application) updateServerHealth(serveMode, active bool) {
	app.runHealth.mu.Lock()
	defer app.runHealth.mu.Unlock()
	app.runHealth.serveMode = serveMode
	app.runHealth.serverActive = active
}

// getRunHealthStatus returns the current health status
func (app *Application) getRunHealthStatus() map[string]interface{} {
	app.runHealth.mu.RLock()
	defer app.runHealth.mu.RUnlock()

	now := time.Now()
	timeSinceLastFetch := now.Sub(app.runHealth.lastFetchTime)
	timeSinceLastOutput := now.Sub(app.runHealth.lastOutputTime)

	return map[string]interface{}{
		"serve_mode":             app.runHealth.serveMode,
		"server_active":          app.runHealth.serverActive,
		"last_fetch_time":        app.runHealth.lastFetchTime.Format(time.RFC3339),
		"last_output_time":       app.runHealth.lastOutputTime.Format(time.RFC3339),
		"time_since_last_fetch":  timeSinceLastFetch.String(),
		"time_since_last_output": timeSinceLastOutput.String(),
		"last_job_failed":        app.runHealth.lastJobFailed,
		"total_jobs":             app.runHealth.totalJobs,
		"total_failures":         app.runHealth.totalFailures,
	}
}

// isSystemHealthy determines overall system health from the run status
func (app *Application) isSystemHealthy(healthStatus map[string]interface{}) bool {
	// In serve mode the document server must be running
	serveMode := healthStatus["serve_mode"].(bool)
	serverActive := healthStatus["server_active"].(bool)
	if serveMode && !serverActive {
		return false
	}

	// If jobs have run, the most recent one must have succeeded
	totalJobs := healthStatus["total_jobs"].(int64)
	lastJobFailed := healthStatus["last_job_failed"].(bool)
	if totalJobs > 0 && lastJobFailed {
		return false
	}

	return true
}

// writeHealthStatusFile writes the current health status to a file for Docker health checks
func (app *Application) writeHealthStatusFile() error {
	healthStatus := app.getRunHealthStatus()

	// Add timestamp for health check validation
	healthStatus["health_check_timestamp"] = time.Now().Format(time.RFC3339)
	healthStatus["healthy"] = app.isSystemHealthy(healthStatus)

	dir := filepath.Dir(healthStatusFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create health file directory: %w", err)
	}

	data, err := json.MarshalIndent(healthStatus, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal health status: %w", err)
	}

	// Write health status file atomically
	tempFile := healthStatusFile + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write health file: %w", err)
	}

	if err := os.Rename(tempFile, healthStatusFile); err != nil {
		return fmt.Errorf("failed to rename health file: %w", err)
	}

	return nil
}

// startHeartbeat provides periodic status logging and health file updates in serve mode
func (app *Application) startHeartbeat(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			healthStatus := app.getRunHealthStatus()

			// Write health status file for Docker health checks
			if err := app.writeHealthStatusFile(); err != nil {
				app.zapLogger.Error("failed to write health status file", zap.Error(err))
			}

			if app.config.GetDebugMode() {
				app.zapLogger.Info("heartbeat with health status",
					zap.String("timestamp", time.Now().Format(time.RFC3339)),
					zap.String("listen_addr", app.config.GetServerListenAddr()),
					zap.Any("health_status", healthStatus))
			}

			if !healthStatus["server_active"].(bool) {
				app.zapLogger.Warn("document server inactive")
			}
		}
	}
}

// Shutdown gracefully stops all components
func (app *Application) Shutdown() error {
	app.zapLogger.Info("shutting down application components")

	if app.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.server.Shutdown(shutdownCtx); err != nil {
			app.zapLogger.Error("error stopping document server", zap.Error(err))
		}
	}

	app.zapLogger.Info("application shutdown completed")
	return nil
}
