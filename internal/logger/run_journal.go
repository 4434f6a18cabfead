package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"transcripttext/internal/config"
)

// JobRecord captures the outcome of one conversion job for the journal
type JobRecord struct {
	JobID           string    `json:"job_id"`
	DocumentURL     string    `json:"document_url"`
	OutputPath      string    `json:"output_path,omitempty"`
	SegmentCount    int       `json:"segment_count"`
	TranscriptChars int       `json:"transcript_chars"`
	FetchedBytes    int       `json:"fetched_bytes"`
	DurationMS      int64     `json:"duration_ms"`
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewJobRecord creates a JobRecord stamped with the current time
func NewJobRecord(jobID string, documentURL string) *JobRecord {
	return &JobRecord{
		JobID:       jobID,
		DocumentURL: documentURL,
		Timestamp:   time.Now(),
	}
}

// RunJournal appends one JSON line per completed conversion job to a journal file
type RunJournal struct {
	filePath string
	logger   *zap.Logger
	mu       sync.Mutex
}

// NewRunJournal creates a RunJournal writing to the configured journal file path
func NewRunJournal(cfg *config.Configuration, logger *zap.Logger) (*RunJournal, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &RunJournal{
		filePath: cfg.GetJournalFilePath(),
		logger:   logger,
	}, nil
}

// GetFilePath returns the journal file path
func (j *RunJournal) GetFilePath() string {
	return j.filePath
}

// FormatJobRecordAsJSON renders a JobRecord as a single JSON object
func (j *RunJournal) FormatJobRecordAsJSON(record *JobRecord) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("job record cannot be nil")
	}
	if record.JobID == "" {
		return nil, fmt.Errorf("job ID not set in job record")
	}
	if record.DocumentURL == "" {
		return nil, fmt.Errorf("document URL not set in job record")
	}

	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	jsonBytes, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job record: %w", err)
	}

	return jsonBytes, nil
}

// AppendJobRecord writes one JobRecord to the journal file, creating the directory if needed
func (j *RunJournal) AppendJobRecord(record *JobRecord) error {
	jsonBytes, err := j.FormatJobRecordAsJSON(record)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	dir := filepath.Dir(j.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(j.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", j.filePath, err)
	}
	defer file.Close()

	if _, err := file.Write(append(jsonBytes, '\n')); err != nil {
		return fmt.Errorf("failed to write job record: %w", err)
	}

	j.logger.Debug("job record appended to journal",
		zap.String("job_id", record.JobID),
		zap.String("journal_path", j.filePath))

	return nil
}

// ProcessJobRecords consumes JobRecords from a channel until it closes,
// appending each to the journal and continuing past write errors
func (j *RunJournal) ProcessJobRecords(inputCh <-chan JobRecord) {
	for record := range inputCh {
		if err := j.AppendJobRecord(&record); err != nil {
			j.logger.Error("failed to append job record",
				zap.Error(err),
				zap.String("job_id", record.JobID))
		}
	}

	j.logger.Debug("job record processing completed")
}
