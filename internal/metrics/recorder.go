package metrics

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobMetrics tracks conversion job metrics
type JobMetrics struct {
	TotalJobs           int64
	SuccessfulJobs      int64
	FailedJobs          int64
	TotalFetchedBytes   int64
	TotalSegments       int64
	TotalProcessingTime time.Duration
	AvgJobTime          time.Duration
	MinJobTime          time.Duration
	MaxJobTime          time.Duration
	LastJobFailed       bool
	LastFetchedBytes    int64
	LastSegmentCount    int
	LastProcessingTime  time.Duration
	LastTimestamp       time.Time
}

// JobTimer tracks timing for individual conversion jobs
type JobTimer struct {
	StartTime      time.Time
	DocumentURL    string
	FetchedBytes   int64
	SegmentCount   int
	Failed         bool
	ProcessingTime time.Duration
}

// Recorder handles job metrics tracking and reporting
type Recorder struct {
	logger    *zap.Logger
	metrics   JobMetrics
	mu        sync.RWMutex
	benchmark bool
}

// NewRecorder creates a new metrics recorder
func NewRecorder(logger *zap.Logger) *Recorder {
	return &Recorder{
		logger: logger,
		metrics: JobMetrics{
			MinJobTime:    time.Hour, // Initialize to large value
			LastTimestamp: time.Now(),
		},
	}
}

// NewRecorderWithBenchmark creates a metrics recorder with benchmarking enabled
func NewRecorderWithBenchmark(logger *zap.Logger, benchmark bool) *Recorder {
	return &Recorder{
		logger: logger,
		metrics: JobMetrics{
			MinJobTime:    time.Hour,
			LastTimestamp: time.Now(),
		},
		benchmark: benchmark,
	}
}

// StartJob begins timing a conversion job
func (r *Recorder) StartJob(documentURL string) *JobTimer {
	return &JobTimer{
		StartTime:   time.Now(),
		DocumentURL: documentURL,
	}
}

// EndJob completes timing and updates metrics
func (r *Recorder) EndJob(timer *JobTimer) {
	timer.ProcessingTime = time.Since(timer.StartTime)

	r.mu.Lock()
	defer r.mu.Unlock()

	// Update basic metrics
	r.metrics.TotalJobs++
	r.metrics.TotalFetchedBytes += timer.FetchedBytes
	r.metrics.TotalSegments += int64(timer.SegmentCount)
	r.metrics.TotalProcessingTime += timer.ProcessingTime
	r.metrics.LastProcessingTime = timer.ProcessingTime
	r.metrics.LastFetchedBytes = timer.FetchedBytes
	r.metrics.LastSegmentCount = timer.SegmentCount
	r.metrics.LastJobFailed = timer.Failed
	r.metrics.LastTimestamp = time.Now()

	// Update success/failure counters
	if timer.Failed {
		r.metrics.FailedJobs++
	} else {
		r.metrics.SuccessfulJobs++
	}

	// Update timing statistics
	if timer.ProcessingTime < r.metrics.MinJobTime {
		r.metrics.MinJobTime = timer.ProcessingTime
	}
	if timer.ProcessingTime > r.metrics.MaxJobTime {
		r.metrics.MaxJobTime = timer.ProcessingTime
	}

	// Calculate average
	r.metrics.AvgJobTime = time.Duration(
		int64(r.metrics.TotalProcessingTime) / r.metrics.TotalJobs,
	)

	// Log if benchmarking is enabled
	if r.benchmark {
		r.logger.Info("job performance",
			zap.String("document_url", timer.DocumentURL),
			zap.Bool("failed", timer.Failed),
			zap.Int64("fetched_bytes", timer.FetchedBytes),
			zap.Int("segment_count", timer.SegmentCount),
			zap.Duration("processing_time", timer.ProcessingTime),
			zap.Float64("bytes_per_sec", float64(timer.FetchedBytes)/timer.ProcessingTime.Seconds()),
		)
	}
}

// GetMetrics returns a copy of current metrics
func (r *Recorder) GetMetrics() JobMetrics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.metrics
}

// GetSummary returns a formatted summary of job metrics
func (r *Recorder) GetSummary() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.metrics.TotalJobs == 0 {
		return "No conversion metrics available"
	}

	successPercent := float64(r.metrics.SuccessfulJobs) / float64(r.metrics.TotalJobs) * 100
	avgBytesPerSec := float64(r.metrics.TotalFetchedBytes) / r.metrics.TotalProcessingTime.Seconds()

	summary := fmt.Sprintf(
		"Conversion Summary:\n"+
			"  Total Jobs: %d\n"+
			"  Success Rate: %.1f%% (%d succeeded, %d failed)\n"+
			"  Avg Job Time: %v\n"+
			"  Min/Max Job Time: %v / %v\n"+
			"  Total Fetched: %.2f KB\n"+
			"  Total Segments: %d\n"+
			"  Average Throughput: %.2f KB/s\n",
		r.metrics.TotalJobs,
		successPercent,
		r.metrics.SuccessfulJobs,
		r.metrics.FailedJobs,
		r.metrics.AvgJobTime,
		r.metrics.MinJobTime,
		r.metrics.MaxJobTime,
		float64(r.metrics.TotalFetchedBytes)/1024,
		r.metrics.TotalSegments,
		avgBytesPerSec/1024,
	)

	return summary
}

// ResetMetrics clears all accumulated metrics
func (r *Recorder) ResetMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.metrics = JobMetrics{
		MinJobTime:    time.Hour,
		LastTimestamp: time.Now(),
	}

	r.logger.Info("job metrics reset")
}

// BenchmarkMode enables or disables detailed benchmark logging
func (r *Recorder) BenchmarkMode(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.benchmark = enabled
	r.logger.Info("benchmark mode", zap.Bool("enabled", enabled))
}

// LogSummary logs the current job metrics
func (r *Recorder) LogSummary() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	r.logger.Info("current job metrics",
		zap.Int64("total_jobs", r.metrics.TotalJobs),
		zap.Int64("successful_jobs", r.metrics.SuccessfulJobs),
		zap.Int64("failed_jobs", r.metrics.FailedJobs),
		zap.Int64("total_fetched_bytes", r.metrics.TotalFetchedBytes),
		zap.Int64("total_segments", r.metrics.TotalSegments),
		zap.Duration("avg_job_time", r.metrics.AvgJobTime),
		zap.Duration("last_job_time", r.metrics.LastProcessingTime),
		zap.Bool("last_job_failed", r.metrics.LastJobFailed),
		zap.Int("last_segment_count", r.metrics.LastSegmentCount),
	)
}
