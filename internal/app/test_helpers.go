package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TestConfig represents configuration for conversion testing scenarios
type TestConfig struct {
	MockStoreURL string
	DocumentPath string
	OutputDir    string
	JournalPath  string
	SourceToken  string
	DebugMode    bool
	MaxRetries   int
	BackoffMS    int
}

// DefaultTestConfig returns a default test configuration
func DefaultTestConfig() *TestConfig {
	return &TestConfig{
		MockStoreURL: "", // Will be set by mock server
		DocumentPath: "/output/interview.json",
		OutputDir:    "",
		JournalPath:  "",
		SourceToken:  "",
		DebugMode:    true,
		MaxRetries:   1,
		BackoffMS:    100,
	}
}

// MockStoreServer provides an HTTP mock of the transcript document store
type MockStoreServer struct {
	server    *httptest.Server
	mu        sync.Mutex
	documents map[string]string
	token     string
	failures  int
	attempts  int
}

// NewMockStoreServer creates a new mock document store
func NewMockStoreServer() *MockStoreServer {
	mock := &MockStoreServer{
		documents: make(map[string]string),
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.handleDocument(w, r)
	})

	mock.server = httptest.NewServer(handler)
	return mock
}

// URL returns the mock store URL
func (m *MockStoreServer) URL() string {
	return m.server.URL
}

// Close shuts down the mock store
func (m *MockStoreServer) Close() {
	m.server.Close()
}

// AddDocument registers a document body under the given request path
func (m *MockStoreServer) AddDocument(path, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[path] = body
}

// SetToken makes the mock store require the given bearer token
func (m *MockStoreServer) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

// FailNext makes the next n requests fail with 503
func (m *MockStoreServer) FailNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = n
}

// Attempts returns how many requests the mock store has seen
func (m *MockStoreServer) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// handleDocument serves registered documents the way the real store would
func (m *MockStoreServer) handleDocument(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts++

	if m.failures > 0 {
		m.failures--
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	if m.token != "" {
		if r.Header.Get("Authorization") != "Bearer "+m.token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	body, ok := m.documents[r.URL.Path]
	if !ok {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write([]byte(body))
}

// TestDocument represents a transcript document used in tests
type TestDocument struct {
	Name           string
	Path           string
	Body           string
	ExpectedText   string
	ExpectFailure  bool
	ExpectedStatus string
}

// LoadTestDocuments returns the catalog of documents conversion tests run against
func LoadTestDocuments() []*TestDocument {
	return []*TestDocument{
		{
			Name:           "simple interview",
			Path:           "/output/interview.json",
			Body:           `{"segments": [{"transcript": "hello"}, {"transcript": "world"}]}`,
			ExpectedText:   "hello world",
			ExpectedStatus: "completed",
		},
		{
			Name:           "empty segments",
			Path:           "/output/empty.json",
			Body:           `{"segments": []}`,
			ExpectedText:   "",
			ExpectedStatus: "completed",
		},
		{
			Name:           "khmer transcript",
			Path:           "/output/khmer.json",
			Body:           `{"segments": [{"transcript": "សួស្តី"}, {"transcript": "ពិភពលោក"}]}`,
			ExpectedText:   "សួស្តី ពិភពលោក",
			ExpectedStatus: "completed",
		},
		{
			Name:           "missing segments field",
			Path:           "/output/broken.json",
			Body:           `{"other": []}`,
			ExpectedText:   "Error extracting transcript: segments field not found",
			ExpectFailure:  true,
			ExpectedStatus: "extract_failed",
		},
	}
}

// TestApplication creates an application configured for testing
type TestApplication struct {
	*Application
	TestConfig *TestConfig
	MockStore  *MockStoreServer
	TestLogger *zap.Logger
}

// NewTestApplication creates a new application instance for testing
func NewTestApplication(testConfig *TestConfig) (*TestApplication, error) {
	// Set up test environment variables
	envKeys := []string{
		"CONFIG_PATH", "SOURCE_BASE_URL", "SOURCE_DOCUMENT_PATH", "SOURCE_TOKEN",
		"OUTPUT_DIR", "JOURNAL_FILE_PATH", "FETCH_MAX_RETRIES", "FETCH_BACKOFF_MS",
		"DEBUG_MODE",
	}
	original := make(map[string]string, len(envKeys))
	for _, key := range envKeys {
		original[key] = os.Getenv(key)
	}

	defer func() {
		// Restore original values
		for _, key := range envKeys {
			if original[key] == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, original[key])
			}
		}
	}()

	// Set test environment
	os.Unsetenv("CONFIG_PATH")
	os.Setenv("SOURCE_BASE_URL", testConfig.MockStoreURL)
	os.Setenv("SOURCE_DOCUMENT_PATH", testConfig.DocumentPath)
	os.Setenv("SOURCE_TOKEN", testConfig.SourceToken)
	os.Setenv("OUTPUT_DIR", testConfig.OutputDir)
	os.Setenv("JOURNAL_FILE_PATH", testConfig.JournalPath)
	os.Setenv("FETCH_MAX_RETRIES", strconv.Itoa(testConfig.MaxRetries))
	os.Setenv("FETCH_BACKOFF_MS", strconv.Itoa(testConfig.BackoffMS))
	if testConfig.DebugMode {
		os.Setenv("DEBUG_MODE", "true")
	} else {
		os.Setenv("DEBUG_MODE", "false")
	}

	// Create application
	app, err := NewApplication()
	if err != nil {
		return nil, fmt.Errorf("failed to create test application: %w", err)
	}

	// Create test logger for verification
	testLogger := zap.NewNop() // Use no-op logger for tests to reduce noise

	return &TestApplication{
		Application: app,
		TestConfig:  testConfig,
		TestLogger:  testLogger,
	}, nil
}

// RunWithTimeout runs the test application with a timeout
func (ta *TestApplication) RunWithTimeout(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return ta.Application.Run(ctx)
}

// OutputFilePath returns where the conversion output for the configured document lands
func (ta *TestApplication) OutputFilePath() string {
	return ta.Application.buildOutputPath(ta.TestConfig.DocumentPath)
}

// ReadOutputFile reads the conversion output for the configured document
func (ta *TestApplication) ReadOutputFile() (string, error) {
	data, err := os.ReadFile(ta.OutputFilePath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// newConvertTestApplication wires a mock store, temp output dir and journal
// into a ready-to-run test application
func newConvertTestApplication(tempDir string, testConfig *TestConfig) (*TestApplication, *MockStoreServer, error) {
	mockStore := NewMockStoreServer()
	for _, doc := range LoadTestDocuments() {
		mockStore.AddDocument(doc.Path, doc.Body)
	}

	testConfig.MockStoreURL = mockStore.URL()
	if testConfig.OutputDir == "" {
		testConfig.OutputDir = filepath.Join(tempDir, "json_to_text")
	}
	if testConfig.JournalPath == "" {
		testConfig.JournalPath = filepath.Join(tempDir, "logs", "conversion_journal.log")
	}

	testApp, err := NewTestApplication(testConfig)
	if err != nil {
		mockStore.Close()
		return nil, nil, err
	}

	testApp.MockStore = mockStore
	return testApp, mockStore, nil
}
