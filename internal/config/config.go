package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Configuration provides type-safe access to application settings
type Configuration struct {
	viper *viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.base_url", "http://localhost:8000")
	v.SetDefault("source.document_path", "")
	v.SetDefault("source.token", "")
	v.SetDefault("fetch.timeout_sec", 30)
	v.SetDefault("fetch.max_retries", 1)
	v.SetDefault("fetch.backoff_ms", 500)
	v.SetDefault("output.dir", "./json_to_text")
	v.SetDefault("journal.file_path", "./logs/conversion_journal.log")
	v.SetDefault("server.listen_addr", ":8000")
	v.SetDefault("server.data_dir", "./output")
	v.SetDefault("server.token", "")
	v.SetDefault("debug_mode", false)
}

func validate(v *viper.Viper) error {
	timeout := v.GetInt("fetch.timeout_sec")
	if timeout < 0 || timeout > 600 {
		return fmt.Errorf("fetch timeout must be between 0 and 600 seconds, got %d", timeout)
	}

	retries := v.GetInt("fetch.max_retries")
	if retries < 1 || retries > 10 {
		return fmt.Errorf("fetch max retries must be between 1 and 10, got %d", retries)
	}

	if retries > 1 {
		backoff := v.GetInt("fetch.backoff_ms")
		if backoff < 100 || backoff > 30000 {
			return fmt.Errorf("fetch backoff must be between 100 and 30000 milliseconds, got %d", backoff)
		}
	}

	return nil
}

// NewConfiguration creates a new Configuration instance with default settings
func NewConfiguration() *Configuration {
	v := viper.New()
	setDefaults(v)
	return &Configuration{viper: v}
}

// NewConfigurationFromFile creates a Configuration instance from a config file
func NewConfigurationFromFile(configFile string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if err := validate(v); err != nil {
		return nil, err
	}

	return &Configuration{viper: v}, nil
}

// NewConfigurationFromEnv creates a Configuration instance that reads from environment variables
func NewConfigurationFromEnv() (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	// Set up environment variable mapping
	v.SetEnvPrefix("TRANSCRIPT")
	v.AutomaticEnv()

	// Map specific environment variables
	v.BindEnv("source.base_url", "SOURCE_BASE_URL")
	v.BindEnv("source.document_path", "SOURCE_DOCUMENT_PATH")
	v.BindEnv("source.token", "SOURCE_TOKEN")
	v.BindEnv("fetch.timeout_sec", "FETCH_TIMEOUT_SEC")
	v.BindEnv("fetch.max_retries", "FETCH_MAX_RETRIES")
	v.BindEnv("fetch.backoff_ms", "FETCH_BACKOFF_MS")
	v.BindEnv("output.dir", "OUTPUT_DIR")
	v.BindEnv("journal.file_path", "JOURNAL_FILE_PATH")
	v.BindEnv("server.listen_addr", "SERVER_LISTEN_ADDR")
	v.BindEnv("server.data_dir", "SERVER_DATA_DIR")
	v.BindEnv("server.token", "SERVER_TOKEN")
	v.BindEnv("debug_mode", "DEBUG_MODE")

	if err := validate(v); err != nil {
		return nil, err
	}

	return &Configuration{viper: v}, nil
}

// GetSourceBaseURL returns the base URL of the transcript store service
func (c *Configuration) GetSourceBaseURL() string {
	return c.viper.GetString("source.base_url")
}

// GetSourceDocumentPath returns the path of the transcript document to convert
func (c *Configuration) GetSourceDocumentPath() string {
	return c.viper.GetString("source.document_path")
}

// SetSourceDocumentPath overrides the document path, used by the -path CLI flag
func (c *Configuration) SetSourceDocumentPath(path string) {
	c.viper.Set("source.document_path", path)
}

// GetSourceToken returns the bearer token presented to the transcript store
func (c *Configuration) GetSourceToken() string {
	return c.viper.GetString("source.token")
}

// GetFetchTimeoutSec returns the HTTP fetch timeout in seconds, 0 means no timeout
func (c *Configuration) GetFetchTimeoutSec() int {
	return c.viper.GetInt("fetch.timeout_sec")
}

// SetFetchTimeoutSec sets the HTTP fetch timeout in seconds
func (c *Configuration) SetFetchTimeoutSec(seconds int) {
	c.viper.Set("fetch.timeout_sec", seconds)
}

// GetFetchMaxRetries returns the maximum number of fetch attempts
func (c *Configuration) GetFetchMaxRetries() int {
	return c.viper.GetInt("fetch.max_retries")
}

// GetFetchBackoffMS returns the base backoff between fetch attempts in milliseconds
func (c *Configuration) GetFetchBackoffMS() int {
	return c.viper.GetInt("fetch.backoff_ms")
}

// GetOutputDir returns the directory transcript text files are written to
func (c *Configuration) GetOutputDir() string {
	return c.viper.GetString("output.dir")
}

// GetJournalFilePath returns the conversion journal file path
func (c *Configuration) GetJournalFilePath() string {
	return c.viper.GetString("journal.file_path")
}

// GetServerListenAddr returns the listen address for serve mode
func (c *Configuration) GetServerListenAddr() string {
	return c.viper.GetString("server.listen_addr")
}

// GetServerDataDir returns the directory serve mode reads transcript documents from
func (c *Configuration) GetServerDataDir() string {
	return c.viper.GetString("server.data_dir")
}

// GetServerToken returns the bearer token serve mode requires, empty disables auth
func (c *Configuration) GetServerToken() string {
	return c.viper.GetString("server.token")
}

// GetDebugMode returns whether debug mode is enabled
func (c *Configuration) GetDebugMode() bool {
	return c.viper.GetBool("debug_mode")
}

// SetDebugMode enables or disables debug mode
func (c *Configuration) SetDebugMode(enabled bool) {
	c.viper.Set("debug_mode", enabled)
}
