package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfiguration_GetSourceBaseURL(t *testing.T) {
	t.Run("should return default base URL", func(t *testing.T) {
		// Arrange
		cfg := NewConfiguration()

		// Act
		url := cfg.GetSourceBaseURL()

		// Assert
		assert.NotEmpty(t, url, "base URL should not be empty")
		assert.Equal(t, "http://localhost:8000", url)
	})

	t.Run("should load base URL from config file", func(t *testing.T) {
		// Arrange - create temporary config file
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")
		configContent := `source:
  base_url: "https://transcripts.example.com"`

		err := os.WriteFile(configFile, []byte(configContent), 0644)
		assert.NoError(t, err)

		cfg, err := NewConfigurationFromFile(configFile)
		assert.NoError(t, err)

		// Act
		url := cfg.GetSourceBaseURL()

		// Assert
		assert.Equal(t, "https://transcripts.example.com", url)
	})

	t.Run("should load base URL from environment variable", func(t *testing.T) {
		// Arrange
		testURL := "https://env.example.com"
		os.Setenv("SOURCE_BASE_URL", testURL)
		defer os.Unsetenv("SOURCE_BASE_URL")

		cfg, err := NewConfigurationFromEnv()
		assert.NoError(t, err)

		// Act
		url := cfg.GetSourceBaseURL()

		// Assert
		assert.Equal(t, testURL, url)
	})

	t.Run("should return error for non-existent config file", func(t *testing.T) {
		// Arrange
		nonExistentFile := "/tmp/non-existent-config.yaml"

		// Act
		cfg, err := NewConfigurationFromFile(nonExistentFile)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("should return error for invalid config file format", func(t *testing.T) {
		// Arrange - create invalid YAML file
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "invalid.yaml")
		invalidContent := `source:
  base_url: "https://transcripts.example.com"
invalid_yaml: [unclosed_bracket`

		err := os.WriteFile(configFile, []byte(invalidContent), 0644)
		assert.NoError(t, err)

		// Act
		cfg, err := NewConfigurationFromFile(configFile)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("should fall back to default URL when config file lacks source section", func(t *testing.T) {
		// Arrange - create config file without source section
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "minimal.yaml")
		configContent := `other:
  setting: "value"`

		err := os.WriteFile(configFile, []byte(configContent), 0644)
		assert.NoError(t, err)

		cfg, err := NewConfigurationFromFile(configFile)
		assert.NoError(t, err)

		// Act
		url := cfg.GetSourceBaseURL()

		// Assert
		assert.Equal(t, "http://localhost:8000", url)
	})

	t.Run("should fall back to default URL when environment variable not set", func(t *testing.T) {
		// Arrange - ensure environment variable is not set
		os.Unsetenv("SOURCE_BASE_URL")

		cfg, err := NewConfigurationFromEnv()
		assert.NoError(t, err)

		// Act
		url := cfg.GetSourceBaseURL()

		// Assert
		assert.Equal(t, "http://localhost:8000", url)
	})
}

func TestConfiguration_GetSourceDocumentPath(t *testing.T) {
	t.Run("should return empty document path by default", func(t *testing.T) {
		// Arrange
		cfg := NewConfiguration()

		// Act
		path := cfg.GetSourceDocumentPath()

		// Assert
		assert.Empty(t, path, "document path has no sensible default")
	})

	t.Run("should load document path from config file", func(t *testing.T) {
		// Arrange - create temporary config file
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")
		configContent := `source:
  document_path: "/output/abc123_output/abc123.json"`

		err := os.WriteFile(configFile, []byte(configContent), 0644)
		assert.NoError(t, err)

		cfg, err := NewConfigurationFromFile(configFile)
		assert.NoError(t, err)

		// Act
		path := cfg.GetSourceDocumentPath()

		// Assert
		assert.Equal(t, "/output/abc123_output/abc123.json", path)
	})

	t.Run("should load document path from environment variable", func(t *testing.T) {
		// Arrange
		testPath := "/output/env-doc/env-doc.json"
		os.Setenv("SOURCE_DOCUMENT_PATH", testPath)
		defer os.Unsetenv("SOURCE_DOCUMENT_PATH")

		cfg, err := NewConfigurationFromEnv()
		assert.NoError(t, err)

		// Act
		path := cfg.GetSourceDocumentPath()

		// Assert
		assert.Equal(t, testPath, path)
	})

	t.Run("should set and get document path", func(t *testing.T) {
		// Arrange
		cfg := NewConfiguration()

		// Act
		cfg.SetSourceDocumentPath("/output/flag-doc/flag-doc.json")
		path := cfg.GetSourceDocumentPath()

		// Assert
		assert.Equal(t, "/output/flag-doc/flag-doc.json", path)
	})
}

func TestConfiguration_GetSourceToken(t *testing.T) {
	t.Run("should return empty token by default", func(t *testing.T) {
		// Arrange
		cfg := NewConfiguration()

		// Act
		token := cfg.GetSourceToken()

		// Assert - credentials are never baked into defaults
		assert.Empty(t, token)
	})

	t.Run("should load token from config file", func(t *testing.T) {
		// Arrange - create temporary config file
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")
		configContent := `source:
  token: "file-token-value"`

		err := os.WriteFile(configFile, []byte(configContent), 0644)
		assert.NoError(t, err)

		cfg, err := NewConfigurationFromFile(configFile)
		assert.NoError(t, err)

		// Act
		token := cfg.GetSourceToken()

		// Assert
		assert.Equal(t, "file-token-value", token)
	})

	t.Run("should load token from environment variable", func(t *testing.T) {
		// Arrange
		os.Setenv("SOURCE_TOKEN", "env-token-value")
		defer os.Unsetenv("SOURCE_TOKEN")

		cfg, err := NewConfigurationFromEnv()
		assert.NoError(t, err)

		// Act
		token := cfg.GetSourceToken()

		// Assert
		assert.Equal(t, "env-token-value", token)
	})
}

func TestConfiguration_GetOutputDir(t *testing.T) {
	t.Run("should return default output directory", func(t *testing.T) {
		// Arrange
		cfg := NewConfiguration()

		// Act
		dir := cfg.GetOutputDir()

		// Assert
		assert.Equal(t, "./json_to_text", dir)
	})

	t.Run("should load output directory from config file", func(t *testing.T) {
		// Arrange - create temporary config file
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")
		configContent := `output:
  dir: "/data/transcripts"`

		err := os.WriteFile(configFile, []byte(configContent), 0644)
		assert.NoError(t, err)

		cfg, err := NewConfigurationFromFile(configFile)
		assert.NoError(t, err)

		// Act
		dir := cfg.GetOutputDir()

		// Assert
		assert.Equal(t, "/data/transcripts", dir)
	})

	t.Run("should load output directory from environment variable", func(t *testing.T) {
		// Arrange
		os.Setenv("OUTPUT_DIR", "/env/transcripts")
		defer os.Unsetenv("OUTPUT_DIR")

		cfg, err := NewConfigurationFromEnv()
		assert.NoError(t, err)

		// Act
		dir := cfg.GetOutputDir()

		// Assert
		assert.Equal(t, "/env/transcripts", dir)
	})
}

func TestConfiguration_GetJournalFilePath(t *testing.T) {
	t.Run("should return default journal file path", func(t *testing.T) {
		// Arrange
		cfg := NewConfiguration()

		// Act
		path := cfg.GetJournalFilePath()

		// Assert
		assert.NotEmpty(t, path, "journal file path should not be empty")
		assert.Equal(t, "./logs/conversion_journal.log", path)
	})

	t.Run("should load journal file path from config file", func(t *testing.T) {
		// Arrange - create temporary config file
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")
		configContent := `journal:
  file_path: "/tmp/custom_journal.log"`

		err := os.WriteFile(configFile, []byte(configContent), 0644)
		assert.NoError(t, err)

		cfg, err := NewConfigurationFromFile(configFile)
		assert.NoError(t, err)

		// Act
		path := cfg.GetJournalFilePath()

		// Assert
		assert.Equal(t, "/tmp/custom_journal.log", path)
	})

	t.Run("should load journal file path from environment variable", func(t *testing.T) {
		// Arrange
		testPath := "/env/path/to/journal.log"
		os.Setenv("JOURNAL_FILE_PATH", testPath)
		defer os.Unsetenv("JOURNAL_FILE_PATH")

		cfg, err := NewConfigurationFromEnv()
		assert.NoError(t, err)

		// Act
		path := cfg.GetJournalFilePath()

		// Assert
		assert.Equal(t, testPath, path)
	})
}

func TestConfiguration_ServerSettings(t *testing.T) {
	t.Run("should return default server settings", func(t *testing.T) {
		// Arrange
		cfg := NewConfiguration()

		// Act & Assert
		assert.Equal(t, ":8000", cfg.GetServerListenAddr())
		assert.Equal(t, "./output", cfg.GetServerDataDir())
		assert.Empty(t, cfg.GetServerToken())
	})

	t.Run("should load server settings from config file", func(t *testing.T) {
		// Arrange - create temporary config file
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")
		configContent := `server:
  listen_addr: ":9100"
  data_dir: "/srv/transcripts"
  token: "store-token"`

		err := os.WriteFile(configFile, []byte(configContent), 0644)
		assert.NoError(t, err)

		cfg, err := NewConfigurationFromFile(configFile)
		assert.NoError(t, err)

		// Act & Assert
		assert.Equal(t, ":9100", cfg.GetServerListenAddr())
		assert.Equal(t, "/srv/transcripts", cfg.GetServerDataDir())
		assert.Equal(t, "store-token", cfg.GetServerToken())
	})

	t.Run("should load server settings from environment variables", func(t *testing.T) {
		// Arrange
		os.Setenv("SERVER_LISTEN_ADDR", ":9200")
		os.Setenv("SERVER_DATA_DIR", "/env/store")
		os.Setenv("SERVER_TOKEN", "env-store-token")
		defer func() {
			os.Unsetenv("SERVER_LISTEN_ADDR")
			os.Unsetenv("SERVER_DATA_DIR")
			os.Unsetenv("SERVER_TOKEN")
		}()

		cfg, err := NewConfigurationFromEnv()
		assert.NoError(t, err)

		// Act & Assert
		assert.Equal(t, ":9200", cfg.GetServerListenAddr())
		assert.Equal(t, "/env/store", cfg.GetServerDataDir())
		assert.Equal(t, "env-store-token", cfg.GetServerToken())
	})
}

func TestConfiguration_DebugMode(t *testing.T) {
	t.Run("should return default debug mode state", func(t *testing.T) {
		// Arrange
		cfg := NewConfiguration()

		// Act
		debugMode := cfg.GetDebugMode()

		// Assert - debug mode should be false by default
		assert.False(t, debugMode)
	})

	t.Run("should load debug mode from config file", func(t *testing.T) {
		// Arrange - create temporary config file
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")
		configContent := `debug_mode: true`

		err := os.WriteFile(configFile, []byte(configContent), 0644)
		assert.NoError(t, err)

		cfg, err := NewConfigurationFromFile(configFile)
		assert.NoError(t, err)

		// Act
		debugMode := cfg.GetDebugMode()

		// Assert
		assert.True(t, debugMode)
	})

	t.Run("should handle debug mode from environment variable", func(t *testing.T) {
		// Arrange
		os.Setenv("DEBUG_MODE", "true")
		defer os.Unsetenv("DEBUG_MODE")

		cfg, err := NewConfigurationFromEnv()
		assert.NoError(t, err)

		// Act
		debugMode := cfg.GetDebugMode()

		// Assert
		assert.True(t, debugMode)
	})
}

func TestConfiguration_EnvironmentVariableMappingEdgeCases(t *testing.T) {
	t.Run("should prefer explicit binding over prefixed variable", func(t *testing.T) {
		// Arrange - fetch.timeout_sec is explicitly bound to FETCH_TIMEOUT_SEC,
		// so the TRANSCRIPT_ prefix form does not apply to it
		os.Unsetenv("FETCH_TIMEOUT_SEC")
		os.Setenv("TRANSCRIPT_FETCH_TIMEOUT_SEC", "120")
		defer os.Unsetenv("TRANSCRIPT_FETCH_TIMEOUT_SEC")

		cfg, err := NewConfigurationFromEnv()
		assert.NoError(t, err)

		// Act
		timeout := cfg.GetFetchTimeoutSec()

		// Assert - default value since the prefix doesn't apply to explicitly bound vars
		assert.Equal(t, 30, timeout)
	})

	t.Run("should handle empty token environment variable", func(t *testing.T) {
		// Arrange
		os.Setenv("SOURCE_TOKEN", "")
		defer os.Unsetenv("SOURCE_TOKEN")

		cfg, err := NewConfigurationFromEnv()
		assert.NoError(t, err)

		// Act
		token := cfg.GetSourceToken()

		// Assert
		assert.Empty(t, token)
	})
}
