package app

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Conversion must carry transcript text through fetch, extraction and file
// output without mangling any script or symbol.

func TestUnicodeText_FullConversion(t *testing.T) {
	testCases := []struct {
		name     string
		segments []string
		expected string
	}{
		{
			name:     "khmer script",
			segments: []string{"សួស្តី", "ពិភពលោក"},
			expected: "សួស្តី ពិភពលោក",
		},
		{
			name:     "chinese and japanese",
			segments: []string{"你好世界", "こんにちは"},
			expected: "你好世界 こんにちは",
		},
		{
			name:     "arabic right to left",
			segments: []string{"مرحبا", "بالعالم"},
			expected: "مرحبا بالعالم",
		},
		{
			name:     "emoji and symbols",
			segments: []string{"launch 🚀 complete", "cost: €42 → ¥6000"},
			expected: "launch 🚀 complete cost: €42 → ¥6000",
		},
		{
			name:     "combining diacritics",
			segments: []string{"naïve", "café", "señor"},
			expected: "naïve café señor",
		},
		{
			name:     "html sensitive characters",
			segments: []string{"a < b && b > c", "x & y"},
			expected: "a < b && b > c x & y",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange - build the document with encoding/json so the body is
			// exactly what a real store would serve
			type segment struct {
				Transcript string `json:"transcript"`
			}
			type document struct {
				Segments []segment `json:"segments"`
			}
			doc := document{}
			for _, text := range tc.segments {
				doc.Segments = append(doc.Segments, segment{Transcript: text})
			}
			body, err := json.Marshal(doc)
			require.NoError(t, err)

			testConfig := DefaultTestConfig()
			testConfig.DocumentPath = "/output/unicode.json"
			testApp, mockStore, err := newConvertTestApplication(t.TempDir(), testConfig)
			require.NoError(t, err)
			defer mockStore.Close()
			mockStore.AddDocument("/output/unicode.json", string(body))

			// Act
			err = testApp.RunWithTimeout(context.Background(), 10*time.Second)

			// Assert
			require.NoError(t, err)
			content, err := testApp.ReadOutputFile()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, content)
			assert.NotContains(t, content, `\u`, "output must carry raw characters, not escapes")
		})
	}
}

func TestUnicodeText_SpacingRules(t *testing.T) {
	testCases := []struct {
		name     string
		document string
		expected string
	}{
		{
			name:     "empty middle segment keeps both separators",
			document: `{"segments": [{"transcript": "hello"}, {"transcript": ""}, {"transcript": "world"}]}`,
			expected: "hello  world",
		},
		{
			name:     "segment order is preserved",
			document: `{"segments": [{"transcript": "third"}, {"transcript": "first"}, {"transcript": "second"}]}`,
			expected: "third first second",
		},
		{
			name:     "internal whitespace is untouched",
			document: `{"segments": [{"transcript": "hello   world"}, {"transcript": "  padded  "}]}`,
			expected: "hello   world   padded  ",
		},
		{
			name:     "single segment gains no separator",
			document: `{"segments": [{"transcript": "alone"}]}`,
			expected: "alone",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			testConfig := DefaultTestConfig()
			testConfig.DocumentPath = "/output/spacing.json"
			testApp, mockStore, err := newConvertTestApplication(t.TempDir(), testConfig)
			require.NoError(t, err)
			defer mockStore.Close()
			mockStore.AddDocument("/output/spacing.json", tc.document)

			// Act
			err = testApp.RunWithTimeout(context.Background(), 10*time.Second)

			// Assert
			require.NoError(t, err)
			content, err := testApp.ReadOutputFile()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, content)
		})
	}
}
