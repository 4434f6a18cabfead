package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Segment represents a single span of transcribed speech within a document.
// Only the transcript text matters for extraction; any other fields a
// producer attaches are tolerated and ignored.
type Segment struct {
	Transcript string `json:"transcript"`
}

// Document is a transcript document: an ordered list of segments
type Document struct {
	Segments []Segment `json:"segments"`
}

// FullTranscript joins the transcript text of every segment with single spaces,
// in document order
func (d *Document) FullTranscript() string {
	parts := make([]string, 0, len(d.Segments))
	for _, segment := range d.Segments {
		parts = append(parts, segment.Transcript)
	}
	return strings.Join(parts, " ")
}

// ParseDocument parses text as a transcript document. The document must be a
// JSON object with a "segments" array whose elements each carry a string
// "transcript" field. Failures carry KindInvalidJSON for malformed JSON and
// KindBadDocument for well-formed JSON of the wrong shape.
func ParseDocument(text string) (*Document, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &root); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, newExtractError(KindBadDocument, fmt.Errorf("document is not a JSON object"))
		}
		return nil, newExtractError(KindInvalidJSON, err)
	}

	rawSegments, ok := root["segments"]
	if !ok {
		return nil, newExtractError(KindBadDocument, fmt.Errorf("segments field not found"))
	}

	var rawList []json.RawMessage
	if err := json.Unmarshal(rawSegments, &rawList); err != nil {
		return nil, newExtractError(KindBadDocument, fmt.Errorf("segments is not an array"))
	}

	doc := &Document{Segments: make([]Segment, 0, len(rawList))}
	for i, raw := range rawList {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, newExtractError(KindBadDocument, fmt.Errorf("segment %d is not a JSON object", i))
		}

		rawTranscript, ok := fields["transcript"]
		if !ok {
			return nil, newExtractError(KindBadDocument, fmt.Errorf("segment %d has no transcript field", i))
		}

		var transcriptText string
		if err := json.Unmarshal(rawTranscript, &transcriptText); err != nil {
			return nil, newExtractError(KindBadDocument, fmt.Errorf("segment %d transcript is not a string", i))
		}

		doc.Segments = append(doc.Segments, Segment{Transcript: transcriptText})
	}

	return doc, nil
}
