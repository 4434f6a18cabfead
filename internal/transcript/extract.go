package transcript

// Extract parses text as a transcript document and returns the full transcript:
// every segment's transcript joined with single spaces. A document with no
// segments yields the empty string.
func Extract(text string) (string, error) {
	doc, err := ParseDocument(text)
	if err != nil {
		return "", err
	}
	return doc.FullTranscript(), nil
}
