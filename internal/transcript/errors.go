package transcript

import "errors"

// Kind classifies a conversion failure
type Kind int

const (
	// KindUnknown is the zero value for errors that did not originate here
	KindUnknown Kind = iota
	// KindInvalidJSON means the input text could not be parsed as JSON
	KindInvalidJSON
	// KindBadDocument means the JSON parsed but lacks the transcript document shape
	KindBadDocument
	// KindTransport means fetching the document over HTTP failed
	KindTransport
	// KindFileIO means writing the output file failed
	KindFileIO
)

// String returns the snake_case name of the kind for structured logging
func (k Kind) String() string {
	switch k {
	case KindInvalidJSON:
		return "invalid_json"
	case KindBadDocument:
		return "bad_document"
	case KindTransport:
		return "transport"
	case KindFileIO:
		return "file_io"
	default:
		return "unknown"
	}
}

// Error is the failure type shared by all conversion operations. Message holds
// the full human-readable text, matching what the operations have always printed.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newFormatError(cause error) *Error {
	return &Error{
		Kind:    KindInvalidJSON,
		Message: "Invalid JSON data: " + cause.Error(),
		Err:     cause,
	}
}

func newExtractError(kind Kind, cause error) *Error {
	return &Error{
		Kind:    kind,
		Message: "Error extracting transcript: " + cause.Error(),
		Err:     cause,
	}
}

// NewTransportError wraps a fetch failure in the message form the fetcher reports
func NewTransportError(cause error) *Error {
	return &Error{
		Kind:    KindTransport,
		Message: "Error fetching data: " + cause.Error(),
		Err:     cause,
	}
}

// NewFileError wraps an output write failure
func NewFileError(cause error) *Error {
	return &Error{
		Kind:    KindFileIO,
		Message: "Error saving transcript: " + cause.Error(),
		Err:     cause,
	}
}

// KindOf returns the Kind carried by err, or KindUnknown for foreign errors
func KindOf(err error) Kind {
	var convErr *Error
	if errors.As(err, &convErr) {
		return convErr.Kind
	}
	return KindUnknown
}
