package airq

import "errors"

var (
	ErrMalformedBase64  = errors.New("malformed base64 envelope")
	ErrCipherFailure    = errors.New("cipher failure")
	ErrInvalidPadding   = errors.New("invalid padding")
	ErrInvalidJSON      = errors.New("invalid JSON payload")
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	ErrMissingContent   = errors.New("response missing content field")
)

// DecodeError wraps failures while turning an envelope into a reading:
// bad base64, cipher errors, invalid padding, or unparseable JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// TransportError wraps network and HTTP failures while fetching an
// envelope. Timeout distinguishes deadline expiry from connection
// failures; both are retryable.
type TransportError struct {
	Err     error
	Timeout bool
}

func (e *TransportError) Error() string {
	return "transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
