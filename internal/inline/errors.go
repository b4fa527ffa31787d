package inline

import "errors"

var (
	// ErrUnsupportedEncoding indicates the configured data URI encoding has no encoder
	ErrUnsupportedEncoding = errors.New("unsupported data URI encoding")
	// ErrInvalidDataURI indicates a string is not a well formed data URI
	ErrInvalidDataURI = errors.New("invalid data URI")
	// ErrRelativePath indicates a file request did not carry an absolute path
	ErrRelativePath = errors.New("file path must be absolute")
)
