package bucketx

import (
	"errors"
	"fmt"
)

// Domain Errors - use errors.Is for checking
var (
	// ErrNotFound indicates the requested path does not exist in the bucket
	ErrNotFound = errors.New("bucketx: object not found")

	// ErrAuthentication indicates the credentials were rejected by the backend
	ErrAuthentication = errors.New("bucketx: authentication failed")

	// ErrFormat indicates a payload could not be encoded or decoded in the
	// requested format (malformed YAML, corrupt xlsx, etc.)
	ErrFormat = errors.New("bucketx: invalid payload format")

	// ErrInvalidConfig indicates the client configuration is invalid
	ErrInvalidConfig = errors.New("bucketx: invalid configuration")

	// ErrTimeout indicates the remote side timed out or asked us to back off
	ErrTimeout = errors.New("bucketx: operation timeout")
)

// StorageError wraps underlying errors with the operation and path context
type StorageError struct {
	Op   string // operation that failed
	Path string // normalized path (if applicable)
	Err  error  // underlying error
}

func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("bucketx %s %q: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("bucketx %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if an error is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAuthentication checks if an error is or wraps ErrAuthentication
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsFormat checks if an error is or wraps ErrFormat
func IsFormat(err error) bool {
	return errors.Is(err, ErrFormat)
}

// storageError builds a *StorageError, avoiding double wrapping
func storageError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Path: path, Err: err}
}

// formatError wraps a codec failure into the ErrFormat taxonomy
func formatError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Path: path, Err: fmt.Errorf("%w: %v", ErrFormat, err)}
}
