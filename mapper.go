package bucketx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// mapRemoteError converts SDK errors into the bucketx error taxonomy
func mapRemoteError(err error, op, path string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &StorageError{Op: op, Path: path, Err: ErrTimeout}
	}
	if errors.Is(err, context.Canceled) {
		return &StorageError{Op: op, Path: path, Err: err}
	}

	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	var noSuchBucket *types.NoSuchBucket
	switch {
	case errors.As(err, &noSuchKey), errors.As(err, &notFound):
		return &StorageError{Op: op, Path: path, Err: ErrNotFound}
	case errors.As(err, &noSuchBucket):
		return &StorageError{Op: op, Path: path, Err: fmt.Errorf("%w: bucket does not exist", ErrNotFound)}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if mapped := mapAPIErrorCode(apiErr, op, path); mapped != nil {
			return mapped
		}
	}

	// Fallback string matching for transports that lose typed errors
	if mapped := mapByErrorMessage(err, op, path); mapped != nil {
		return mapped
	}

	return &StorageError{Op: op, Path: path, Err: err}
}

// mapAPIErrorCode maps generic API error codes to domain errors
func mapAPIErrorCode(apiErr smithy.APIError, op, path string) error {
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return &StorageError{Op: op, Path: path, Err: ErrNotFound}

	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch",
		"ExpiredToken", "InvalidToken", "TokenRefreshRequired":
		return &StorageError{
			Op:   op,
			Path: path,
			Err:  fmt.Errorf("%w: %s", ErrAuthentication, apiErr.ErrorCode()),
		}

	case "SlowDown", "RequestTimeout", "ServiceUnavailable", "InternalError":
		return &StorageError{
			Op:   op,
			Path: path,
			Err:  fmt.Errorf("%w: %s", ErrTimeout, apiErr.ErrorCode()),
		}
	}
	return nil
}

// mapByErrorMessage performs string-based error matching as a last resort
func mapByErrorMessage(err error, op, path string) error {
	msg := strings.ToLower(err.Error())

	notFoundPatterns := []string{
		"not found",
		"does not exist",
		"no such",
		"nosuchkey",
		"nosuchbucket",
	}
	for _, pattern := range notFoundPatterns {
		if strings.Contains(msg, pattern) {
			return &StorageError{Op: op, Path: path, Err: ErrNotFound}
		}
	}

	authPatterns := []string{
		"access denied",
		"forbidden",
		"invalidaccesskeyid",
		"signaturedoesnotmatch",
		"expired token",
	}
	for _, pattern := range authPatterns {
		if strings.Contains(msg, pattern) {
			return &StorageError{Op: op, Path: path, Err: ErrAuthentication}
		}
	}

	timeoutPatterns := []string{
		"timeout",
		"deadline exceeded",
		"service unavailable",
		"slow down",
	}
	for _, pattern := range timeoutPatterns {
		if strings.Contains(msg, pattern) {
			return &StorageError{Op: op, Path: path, Err: ErrTimeout}
		}
	}

	return nil
}
