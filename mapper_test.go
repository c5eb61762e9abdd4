package bucketx

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRemoteErrorNil(t *testing.T) {
	assert.NoError(t, mapRemoteError(nil, "read", "/x"))
}

func TestMapRemoteErrorTypedNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"NoSuchKey", &types.NoSuchKey{}},
		{"NotFound", &types.NotFound{}},
		{"NoSuchBucket", &types.NoSuchBucket{}},
		{"wrapped NoSuchKey", fmt.Errorf("operation failed: %w", &types.NoSuchKey{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapRemoteError(tt.err, "read", "/a/b.txt")
			assert.ErrorIs(t, err, ErrNotFound)

			var storageErr *StorageError
			require.ErrorAs(t, err, &storageErr)
			assert.Equal(t, "read", storageErr.Op)
			assert.Equal(t, "/a/b.txt", storageErr.Path)
		})
	}
}

func TestMapRemoteErrorAPICodes(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"NoSuchKey", ErrNotFound},
		{"NotFound", ErrNotFound},
		{"NoSuchBucket", ErrNotFound},
		{"AccessDenied", ErrAuthentication},
		{"InvalidAccessKeyId", ErrAuthentication},
		{"SignatureDoesNotMatch", ErrAuthentication},
		{"ExpiredToken", ErrAuthentication},
		{"InvalidToken", ErrAuthentication},
		{"TokenRefreshRequired", ErrAuthentication},
		{"SlowDown", ErrTimeout},
		{"RequestTimeout", ErrTimeout},
		{"ServiceUnavailable", ErrTimeout},
		{"InternalError", ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			apiErr := &smithy.GenericAPIError{Code: tt.code, Message: tt.code}
			err := mapRemoteError(apiErr, "write", "/x")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapRemoteErrorContext(t *testing.T) {
	err := mapRemoteError(context.DeadlineExceeded, "read", "/x")
	assert.ErrorIs(t, err, ErrTimeout)

	err = mapRemoteError(context.Canceled, "read", "/x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestMapRemoteErrorMessageFallback(t *testing.T) {
	tests := []struct {
		msg  string
		want error
	}{
		{"object does not exist", ErrNotFound},
		{"403 Forbidden", ErrAuthentication},
		{"request timeout while dialing", ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := mapRemoteError(errors.New(tt.msg), "read", "/x")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapRemoteErrorUnknownWrapped(t *testing.T) {
	cause := errors.New("wire dropped")
	err := mapRemoteError(cause, "read", "/x")

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrAuthentication)
}
