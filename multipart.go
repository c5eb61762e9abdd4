package bucketx

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// completedPart pairs a part number with the ETag the backend returned
type completedPart struct {
	number int32
	etag   string
}

// multipartUpload writes a large payload as a chunked multipart upload with
// bounded concurrency, aborting the upload on any part failure.
func (c *Client) multipartUpload(ctx context.Context, op, path, contentType string, data []byte) error {
	key := objectKey(path)

	partSize := c.cfg.PartSize
	if partSize < 5<<20 { // 5MB minimum for S3
		partSize = 5 << 20
	}
	concurrency := c.cfg.PartConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	uploadToken := uuid.New().String()
	c.logger.Info("starting multipart upload",
		"path", path,
		"upload_token", uploadToken,
		"size", len(data),
		"part_size", partSize,
		"concurrency", concurrency)

	createInput := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		createInput.ContentType = aws.String(contentType)
	}

	created, err := c.s3.CreateMultipartUpload(ctx, createInput)
	if err != nil {
		return mapRemoteError(err, op, path)
	}
	uploadID := aws.ToString(created.UploadId)

	parts, err := c.uploadParts(ctx, key, uploadID, data, partSize, concurrency)
	if err != nil {
		if _, abortErr := c.s3.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
			Bucket:   aws.String(c.cfg.Bucket),
			Key:      aws.String(key),
			UploadId: aws.String(uploadID),
		}); abortErr != nil {
			c.logger.Warn("failed to abort multipart upload",
				"path", path,
				"upload_id", uploadID,
				"error", abortErr)
		}
		return mapRemoteError(err, op, path)
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].number < parts[j].number })

	completed := make([]types.CompletedPart, len(parts))
	for i, p := range parts {
		completed[i] = types.CompletedPart{
			PartNumber: aws.Int32(p.number),
			ETag:       aws.String(p.etag),
		}
	}

	if _, err := c.s3.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(c.cfg.Bucket),
		Key:             aws.String(key),
		UploadId:        aws.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{Parts: completed},
	}); err != nil {
		return mapRemoteError(err, op, path)
	}

	c.inst.observeSize(op, len(data))
	c.logger.Info("multipart upload completed",
		"path", path,
		"upload_id", uploadID,
		"parts", len(parts),
		"size", len(data))
	return nil
}

// uploadParts chunks the payload and uploads the parts with a worker pool
func (c *Client) uploadParts(ctx context.Context, key, uploadID string, data []byte, partSize int64, concurrency int) ([]completedPart, error) {
	type task struct {
		number int32
		chunk  []byte
	}

	numParts := int32((int64(len(data)) + partSize - 1) / partSize)
	tasks := make(chan task, numParts)
	for n := int32(0); n < numParts; n++ {
		lo := int64(n) * partSize
		hi := lo + partSize
		if hi > int64(len(data)) {
			hi = int64(len(data))
		}
		tasks <- task{number: n + 1, chunk: data[lo:hi]}
	}
	close(tasks)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		parts    []completedPart
		firstErr error
	)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				if ctx.Err() != nil {
					return
				}
				output, err := c.s3.UploadPart(ctx, &s3.UploadPartInput{
					Bucket:     aws.String(c.cfg.Bucket),
					Key:        aws.String(key),
					UploadId:   aws.String(uploadID),
					PartNumber: aws.Int32(t.number),
					Body:       bytes.NewReader(t.chunk),
				})

				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = fmt.Errorf("part %d: %w", t.number, err)
					}
					mu.Unlock()
					cancel()
					return
				}
				parts = append(parts, completedPart{
					number: t.number,
					etag:   aws.ToString(output.ETag),
				})
				mu.Unlock()

				c.logger.Debug("part uploaded", "part_number", t.number, "size", len(t.chunk))
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return parts, nil
}
