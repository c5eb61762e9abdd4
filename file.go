package bucketx

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Exists checks whether an object exists at path. A "not found" response is
// the normal false result; any other remote failure is surfaced as an error.
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	path = NormalizePath(path)

	_, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(objectKey(path)),
	})
	if err != nil {
		mapped := mapRemoteError(err, "exists", path)
		if IsNotFound(mapped) {
			return false, nil
		}
		return false, mapped
	}
	return true, nil
}

// List returns the immediate children of a folder, files and subfolders
// tagged as such, sorted by name. Listing a non-existent folder returns
// ErrNotFound; the bucket root is never considered missing.
func (c *Client) List(ctx context.Context, path string) ([]Entry, error) {
	path = NormalizePath(path)
	prefix := folderPrefix(path)

	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(c.cfg.Bucket),
		Delimiter: aws.String("/"),
		MaxKeys:   aws.Int32(1000),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var entries []Entry
	for {
		output, err := c.s3.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, mapRemoteError(err, "list", path)
		}

		for _, cp := range output.CommonPrefixes {
			name := baseName(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix))
			if name == "" {
				continue
			}
			entries = append(entries, Entry{Name: name, Type: EntryFolder})
		}

		for _, obj := range output.Contents {
			key := aws.ToString(obj.Key)
			// Skip the folder placeholder object, if any
			if key == prefix {
				continue
			}
			entry := Entry{
				Name: baseName(strings.TrimPrefix(key, prefix)),
				Type: EntryFile,
				Size: aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				entry.LastModified = *obj.LastModified
			}
			entries = append(entries, entry)
		}

		if !aws.ToBool(output.IsTruncated) {
			break
		}
		input.ContinuationToken = output.NextContinuationToken
	}

	if len(entries) == 0 && prefix != "" {
		return nil, &StorageError{Op: "list", Path: path, Err: ErrNotFound}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	c.logger.Debug("folder listed", "path", path, "entries", len(entries))
	return entries, nil
}

// Delete removes the object at path. Deleting a non-existent path surfaces
// ErrNotFound; callers wanting idempotent deletion should check Exists first.
func (c *Client) Delete(ctx context.Context, path string) error {
	path = NormalizePath(path)

	c.logger.Info("deleting object", "path", path)

	// The backend's delete succeeds silently for missing keys, so probe first
	// to keep the not-found contract
	if _, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(objectKey(path)),
	}); err != nil {
		return mapRemoteError(err, "delete", path)
	}

	if _, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(objectKey(path)),
	}); err != nil {
		return mapRemoteError(err, "delete", path)
	}
	return nil
}

// Move relocates an object by copying to the destination and deleting the
// origin. Not atomic: a failure between the two steps leaves both objects.
func (c *Client) Move(ctx context.Context, src, dst string) error {
	src = NormalizePath(src)
	dst = NormalizePath(dst)

	c.logger.Debug("moving object", "src", src, "dst", dst)

	source := c.cfg.Bucket + "/" + objectKey(src)
	if _, err := c.s3.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(c.cfg.Bucket),
		Key:        aws.String(objectKey(dst)),
		CopySource: aws.String(url.PathEscape(source)),
	}); err != nil {
		return mapRemoteError(err, "move", src)
	}

	if _, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(objectKey(src)),
	}); err != nil {
		return mapRemoteError(err, "move", src)
	}
	return nil
}

// WriteFile uploads text as a UTF-8 object, overwriting any existing object
func (c *Client) WriteFile(ctx context.Context, text, path string) error {
	path = NormalizePath(path)
	c.logger.Info("exporting file", "path", path)
	return c.upload(ctx, "write_file", path, "text/plain; charset=utf-8", []byte(text))
}

// ReadFile downloads the object at path as UTF-8 text
func (c *Client) ReadFile(ctx context.Context, path string) (string, error) {
	data, err := c.download(ctx, "read_file", NormalizePath(path))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteBytes uploads raw binary content, overwriting any existing object
func (c *Client) WriteBytes(ctx context.Context, data []byte, path string) error {
	path = NormalizePath(path)
	c.logger.Info("exporting file", "path", path)
	return c.upload(ctx, "write_bytes", path, "application/octet-stream", data)
}

// ReadBytes downloads the object at path as raw bytes
func (c *Client) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	return c.download(ctx, "read_bytes", NormalizePath(path))
}

// Stat returns the size and modification time of the object at path
func (c *Client) Stat(ctx context.Context, path string) (Entry, error) {
	path = NormalizePath(path)

	output, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(objectKey(path)),
	})
	if err != nil {
		return Entry{}, mapRemoteError(err, "stat", path)
	}

	entry := Entry{
		Name: baseName(objectKey(path)),
		Type: EntryFile,
		Size: aws.ToInt64(output.ContentLength),
	}
	if output.LastModified != nil {
		entry.LastModified = *output.LastModified
	}
	return entry, nil
}
