package bucketx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
)

// ReadZip downloads a zip archive and returns the content of one member.
// An empty name selects the first file entry in the archive. A missing
// member surfaces as ErrNotFound; a corrupt archive as ErrFormat.
func (c *Client) ReadZip(ctx context.Context, path, name string) ([]byte, error) {
	path = NormalizePath(path)

	data, err := c.download(ctx, "read_zip", path)
	if err != nil {
		return nil, err
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, formatError("read_zip", path, err)
	}

	var member *zip.File
	for _, f := range archive.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if name == "" || f.Name == name {
			member = f
			break
		}
	}
	if member == nil {
		return nil, &StorageError{
			Op:   "read_zip",
			Path: path,
			Err:  fmt.Errorf("%w: no entry %q in archive", ErrNotFound, name),
		}
	}

	rc, err := member.Open()
	if err != nil {
		return nil, formatError("read_zip", path, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, formatError("read_zip", path, err)
	}

	c.logger.Debug("zip member read", "path", path, "member", member.Name, "size", len(content))
	return content, nil
}
