package bucketx

import (
	"bytes"
	"context"

	"gopkg.in/yaml.v3"
)

// WriteYAML serializes an ordered mapping to YAML and uploads it,
// overwriting any existing object at path. Key order is preserved exactly.
func (c *Client) WriteYAML(ctx context.Context, data Mapping, path string) error {
	path = NormalizePath(path)
	c.logger.Info("exporting yaml", "path", path)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(4)
	if err := enc.Encode(data); err != nil {
		return formatError("write_yaml", path, err)
	}
	if err := enc.Close(); err != nil {
		return formatError("write_yaml", path, err)
	}

	return c.upload(ctx, "write_yaml", path, "application/yaml", buf.Bytes())
}

// ReadYAML downloads the object at path and decodes it as an ordered
// mapping. Malformed documents surface as ErrFormat.
func (c *Client) ReadYAML(ctx context.Context, path string) (Mapping, error) {
	path = NormalizePath(path)

	data, err := c.download(ctx, "read_yaml", path)
	if err != nil {
		return nil, err
	}

	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, formatError("read_yaml", path, err)
	}
	return m, nil
}
