package bucketx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
	"github.com/parquet-go/parquet-go/compress/gzip"
	"github.com/parquet-go/parquet-go/compress/snappy"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// ParquetOptions enumerates the supported columnar codec options
type ParquetOptions struct {
	// Compression selects the page compression codec: "snappy" (default),
	// "gzip", "zstd", or "none"
	Compression string
}

func (o *ParquetOptions) codec() (compress.Codec, error) {
	name := "snappy"
	if o != nil && o.Compression != "" {
		name = o.Compression
	}
	switch name {
	case "snappy":
		return &snappy.Codec{}, nil
	case "gzip":
		return &gzip.Codec{}, nil
	case "zstd":
		return &zstd.Codec{}, nil
	case "none", "uncompressed":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported parquet compression %q", name)
	}
}

// WriteParquet serializes the frame to parquet in memory and uploads it,
// overwriting any existing object at path. Column dtypes are written as
// matching parquet logical types so a round trip preserves them exactly.
// Note the parquet schema orders columns by name.
func (c *Client) WriteParquet(ctx context.Context, frame *Frame, path string, opts *ParquetOptions) error {
	path = NormalizePath(path)
	c.logger.Info("exporting parquet", "path", path)

	if err := frame.validate(); err != nil {
		return formatError("write_parquet", path, err)
	}

	codec, err := opts.codec()
	if err != nil {
		return formatError("write_parquet", path, err)
	}

	group := parquet.Group{}
	for _, col := range frame.Columns() {
		node, err := parquetNode(col.Type)
		if err != nil {
			return formatError("write_parquet", path, err)
		}
		group[col.Name] = parquet.Optional(node)
	}
	schema := parquet.NewSchema("frame", group)

	// The schema sorts fields by name; build rows in schema order
	fields := schema.Fields()
	columns := make([]Column, len(fields))
	for i, field := range fields {
		col, ok := frame.Column(field.Name())
		if !ok {
			return formatError("write_parquet", path, fmt.Errorf("schema field %q has no column", field.Name()))
		}
		columns[i] = col
	}

	rows := make([]parquet.Row, frame.NumRows())
	for r := range rows {
		row := make(parquet.Row, 0, len(columns))
		for i, col := range columns {
			cell := col.Values[r]
			if cell == nil {
				row = append(row, parquet.ValueOf(nil).Level(0, 0, i))
				continue
			}
			row = append(row, parquet.ValueOf(parquetCell(col.Type, cell)).Level(0, 1, i))
		}
		rows[r] = row
	}

	writerOptions := []parquet.WriterOption{schema}
	if codec != nil {
		writerOptions = append(writerOptions, parquet.Compression(codec))
	}

	var buf bytes.Buffer
	writer := parquet.NewGenericWriter[map[string]any](&buf, writerOptions...)
	if _, err := writer.WriteRows(rows); err != nil {
		return formatError("write_parquet", path, err)
	}
	if err := writer.Close(); err != nil {
		return formatError("write_parquet", path, err)
	}

	return c.upload(ctx, "write_parquet", path, "application/vnd.apache.parquet", buf.Bytes())
}

// ReadParquet downloads the object at path and rebuilds a frame from it.
// Dtypes are taken from the file's logical types, not inferred.
func (c *Client) ReadParquet(ctx context.Context, path string, opts *ParquetOptions) (*Frame, error) {
	path = NormalizePath(path)

	data, err := c.download(ctx, "read_parquet", path)
	if err != nil {
		return nil, err
	}

	file, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, formatError("read_parquet", path, err)
	}

	fields := file.Schema().Fields()
	columns := make([]Column, len(fields))
	for i, field := range fields {
		dtype, err := dtypeOf(field)
		if err != nil {
			return nil, formatError("read_parquet", path, err)
		}
		columns[i] = Column{Name: field.Name(), Type: dtype}
	}

	for _, rowGroup := range file.RowGroups() {
		reader := rowGroup.Rows()
		buf := make([]parquet.Row, 64)
		for {
			n, err := reader.ReadRows(buf)
			for _, row := range buf[:n] {
				for _, value := range row {
					ci := value.Column()
					if ci < 0 || ci >= len(columns) {
						reader.Close()
						return nil, formatError("read_parquet", path, fmt.Errorf("value for unknown column %d", ci))
					}
					cell, cerr := frameCell(columns[ci].Type, fields[ci], value)
					if cerr != nil {
						reader.Close()
						return nil, formatError("read_parquet", path, cerr)
					}
					columns[ci].Values = append(columns[ci].Values, cell)
				}
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				reader.Close()
				return nil, formatError("read_parquet", path, err)
			}
		}
		reader.Close()
	}

	frame, err := NewFrame(columns...)
	if err != nil {
		return nil, formatError("read_parquet", path, err)
	}
	return frame, nil
}

// parquetNode maps a Dtype to its parquet schema node
func parquetNode(dtype Dtype) (parquet.Node, error) {
	switch dtype {
	case String:
		return parquet.String(), nil
	case Int64:
		return parquet.Int(64), nil
	case Float64:
		return parquet.Leaf(parquet.DoubleType), nil
	case Bool:
		return parquet.Leaf(parquet.BooleanType), nil
	case Timestamp:
		return parquet.Timestamp(parquet.Millisecond), nil
	default:
		return nil, fmt.Errorf("unsupported dtype %q", dtype)
	}
}

// parquetCell converts a frame cell to the physical value stored in parquet
func parquetCell(dtype Dtype, v any) any {
	if dtype == Timestamp {
		return v.(time.Time).UnixMilli()
	}
	return v
}

// dtypeOf recovers the Dtype of a leaf field from its logical, then
// physical, type
func dtypeOf(field parquet.Field) (Dtype, error) {
	if !field.Leaf() {
		return "", fmt.Errorf("nested field %q is not supported", field.Name())
	}

	t := field.Type()
	if logical := t.LogicalType(); logical != nil {
		switch {
		case logical.UTF8 != nil:
			return String, nil
		case logical.Timestamp != nil:
			return Timestamp, nil
		}
	}

	switch t.Kind() {
	case parquet.Boolean:
		return Bool, nil
	case parquet.Int32, parquet.Int64:
		return Int64, nil
	case parquet.Float, parquet.Double:
		return Float64, nil
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return String, nil
	default:
		return "", fmt.Errorf("unsupported parquet kind %v for field %q", t.Kind(), field.Name())
	}
}

// frameCell converts a parquet value back into a frame cell
func frameCell(dtype Dtype, field parquet.Field, v parquet.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}

	switch dtype {
	case String:
		return string(v.ByteArray()), nil
	case Int64:
		return v.Int64(), nil
	case Float64:
		return v.Double(), nil
	case Bool:
		return v.Boolean(), nil
	case Timestamp:
		return timestampCell(field, v.Int64()), nil
	default:
		return nil, fmt.Errorf("unsupported dtype %q", dtype)
	}
}

// timestampCell decodes a raw timestamp honoring the file's declared unit
func timestampCell(field parquet.Field, raw int64) time.Time {
	logical := field.Type().LogicalType()
	if logical != nil && logical.Timestamp != nil {
		unit := logical.Timestamp.Unit
		switch {
		case unit.Micros != nil:
			return time.UnixMicro(raw).UTC()
		case unit.Nanos != nil:
			return time.Unix(0, raw).UTC()
		}
	}
	return time.UnixMilli(raw).UTC()
}
