package bucketx

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVOptions enumerates the supported csv codec options
type CSVOptions struct {
	// Comma is the field delimiter (default ',')
	Comma rune

	// NoHeader writes/reads the data without a header row; columns are then
	// named col1..colN on read
	NoHeader bool
}

func (o *CSVOptions) comma() rune {
	if o == nil || o.Comma == 0 {
		return ','
	}
	return o.Comma
}

func (o *CSVOptions) noHeader() bool { return o != nil && o.NoHeader }

// WriteCSV serializes the frame as csv and uploads it, overwriting any
// existing object at path. Nulls render as empty fields.
func (c *Client) WriteCSV(ctx context.Context, frame *Frame, path string, opts *CSVOptions) error {
	path = NormalizePath(path)
	c.logger.Info("exporting csv", "path", path)

	if err := frame.validate(); err != nil {
		return formatError("write_csv", path, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = opts.comma()

	if !opts.noHeader() {
		if err := w.Write(frame.Names()); err != nil {
			return formatError("write_csv", path, err)
		}
	}

	record := make([]string, frame.NumCols())
	for r := 0; r < frame.NumRows(); r++ {
		for i, col := range frame.Columns() {
			record[i] = formatCell(col.Values[r])
		}
		if err := w.Write(record); err != nil {
			return formatError("write_csv", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return formatError("write_csv", path, err)
	}

	return c.upload(ctx, "write_csv", path, "text/csv", buf.Bytes())
}

// ReadCSV downloads the object at path and rebuilds a frame from it. Cell
// types are inferred per column, like ReadExcel.
func (c *Client) ReadCSV(ctx context.Context, path string, opts *CSVOptions) (*Frame, error) {
	path = NormalizePath(path)

	data, err := c.download(ctx, "read_csv", path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = opts.comma()
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, formatError("read_csv", path, err)
	}

	var names []string
	if !opts.noHeader() {
		if len(records) == 0 {
			return nil, formatError("read_csv", path, fmt.Errorf("document has no header row"))
		}
		names = records[0]
		records = records[1:]
	} else {
		width := 0
		for _, record := range records {
			if len(record) > width {
				width = len(record)
			}
		}
		names = make([]string, width)
		for i := range names {
			names[i] = "col" + strconv.Itoa(i+1)
		}
	}

	columns := make([]Column, len(names))
	for ci, name := range names {
		cells := make([]string, len(records))
		for ri, record := range records {
			if ci < len(record) {
				cells[ri] = record[ci]
			}
		}
		columns[ci] = inferColumn(name, cells)
	}

	frame, err := NewFrame(columns...)
	if err != nil {
		return nil, formatError("read_csv", path, err)
	}
	return frame, nil
}
