package bucketx

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// ExcelOptions enumerates the supported spreadsheet codec options. Explicit
// fields replace the original free-form option pass-through so unsupported
// combinations fail at compile time instead of inside the codec.
type ExcelOptions struct {
	// Sheet is the worksheet to read or write (default "Sheet1")
	Sheet string

	// NoHeader writes/reads the data without a header row; columns are then
	// named col1..colN on read
	NoHeader bool

	// Index writes a leading positional index column, and on read treats the
	// first column as that index and drops it
	Index bool
}

func (o *ExcelOptions) sheet() string {
	if o == nil || o.Sheet == "" {
		return defaultSheet
	}
	return o.Sheet
}

func (o *ExcelOptions) noHeader() bool { return o != nil && o.NoHeader }
func (o *ExcelOptions) index() bool    { return o != nil && o.Index }

// WriteExcel serializes the frame as an xlsx workbook in memory and uploads
// it, overwriting any existing object at path. Typed cells are written
// natively (numbers as numbers, bools as bools); note that xlsx itself does
// not preserve column dtypes exactly, use parquet for that.
func (c *Client) WriteExcel(ctx context.Context, frame *Frame, path string, opts *ExcelOptions) error {
	path = NormalizePath(path)
	c.logger.Info("exporting excel", "path", path)

	if err := frame.validate(); err != nil {
		return formatError("write_excel", path, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.sheet()
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return formatError("write_excel", path, err)
		}
	}

	row := 1
	colOffset := 0
	if opts.index() {
		colOffset = 1
	}

	if !opts.noHeader() {
		header := make([]any, 0, frame.NumCols()+colOffset)
		if opts.index() {
			header = append(header, "")
		}
		for _, name := range frame.Names() {
			header = append(header, name)
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return formatError("write_excel", path, err)
		}
		row++
	}

	for r := 0; r < frame.NumRows(); r++ {
		cells := make([]any, 0, frame.NumCols()+colOffset)
		if opts.index() {
			cells = append(cells, int64(r))
		}
		for _, col := range frame.Columns() {
			cells = append(cells, excelCell(col.Values[r]))
		}
		addr, err := excelize.CoordinatesToCellName(1, row+r)
		if err != nil {
			return formatError("write_excel", path, err)
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return formatError("write_excel", path, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return formatError("write_excel", path, err)
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	return c.upload(ctx, "write_excel", path, contentType, buf.Bytes())
}

// ReadExcel downloads the object at path, decodes the selected worksheet,
// and rebuilds a frame. Cell types are inferred per column; a corrupt
// workbook surfaces as ErrFormat.
func (c *Client) ReadExcel(ctx context.Context, path string, opts *ExcelOptions) (*Frame, error) {
	path = NormalizePath(path)

	data, err := c.download(ctx, "read_excel", path)
	if err != nil {
		return nil, err
	}
	return decodeExcelSheet(data, path, opts.sheet(), opts)
}

// ReadExcelSheets downloads a workbook once and decodes several worksheets,
// keyed by sheet name.
func (c *Client) ReadExcelSheets(ctx context.Context, path string, sheets []string, opts *ExcelOptions) (map[string]*Frame, error) {
	path = NormalizePath(path)

	data, err := c.download(ctx, "read_excel", path)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*Frame, len(sheets))
	for _, sheet := range sheets {
		frame, err := decodeExcelSheet(data, path, sheet, opts)
		if err != nil {
			return nil, err
		}
		out[sheet] = frame
	}
	return out, nil
}

func decodeExcelSheet(data []byte, path, sheet string, opts *ExcelOptions) (*Frame, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, formatError("read_excel", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, formatError("read_excel", path, err)
	}

	var names []string
	if !opts.noHeader() {
		if len(rows) == 0 {
			return nil, formatError("read_excel", path, fmt.Errorf("sheet %q has no header row", sheet))
		}
		names = rows[0]
		rows = rows[1:]
	} else {
		width := 0
		for _, row := range rows {
			if len(row) > width {
				width = len(row)
			}
		}
		names = make([]string, width)
		for i := range names {
			names[i] = "col" + strconv.Itoa(i+1)
		}
	}

	if opts.index() && len(names) > 0 {
		names = names[1:]
		trimmed := make([][]string, len(rows))
		for i, row := range rows {
			if len(row) > 0 {
				trimmed[i] = row[1:]
			}
		}
		rows = trimmed
	}

	columns := make([]Column, len(names))
	for ci, name := range names {
		cells := make([]string, len(rows))
		for ri, row := range rows {
			if ci < len(row) {
				cells[ri] = row[ci]
			}
		}
		columns[ci] = inferColumn(name, cells)
	}

	frame, err := NewFrame(columns...)
	if err != nil {
		return nil, formatError("read_excel", path, err)
	}
	return frame, nil
}

// excelCell converts a frame cell into the value handed to excelize
func excelCell(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		// Keep timestamps as RFC3339 text so they round-trip without sheet
		// style handling
		return x.UTC().Format(time.RFC3339)
	default:
		return x
	}
}
