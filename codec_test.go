package bucketx_test

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gostratum/bucketx"
)

func TestYAMLRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	doc := bucketx.Mapping{
		{Key: "zebra", Value: "first"},
		{Key: "count", Value: 4},
		{Key: "nested", Value: bucketx.Mapping{
			{Key: "b", Value: 2},
			{Key: "a", Value: 1},
		}},
	}

	require.NoError(t, client.WriteYAML(ctx, doc, "/conf/app.yaml"))

	got, err := client.ReadYAML(ctx, "/conf/app.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"zebra", "count", "nested"}, got.Keys())
	assert.Equal(t, doc, got)
}

func TestReadYAMLMalformed(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.WriteFile(ctx, "a: [unclosed", "/conf/broken.yaml"))

	_, err := client.ReadYAML(ctx, "/conf/broken.yaml")
	require.Error(t, err)
	assert.True(t, bucketx.IsFormat(err))
}

func TestExcelRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	frame, err := bucketx.NewFrame(
		bucketx.StringColumn("label", "A", "B", "C", "D", "E"),
		bucketx.Int64Column("count", 10, 20, 30, 40, 50),
		bucketx.Float64Column("score", 1.5, 2.5, 3.5, 4.5, 5.5),
	)
	require.NoError(t, err)

	require.NoError(t, client.WriteExcel(ctx, frame, "/sheets/data.xlsx", nil))

	got, err := client.ReadExcel(ctx, "/sheets/data.xlsx", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"label", "count", "score"}, got.Names())
	assert.Equal(t, 5, got.NumRows())

	label, ok := got.Column("label")
	require.True(t, ok)
	assert.Equal(t, bucketx.String, label.Type)
	assert.Equal(t, []any{"A", "B", "C", "D", "E"}, label.Values)

	count, ok := got.Column("count")
	require.True(t, ok)
	assert.Equal(t, bucketx.Int64, count.Type)
	assert.Equal(t, []any{int64(10), int64(20), int64(30), int64(40), int64(50)}, count.Values)

	score, ok := got.Column("score")
	require.True(t, ok)
	assert.Equal(t, bucketx.Float64, score.Type)
}

func TestExcelRoundTripWithIndex(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	frame, err := bucketx.NewFrame(bucketx.StringColumn("v", "x", "y"))
	require.NoError(t, err)

	opts := &bucketx.ExcelOptions{Index: true}
	require.NoError(t, client.WriteExcel(ctx, frame, "/sheets/indexed.xlsx", opts))

	// the index column written on export is dropped again on import
	got, err := client.ReadExcel(ctx, "/sheets/indexed.xlsx", opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"v"}, got.Names())

	v, ok := got.Column("v")
	require.True(t, ok)
	assert.Equal(t, []any{"x", "y"}, v.Values)
}

func TestExcelCustomSheet(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	frame, err := bucketx.NewFrame(bucketx.Int64Column("n", 7))
	require.NoError(t, err)

	opts := &bucketx.ExcelOptions{Sheet: "metrics"}
	require.NoError(t, client.WriteExcel(ctx, frame, "/sheets/named.xlsx", opts))

	got, err := client.ReadExcel(ctx, "/sheets/named.xlsx", opts)
	require.NoError(t, err)
	assert.Equal(t, 1, got.NumRows())

	frames, err := client.ReadExcelSheets(ctx, "/sheets/named.xlsx", []string{"metrics"}, opts)
	require.NoError(t, err)
	require.Contains(t, frames, "metrics")
	assert.Equal(t, 1, frames["metrics"].NumRows())
}

func TestReadExcelCorrupt(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.WriteFile(ctx, "this is not a workbook", "/sheets/bad.xlsx"))

	_, err := client.ReadExcel(ctx, "/sheets/bad.xlsx", nil)
	require.Error(t, err)
	assert.True(t, bucketx.IsFormat(err))
}

func TestParquetRoundTripPreservesDtypes(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	ts := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	frame, err := bucketx.NewFrame(
		bucketx.StringColumn("name", "alpha", "beta"),
		bucketx.Int64Column("count", 1, 2),
		bucketx.Float64Column("ratio", 0.5, 0.25),
		bucketx.BoolColumn("active", true, false),
		bucketx.TimestampColumn("seen", ts, ts.Add(time.Hour)),
	)
	require.NoError(t, err)

	require.NoError(t, client.WriteParquet(ctx, frame, "/tables/t.parquet", nil))

	got, err := client.ReadParquet(ctx, "/tables/t.parquet", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumRows())

	for name, want := range map[string]bucketx.Dtype{
		"name":   bucketx.String,
		"count":  bucketx.Int64,
		"ratio":  bucketx.Float64,
		"active": bucketx.Bool,
		"seen":   bucketx.Timestamp,
	} {
		col, ok := got.Column(name)
		require.True(t, ok, "missing column %q", name)
		assert.Equal(t, want, col.Type, "column %q", name)
	}

	seen, _ := got.Column("seen")
	assert.Equal(t, []any{ts, ts.Add(time.Hour)}, seen.Values)

	active, _ := got.Column("active")
	assert.Equal(t, []any{true, false}, active.Values)
}

func TestParquetRoundTripNulls(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	frame, err := bucketx.NewFrame(
		bucketx.Column{Name: "maybe", Type: bucketx.Int64, Values: []any{int64(1), nil, int64(3)}},
	)
	require.NoError(t, err)

	require.NoError(t, client.WriteParquet(ctx, frame, "/tables/nulls.parquet", nil))

	got, err := client.ReadParquet(ctx, "/tables/nulls.parquet", nil)
	require.NoError(t, err)

	col, ok := got.Column("maybe")
	require.True(t, ok)
	assert.Equal(t, []any{int64(1), nil, int64(3)}, col.Values)
}

func TestParquetCompressionCodecs(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	frame, err := bucketx.NewFrame(bucketx.StringColumn("v", "one", "two", "three"))
	require.NoError(t, err)

	for _, codec := range []string{"snappy", "gzip", "zstd", "none"} {
		t.Run(codec, func(t *testing.T) {
			opts := &bucketx.ParquetOptions{Compression: codec}
			path := "/tables/" + codec + ".parquet"

			require.NoError(t, client.WriteParquet(ctx, frame, path, opts))

			got, err := client.ReadParquet(ctx, path, nil)
			require.NoError(t, err)
			col, ok := got.Column("v")
			require.True(t, ok)
			assert.Equal(t, []any{"one", "two", "three"}, col.Values)
		})
	}
}

func TestWriteParquetUnknownCompression(t *testing.T) {
	client := newTestClient(t)

	frame, err := bucketx.NewFrame(bucketx.Int64Column("n", 1))
	require.NoError(t, err)

	err = client.WriteParquet(context.Background(), frame, "/tables/x.parquet",
		&bucketx.ParquetOptions{Compression: "lz77"})
	require.Error(t, err)
	assert.True(t, bucketx.IsFormat(err))
}

func TestCSVRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	frame, err := bucketx.NewFrame(
		bucketx.StringColumn("city", "Oslo", "Lima"),
		bucketx.Int64Column("pop", 700000, 9700000),
	)
	require.NoError(t, err)

	require.NoError(t, client.WriteCSV(ctx, frame, "/tables/cities.csv", nil))

	got, err := client.ReadCSV(ctx, "/tables/cities.csv", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "pop"}, got.Names())

	pop, ok := got.Column("pop")
	require.True(t, ok)
	assert.Equal(t, bucketx.Int64, pop.Type)
	assert.Equal(t, []any{int64(700000), int64(9700000)}, pop.Values)
}

func TestCSVNoHeader(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.WriteFile(ctx, "1;x\n2;y\n", "/tables/raw.csv"))

	opts := &bucketx.CSVOptions{Comma: ';', NoHeader: true}
	got, err := client.ReadCSV(ctx, "/tables/raw.csv", opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"col1", "col2"}, got.Names())
	first, ok := got.Column("col1")
	require.True(t, ok)
	assert.Equal(t, bucketx.Int64, first.Type)
}

func buildZip(t *testing.T, members map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range members {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestReadZip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	archive := buildZip(t, map[string]string{"inner/data.txt": "zipped payload"})
	require.NoError(t, client.WriteBytes(ctx, archive, "/archives/a.zip"))

	got, err := client.ReadZip(ctx, "/archives/a.zip", "inner/data.txt")
	require.NoError(t, err)
	assert.Equal(t, "zipped payload", string(got))

	// empty member name picks the first file entry
	got, err = client.ReadZip(ctx, "/archives/a.zip", "")
	require.NoError(t, err)
	assert.Equal(t, "zipped payload", string(got))
}

func TestReadZipMissingMember(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	archive := buildZip(t, map[string]string{"a.txt": "x"})
	require.NoError(t, client.WriteBytes(ctx, archive, "/archives/b.zip"))

	_, err := client.ReadZip(ctx, "/archives/b.zip", "nope.txt")
	require.Error(t, err)
	assert.True(t, bucketx.IsNotFound(err))
}

func TestReadZipCorrupt(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.WriteBytes(ctx, []byte("not a zip archive"), "/archives/c.zip"))

	_, err := client.ReadZip(ctx, "/archives/c.zip", "")
	require.Error(t, err)
	assert.True(t, bucketx.IsFormat(err))
}
