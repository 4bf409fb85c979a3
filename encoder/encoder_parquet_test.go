package encoder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/FlxBot001/weather-collector/weather"
)

func readAllParquet[T any](t *testing.T, b []byte) ([]T, error) {
	t.Helper()

	r := parquet.NewGenericReader[T](bytes.NewReader(b))
	defer r.Close()

	buf := make([]T, 8)
	out := make([]T, 0, 8)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func TestParquetEncoder_FileExtension(t *testing.T) {
	e := ParquetEncoder[weather.Record]{}
	if got := e.FileExtension(); got != ".parquet" {
		t.Fatalf("FileExtension() = %q; want %q", got, ".parquet")
	}
}

func TestParquetEncoder_EncodeRoundTrip(t *testing.T) {
	rec := weather.Record{
		City:        "New York",
		Timestamp:   "2026-08-23T12-30-45Z",
		Temperature: 88.2,
		Humidity:    41,
		Condition:   "Clear",
	}

	for _, compression := range []string{"", "snappy", "gzip", "zstd"} {
		t.Run("compression="+compression, func(t *testing.T) {
			e := ParquetEncoder[weather.Record]{Compression: compression}
			data, err := e.Encode(context.Background(), rec)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			rows, err := readAllParquet[weather.Record](t, data)
			if err != nil {
				t.Fatalf("read back: %v", err)
			}
			if len(rows) != 1 {
				t.Fatalf("rows=%d want=1", len(rows))
			}
			if rows[0] != rec {
				t.Fatalf("round trip mismatch: got %+v want %+v", rows[0], rec)
			}
		})
	}
}

func TestParquetEncoder_UnsupportedCompression(t *testing.T) {
	e := ParquetEncoder[weather.Record]{Compression: "brotli"}
	if _, err := e.Encode(context.Background(), weather.Record{}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestParquetEncoder_ContextCanceledBefore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := ParquetEncoder[weather.Record]{}
	if _, err := e.Encode(ctx, weather.Record{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
