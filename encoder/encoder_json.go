package encoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// JSONEncoder serializes a record as a single JSON document.
type JSONEncoder[iType any] struct{}

func (JSONEncoder[iType]) FileExtension() string { return ".json" }

func (JSONEncoder[iType]) ContentType() string { return "application/json" }

func (JSONEncoder[iType]) Encode(ctx context.Context, item iType) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(item); err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}

	// Encode appends a newline; the stored document should not carry it.
	b := buf.Bytes()
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}
	return b, nil
}
