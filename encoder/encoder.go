package encoder

import "context"

// Encoder converts one typed record into a storable payload.
//
// Implementations must be safe for concurrent use unless documented otherwise.
type Encoder[iType any] interface {
	Encode(ctx context.Context, item iType) (data []byte, err error)
	FileExtension() string
	ContentType() string
}
