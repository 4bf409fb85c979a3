package weather

import "fmt"

// TimestampLayout is the collection-time layout carried by records. It is
// UTC and colon-free so the same string doubles as a storage key segment.
const TimestampLayout = "2006-01-02T15-04-05Z"

// Record is one city's weather observation at a point in time.
//
// Records are write-once: the fetcher creates one per API response and the
// sink consumes it; nothing mutates a record afterwards.
type Record struct {
	City        string  `json:"city" parquet:"name=city"`
	Timestamp   string  `json:"timestamp" parquet:"name=timestamp"`
	Temperature float64 `json:"temperature" parquet:"name=temperature"`
	Humidity    int     `json:"humidity" parquet:"name=humidity"`
	Condition   string  `json:"condition" parquet:"name=condition"`
}

// FetchError reports a failed weather lookup for one city: a network
// failure, a non-success status, or a response missing expected fields.
type FetchError struct {
	City string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch weather for %q: %v", e.City, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
