package collector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FlxBot001/weather-collector/encoder"
	"github.com/FlxBot001/weather-collector/sink"
	"github.com/FlxBot001/weather-collector/weather"
)

// Fetcher produces one weather record for a city.
type Fetcher interface {
	Fetch(ctx context.Context, city string) (weather.Record, error)
}

// KeyFunc derives the storage key for one record. Keys must be unique per
// (city, timestamp) pair so distinct observations never overwrite each other.
type KeyFunc func(rec weather.Record, ext string) string

// DefaultKeyFunc keys records by city and collection timestamp.
func DefaultKeyFunc(rec weather.Record, ext string) string {
	return fmt.Sprintf("%s/%s%s", rec.City, rec.Timestamp, ext)
}

// Result is the outcome for one city: the key it was stored under, or the
// error that stopped it.
type Result struct {
	City string
	Key  string
	Err  error
}

// Summary tallies one full pass over the city list.
type Summary struct {
	Results   []Result
	Succeeded int
	Failed    int
}

// Collector runs the fetch-encode-store pass over a list of cities.
type Collector struct {
	fetcher Fetcher
	encoder encoder.Encoder[weather.Record]
	sink    sink.Sinkr
	keyFn   KeyFunc
	retry   RetryPolicy
	log     *slog.Logger
}

func New(fetcher Fetcher, enc encoder.Encoder[weather.Record], snk sink.Sinkr, logger *slog.Logger) (*Collector, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is nil")
	}
	if enc == nil {
		return nil, fmt.Errorf("encoder is nil")
	}
	if snk == nil {
		return nil, fmt.Errorf("sink is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Collector{
		fetcher: fetcher,
		encoder: enc,
		sink:    snk,
		keyFn:   DefaultKeyFunc,
		retry:   nopRetry{},
		log:     logger,
	}, nil
}

func (c *Collector) SetKeyFunc(fn KeyFunc) {
	if fn != nil {
		c.keyFn = fn
	}
}

// SetRetryPolicy wraps the fetch call only; storage writes stay single-shot.
func (c *Collector) SetRetryPolicy(p RetryPolicy) {
	if p == nil {
		c.retry = nopRetry{}
		return
	}
	c.retry = p
}

// Run attempts each city exactly once, in order, fetch-then-store. A city's
// failure is logged and tallied but never aborts the pass.
func (c *Collector) Run(ctx context.Context, cities []string) Summary {
	var sum Summary
	sum.Results = make([]Result, 0, len(cities))

	for _, city := range cities {
		res := c.collect(ctx, city)
		sum.Results = append(sum.Results, res)

		if res.Err != nil {
			sum.Failed++
			c.log.Error("collect failed", "city", city, "err", res.Err)
			continue
		}
		sum.Succeeded++
		c.log.Info("record stored", "city", city, "key", res.Key)
	}
	return sum
}

func (c *Collector) collect(ctx context.Context, city string) Result {
	var rec weather.Record
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		var ferr error
		rec, ferr = c.fetcher.Fetch(ctx, city)
		return ferr
	})
	if err != nil {
		return Result{City: city, Err: err}
	}

	data, err := c.encoder.Encode(ctx, rec)
	if err != nil {
		return Result{City: city, Err: fmt.Errorf("encode record: %w", err)}
	}

	key := c.keyFn(rec, c.encoder.FileExtension())
	req := sink.WriteRequest{Key: key, Data: data, ContentType: c.encoder.ContentType()}
	if err := c.sink.Write(ctx, req); err != nil {
		return Result{City: city, Key: key, Err: err}
	}

	return Result{City: city, Key: key}
}
