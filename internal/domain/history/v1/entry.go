package historyv1

import (
	"fmt"
	"time"
)

// Entry summarises the trades of one bucket or of a merged range.
// Volume is fractional once a bucket is weighted by a partial overlap.
type Entry struct {
	Volume float64 `json:"volume"`
	Min    int64   `json:"min"`
	Mean   float64 `json:"mean"`
	Max    int64   `json:"max"`
}

// IsEmpty reports whether the entry saw no volume.
func (e Entry) IsEmpty() bool {
	return e.Volume <= 0
}

// Trade returns the entry of a single trade.
func Trade(price, quantity int64) Entry {
	return Entry{Volume: float64(quantity), Min: price, Mean: float64(price), Max: price}
}

// Merge combines two entries. Volume adds, min and max take the extremes and
// the mean is volume weighted. Empty entries are the identity.
func Merge(a, b Entry) Entry {
	if b.IsEmpty() {
		return a
	}
	if a.IsEmpty() {
		return b
	}
	total := a.Volume + b.Volume
	return Entry{
		Volume: total,
		Min:    min(a.Min, b.Min),
		Mean:   a.Mean + (b.Mean-a.Mean)*(b.Volume/total),
		Max:    max(a.Max, b.Max),
	}
}

// Scale weights the entry's volume by fraction.
func (e Entry) Scale(fraction float64) Entry {
	if fraction <= 0 {
		return Entry{}
	}
	e.Volume *= fraction
	return e
}

// Bucket is an entry anchored to the start of its time slice.
type Bucket struct {
	Start time.Time `json:"start"`
	Entry
}

// Config sizes the per venue-item ring.
type Config struct {
	Buckets int           `env:"BUCKETS" envDefault:"40"`
	Width   time.Duration `env:"BUCKET_WIDTH" envDefault:"6h"`
}

// DefaultConfig keeps forty six-hour buckets, ten days of history.
func DefaultConfig() Config {
	return Config{Buckets: 40, Width: 6 * time.Hour}
}

// Validate checks the ring can be built.
func (c Config) Validate() error {
	if c.Buckets <= 0 {
		return fmt.Errorf("history buckets must be positive, got %d", c.Buckets)
	}
	if c.Width < time.Second || c.Width%time.Second != 0 {
		return fmt.Errorf("history bucket width must be a whole number of seconds, got %s", c.Width)
	}
	return nil
}

// Span returns the time covered by the whole ring.
func (c Config) Span() time.Duration {
	return time.Duration(c.Buckets) * c.Width
}

// Reader answers history queries per venue and across venues.
type Reader interface {
	Point(venue, item string, at time.Time) Entry
	Window(venue, item string, from, to time.Time) Entry
	PointAcross(venues []string, item string, at time.Time) Entry
	WindowAcross(venues []string, item string, from, to time.Time) Entry
}
