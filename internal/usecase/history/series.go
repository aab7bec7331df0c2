package history

import (
	"time"

	historyv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/history/v1"
)

// series is the ring of buckets of one venue-item pair. A slot is reused
// once time moves a full ring past it.
type series struct {
	width   time.Duration
	buckets []historyv1.Bucket
}

func newSeries(cfg historyv1.Config) *series {
	return &series{
		width:   cfg.Width,
		buckets: make([]historyv1.Bucket, cfg.Buckets),
	}
}

// start returns the beginning of the bucket holding at.
func (s *series) start(at time.Time) time.Time {
	return at.Truncate(s.width)
}

func (s *series) slot(start time.Time) *historyv1.Bucket {
	n := start.Unix() / int64(s.width/time.Second)
	idx := n % int64(len(s.buckets))
	if idx < 0 {
		idx += int64(len(s.buckets))
	}
	return &s.buckets[idx]
}

// record adds a trade. Trades older than the slot's current occupant are
// outside the ring and dropped.
func (s *series) record(at time.Time, trade historyv1.Entry) bool {
	start := s.start(at)
	b := s.slot(start)
	switch {
	case b.Start.Equal(start):
	case b.Start.IsZero() || b.Start.Before(start):
		*b = historyv1.Bucket{Start: start}
	default:
		return false
	}
	b.Entry = historyv1.Merge(b.Entry, trade)
	return true
}

func (s *series) point(at time.Time) historyv1.Entry {
	start := s.start(at)
	b := s.slot(start)
	if !b.Start.Equal(start) {
		return historyv1.Entry{}
	}
	return b.Entry
}

// window merges every bucket intersecting [from, to), each weighted by the
// fraction of it inside the range.
func (s *series) window(from, to time.Time) historyv1.Entry {
	var out historyv1.Entry
	if !to.After(from) {
		return out
	}
	for i := range s.buckets {
		b := &s.buckets[i]
		if b.IsEmpty() {
			continue
		}
		end := b.Start.Add(s.width)
		lo, hi := later(b.Start, from), earlier(end, to)
		if !hi.After(lo) {
			continue
		}
		fraction := float64(hi.Sub(lo)) / float64(s.width)
		out = historyv1.Merge(out, b.Entry.Scale(fraction))
	}
	return out
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
