package historyv1

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestMerge(t *testing.T) {
	a := Entry{Volume: 2, Min: 8, Mean: 9, Max: 10}
	b := Entry{Volume: 6, Min: 11, Mean: 13, Max: 15}

	got := Merge(a, b)

	assert.Equal(t, 8.0, got.Volume)
	assert.Equal(t, int64(8), got.Min)
	assert.Equal(t, int64(15), got.Max)
	assert.InDelta(t, 12.0, got.Mean, 1e-9)

	assert.Equal(t, a, Merge(a, Entry{}))
	assert.Equal(t, b, Merge(Entry{}, b))
}

func TestMerge_SelfKeepsMean(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lo := rapid.Int64Range(0, 1_000_000).Draw(t, "min")
		hi := rapid.Int64Range(lo, 2_000_000).Draw(t, "max")
		e := Entry{
			Volume: float64(rapid.Int64Range(1, 1_000_000).Draw(t, "volume")),
			Min:    lo,
			Mean:   float64(rapid.Int64Range(lo, hi).Draw(t, "mean")),
			Max:    hi,
		}

		got := Merge(e, e)

		if got.Mean != e.Mean || got.Volume != 2*e.Volume || got.Min != e.Min || got.Max != e.Max {
			t.Fatalf("self merge of %+v gave %+v", e, got)
		}
	})
}

func TestMerge_OrderIndependent(t *testing.T) {
	entry := rapid.Custom(func(t *rapid.T) Entry {
		price := rapid.Int64Range(1, 1000).Draw(t, "price")
		qty := rapid.Int64Range(1, 100).Draw(t, "qty")
		return Trade(price, qty)
	})

	rapid.Check(t, func(t *rapid.T) {
		a, b, c := entry.Draw(t, "a"), entry.Draw(t, "b"), entry.Draw(t, "c")

		left := Merge(Merge(a, b), c)
		right := Merge(a, Merge(c, b))

		if left.Volume != right.Volume || left.Min != right.Min || left.Max != right.Max {
			t.Fatalf("merge depends on order: %+v vs %+v", left, right)
		}
		if math.Abs(left.Mean-right.Mean) > 1e-9*math.Max(1, math.Abs(left.Mean)) {
			t.Fatalf("means drifted: %v vs %v", left.Mean, right.Mean)
		}
	})
}

func TestEntry_Scale(t *testing.T) {
	e := Trade(10, 4)

	assert.Equal(t, 1.0, e.Scale(0.25).Volume)
	assert.Equal(t, int64(10), e.Scale(0.25).Max)
	assert.True(t, e.Scale(0).IsEmpty())
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Equal(t, 240*time.Hour, DefaultConfig().Span())
	assert.Error(t, Config{Buckets: 0, Width: time.Hour}.Validate())
	assert.Error(t, Config{Buckets: 1, Width: 1500 * time.Millisecond}.Validate())
}
