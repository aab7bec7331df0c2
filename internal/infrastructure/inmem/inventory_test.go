package inmem

import (
	"context"
	"math"
	"testing"

	"github.com/muhammadchandra19/venue-ledger/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestInventory_Money(t *testing.T) {
	ctx := context.Background()
	inv := NewInventory(0)

	assert.Equal(t, int64(50), inv.DepositMoney(ctx, "chest", 50))
	require.NoError(t, inv.WithdrawMoney(ctx, "chest", 20))
	assert.Equal(t, int64(30), inv.Balance(ctx, "chest"))

	err := inv.WithdrawMoney(ctx, "chest", 31)
	assert.Equal(t, string(errors.InsufficientFunds), errors.CodeOf(err))
	assert.Equal(t, int64(30), inv.Balance(ctx, "chest"), "failed withdrawal leaves balance untouched")

	inv.DepositMoney(ctx, "rich", math.MaxInt64-5)
	assert.Equal(t, int64(5), inv.DepositMoney(ctx, "rich", 100))
	assert.Equal(t, int64(0), inv.DepositMoney(ctx, "rich", -1))
}

func TestInventory_ItemsRespectCapacity(t *testing.T) {
	ctx := context.Background()
	inv := NewInventory(64)

	assert.Equal(t, int64(60), inv.DepositItems(ctx, "crate", "iron", 60))
	assert.Equal(t, int64(4), inv.DepositItems(ctx, "crate", "iron", 10))
	assert.Equal(t, int64(0), inv.DepositItems(ctx, "crate", "iron", 1))

	err := inv.WithdrawItems(ctx, "crate", "gold", 1)
	assert.Equal(t, string(errors.InsufficientStock), errors.CodeOf(err))
	require.NoError(t, inv.WithdrawItems(ctx, "crate", "iron", 64))
	assert.Equal(t, int64(0), inv.Stock(ctx, "crate", "iron"))
}

func TestInventory_NeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		inv := NewInventory(rapid.Int64Range(0, 100).Draw(t, "capacity"))
		var want int64
		for range rapid.IntRange(1, 50).Draw(t, "ops") {
			n := rapid.Int64Range(-5, 80).Draw(t, "n")
			if rapid.Bool().Draw(t, "deposit") {
				want += inv.DepositItems(ctx, "crate", "iron", n)
			} else if inv.WithdrawItems(ctx, "crate", "iron", n) == nil {
				want -= n
			}
			got := inv.Stock(ctx, "crate", "iron")
			if got != want || got < 0 {
				t.Fatalf("stock %d, want %d", got, want)
			}
		}
	})
}
