// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountWithPositions(count int, lastSettled uint32, unsettled int64) *Account {
	acc := newAccount()
	acc.LastSettledHeight = lastSettled
	acc.UnsettledReward = big.NewInt(unsettled)
	for i := 0; i < count; i++ {
		acc.AddPosition(&Position{
			Collection:   addr(byte(0x10 + i)),
			ItemID:       big.NewInt(int64(i)),
			PriceAtStake: big.NewInt(100),
		})
	}
	return acc
}

func TestPendingAmount(t *testing.T) {
	sched, err := NewSchedule(50, 60, big.NewInt(100))
	require.NoError(t, err)

	tests := []struct {
		name     string
		acc      *Account
		now      uint32
		expected int64
	}{
		{"before window", accountWithPositions(1, 0, 0), 40, 0},
		{"at window start", accountWithPositions(1, 0, 0), 50, 0},
		{"inside window", accountWithPositions(1, 50, 0), 55, 500},
		{"full window", accountWithPositions(1, 50, 0), 60, 1000},
		{"past window end", accountWithPositions(1, 50, 0), 100, 1000},
		{"two collections", accountWithPositions(2, 50, 0), 60, 2000},
		{"no positions", accountWithPositions(0, 50, 0), 60, 0},
		{"carries unsettled", accountWithPositions(0, 60, 800), 100, 800},
		{"unsettled plus accrual", accountWithPositions(1, 55, 300), 60, 800},
		{"settled after window", accountWithPositions(1, 70, 0), 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, big.NewInt(tt.expected), pendingAmount(tt.acc, sched, tt.now))
		})
	}
}

func TestPendingAmount_MonotoneInHeight(t *testing.T) {
	sched, err := NewSchedule(50, 60, big.NewInt(100))
	require.NoError(t, err)
	acc := accountWithPositions(2, 0, 0)

	prev := new(big.Int)
	for now := uint32(0); now <= 80; now++ {
		pending := pendingAmount(acc, sched, now)
		assert.True(t, pending.Cmp(prev) >= 0, "pending decreased at height %d", now)
		prev = pending
	}
}

func TestPendingAmount_PureFunction(t *testing.T) {
	sched, err := NewSchedule(50, 60, big.NewInt(100))
	require.NoError(t, err)
	acc := accountWithPositions(1, 50, 0)

	first := pendingAmount(acc, sched, 55)
	second := pendingAmount(acc, sched, 55)
	assert.Equal(t, first, second)
	// the snapshot itself is untouched
	assert.Equal(t, uint32(50), acc.LastSettledHeight)
	assert.Equal(t, big.NewInt(0), acc.UnsettledReward)
}
