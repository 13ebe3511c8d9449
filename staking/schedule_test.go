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

	"github.com/colstake/colstake/staking/reverts"
)

func TestNewSchedule(t *testing.T) {
	_, err := NewSchedule(60, 50, big.NewInt(1))
	assert.Equal(t, reverts.ErrInvalidWindow, err)

	_, err = NewSchedule(50, 60, big.NewInt(0))
	assert.Equal(t, reverts.ErrInvalidRate, err)

	_, err = NewSchedule(50, 60, nil)
	assert.Equal(t, reverts.ErrInvalidRate, err)

	sched, err := NewSchedule(50, 60, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, uint32(50), sched.StartHeight)
	assert.Equal(t, uint32(60), sched.EndHeight)
}

func TestSchedule_Clamp(t *testing.T) {
	sched, err := NewSchedule(50, 60, big.NewInt(1))
	require.NoError(t, err)

	assert.Equal(t, uint32(50), sched.Clamp(0))
	assert.Equal(t, uint32(50), sched.Clamp(50))
	assert.Equal(t, uint32(55), sched.Clamp(55))
	assert.Equal(t, uint32(60), sched.Clamp(60))
	assert.Equal(t, uint32(60), sched.Clamp(100))
}

func TestSchedule_SetStart(t *testing.T) {
	sched, err := NewSchedule(50, 60, big.NewInt(1))
	require.NoError(t, err)

	// beyond the window end
	assert.Equal(t, reverts.ErrInvalidWindow, sched.SetStart(10, 61))
	// not strictly in the future
	assert.Equal(t, reverts.ErrNotFuture, sched.SetStart(55, 55))
	// window already started
	assert.Equal(t, reverts.ErrAlreadyStarted, sched.SetStart(50, 58))

	require.NoError(t, sched.SetStart(10, 55))
	assert.Equal(t, uint32(55), sched.StartHeight)
}

func TestSchedule_SetEnd(t *testing.T) {
	sched, err := NewSchedule(50, 60, big.NewInt(1))
	require.NoError(t, err)

	assert.Equal(t, reverts.ErrInvalidWindow, sched.SetEnd(10, 49))
	assert.Equal(t, reverts.ErrNotFuture, sched.SetEnd(70, 70))

	// extending is allowed even after the window started
	require.NoError(t, sched.SetEnd(55, 100))
	assert.Equal(t, uint32(100), sched.EndHeight)
}

func TestSchedule_SetRate(t *testing.T) {
	sched, err := NewSchedule(50, 60, big.NewInt(1))
	require.NoError(t, err)

	assert.Equal(t, reverts.ErrInvalidRate, sched.SetRate(big.NewInt(0)))
	assert.Equal(t, reverts.ErrInvalidRate, sched.SetRate(nil))

	require.NoError(t, sched.SetRate(big.NewInt(7)))
	assert.Equal(t, big.NewInt(7), sched.RewardRate)
}
