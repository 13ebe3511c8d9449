// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/colstake/colstake/staking/reverts"
)

// Schedule holds the reward window and the reward rate per height per
// staked collection. Invariants: StartHeight <= EndHeight, RewardRate > 0.
type Schedule struct {
	StartHeight uint32
	EndHeight   uint32
	RewardRate  *big.Int
}

// NewSchedule creates a validated schedule.
func NewSchedule(start, end uint32, rate *big.Int) (*Schedule, error) {
	if start > end {
		return nil, reverts.ErrInvalidWindow
	}
	if rate == nil || rate.Sign() <= 0 {
		return nil, reverts.ErrInvalidRate
	}
	return &Schedule{
		StartHeight: start,
		EndHeight:   end,
		RewardRate:  new(big.Int).Set(rate),
	}, nil
}

// Clamp bounds the given height into the closed reward window.
func (s *Schedule) Clamp(height uint32) uint32 {
	if height < s.StartHeight {
		return s.StartHeight
	}
	if height > s.EndHeight {
		return s.EndHeight
	}
	return height
}

// Started returns true once the window start has been reached.
func (s *Schedule) Started(now uint32) bool {
	return now >= s.StartHeight
}

// SetStart moves the window start. Only allowed before the current start is
// reached, and only to a future height inside the window.
func (s *Schedule) SetStart(now, newStart uint32) error {
	if newStart > s.EndHeight {
		return reverts.ErrInvalidWindow
	}
	if newStart <= now {
		return reverts.ErrNotFuture
	}
	if s.StartHeight <= now {
		return reverts.ErrAlreadyStarted
	}
	s.StartHeight = newStart
	return nil
}

// SetEnd moves the window end. The end may be extended at any time as long
// as it stays after both the start and the current height.
func (s *Schedule) SetEnd(now, newEnd uint32) error {
	if newEnd < s.StartHeight {
		return reverts.ErrInvalidWindow
	}
	if newEnd <= now {
		return reverts.ErrNotFuture
	}
	s.EndHeight = newEnd
	return nil
}

// SetRate replaces the reward rate.
func (s *Schedule) SetRate(newRate *big.Int) error {
	if newRate == nil || newRate.Sign() <= 0 {
		return reverts.ErrInvalidRate
	}
	s.RewardRate = new(big.Int).Set(newRate)
	return nil
}

// Copy makes a deep copy.
func (s *Schedule) Copy() *Schedule {
	return &Schedule{
		StartHeight: s.StartHeight,
		EndHeight:   s.EndHeight,
		RewardRate:  new(big.Int).Set(s.RewardRate),
	}
}
