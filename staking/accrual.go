// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "math/big"

// pendingAmount is the exact reward law: elapsed clamped height times the
// current staked-collection count times the rate, on top of any reward
// carried from earlier underfunded settlements. It is a pure function of a
// ledger snapshot.
//
// The law holds only because every operation that changes the staked count
// settles first, freezing LastSettledHeight at the moment the count changes.
func pendingAmount(acc *Account, sched *Schedule, now uint32) *big.Int {
	unsettled := new(big.Int)
	if acc.UnsettledReward != nil {
		unsettled.Set(acc.UnsettledReward)
	}

	from := acc.LastSettledHeight
	if sched.StartHeight > from {
		from = sched.StartHeight
	}
	to := now
	if sched.EndHeight < to {
		to = sched.EndHeight
	}
	if to < from {
		return unsettled
	}

	accrued := new(big.Int).SetUint64(uint64(to - from))
	accrued.Mul(accrued, big.NewInt(int64(len(acc.Positions))))
	accrued.Mul(accrued, sched.RewardRate)
	return unsettled.Add(unsettled, accrued)
}
