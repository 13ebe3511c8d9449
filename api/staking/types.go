// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/colstake/colstake/colstake"

// Schedule is the reward window view.
type Schedule struct {
	StartHeight uint32 `json:"startHeight"`
	EndHeight   uint32 `json:"endHeight"`
	RewardRate  string `json:"rewardRate"`
}

// AccountPosition is one open position of an account.
type AccountPosition struct {
	Collection colstake.Address `json:"collection"`
	ItemID     string           `json:"itemId"`
}

// PendingRewards is the reward an account would settle at the height.
type PendingRewards struct {
	Height  uint32 `json:"height"`
	Pending string `json:"pending"`
}
