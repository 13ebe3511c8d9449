// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/colstake/colstake/colstake"
)

// Event is a ledger notification produced by a committed operation.
type Event interface {
	EventName() string
}

// Sink receives the events of a committed operation.
type Sink interface {
	Post(events []Event) error
}

// Staked is emitted when a position is opened.
type Staked struct {
	Height     uint32
	Account    colstake.Address
	Collection colstake.Address
	ItemID     *big.Int
}

func (*Staked) EventName() string { return "Staked" }

// Withdrawn is emitted when a position is closed by its owner.
type Withdrawn struct {
	Height     uint32
	Account    colstake.Address
	Collection colstake.Address
	ItemID     *big.Int
}

func (*Withdrawn) EventName() string { return "Withdrawn" }

// Liquidated is emitted when a position is force-closed, with custody
// redirected to the liquidator.
type Liquidated struct {
	Height     uint32
	Account    colstake.Address
	Collection colstake.Address
	ItemID     *big.Int
	Liquidator colstake.Address
}

func (*Liquidated) EventName() string { return "Liquidated" }

// Harvested is emitted on every settlement with the amount actually paid.
type Harvested struct {
	Height  uint32
	Account colstake.Address
	Paid    *big.Int
}

func (*Harvested) EventName() string { return "Harvested" }

// InsufficientRewardPool is emitted when a settlement could not be paid in
// full; the shortfall is carried and retried at the next settlement.
type InsufficientRewardPool struct {
	Height    uint32
	Account   colstake.Address
	Requested *big.Int
	Paid      *big.Int
}

func (*InsufficientRewardPool) EventName() string { return "InsufficientRewardPool" }
