// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/colstake/colstake/colstake"
)

// ItemRegistry is the external service holding authoritative custody of
// collateral items. Its transfer outcome is final for an operation; a
// failure aborts the whole operation.
type ItemRegistry interface {
	// IsCustodyPreauthorized reports whether the owner has pre-authorized
	// custody transfers for the collection.
	IsCustodyPreauthorized(owner, collection colstake.Address) (bool, error)

	// Transfer moves an item between custodians.
	Transfer(collection colstake.Address, itemID *big.Int, from, to colstake.Address) error
}

// RewardVault is the external fungible balance pool reward payouts are
// drawn from. It may be underfunded; Payout pays the lesser of the
// requested amount and the available balance and never fails for lack of
// funds.
type RewardVault interface {
	Balance() (*big.Int, error)
	Payout(to colstake.Address, amount *big.Int) (*big.Int, error)

	// Sweep moves an arbitrary amount out of the vault. Admin fund
	// recovery only.
	Sweep(to colstake.Address, amount *big.Int) error
}

// PriceOracle supplies the price signal consumed at stake and liquidation
// time. Trusted and synchronous; the ledger enforces no freshness.
type PriceOracle interface {
	CurrentPrice(collection colstake.Address, itemID *big.Int) (*big.Int, error)
}

// FixedOracle is the default oracle when no external one is wired: it
// returns the administrator-set price from the repository for every item.
type FixedOracle struct {
	repo *Repository
}

func NewFixedOracle(repo *Repository) *FixedOracle {
	return &FixedOracle{repo: repo}
}

func (o *FixedOracle) CurrentPrice(_ colstake.Address, _ *big.Int) (*big.Int, error) {
	return o.repo.Price()
}
