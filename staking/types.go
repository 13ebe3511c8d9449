// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/colstake/colstake/colstake"
)

// Position is a staked collateral item held in system custody on behalf of
// an account, with its stake-time price recorded.
type Position struct {
	Collection   colstake.Address
	ItemID       *big.Int
	PriceAtStake *big.Int
}

// Copy makes a deep copy.
func (p *Position) Copy() *Position {
	return &Position{
		Collection:   p.Collection,
		ItemID:       new(big.Int).Set(p.ItemID),
		PriceAtStake: new(big.Int).Set(p.PriceAtStake),
	}
}

// Account is the per-account ledger entry. Positions double as the stable
// enumeration index: insertion order, at most one per collection.
type Account struct {
	Positions         []*Position
	UnsettledReward   *big.Int
	LastSettledHeight uint32
}

func newAccount() *Account {
	return &Account{
		UnsettledReward: new(big.Int),
	}
}

// IsEmpty returns true when the entry is logically equivalent to a
// non-existent one and can be pruned from storage.
func (a *Account) IsEmpty() bool {
	return len(a.Positions) == 0 && a.UnsettledReward.Sign() == 0
}

// Position returns the position for the given collection, or nil.
func (a *Account) Position(collection colstake.Address) *Position {
	for _, p := range a.Positions {
		if p.Collection == collection {
			return p
		}
	}
	return nil
}

// AddPosition appends a position, keeping insertion order.
// The caller must have checked the collection is not yet staked.
func (a *Account) AddPosition(p *Position) {
	a.Positions = append(a.Positions, p)
}

// RemovePosition removes the position for the given collection, preserving
// the order of the remaining ones. Returns false if absent.
func (a *Account) RemovePosition(collection colstake.Address) bool {
	for i, p := range a.Positions {
		if p.Collection == collection {
			a.Positions = append(a.Positions[:i], a.Positions[i+1:]...)
			return true
		}
	}
	return false
}

// Copy makes a deep copy of the entry.
func (a *Account) Copy() *Account {
	c := &Account{
		UnsettledReward:   new(big.Int).Set(a.UnsettledReward),
		LastSettledHeight: a.LastSettledHeight,
	}
	if len(a.Positions) > 0 {
		c.Positions = make([]*Position, 0, len(a.Positions))
		for _, p := range a.Positions {
			c.Positions = append(c.Positions, p.Copy())
		}
	}
	return c
}
