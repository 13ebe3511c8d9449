// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colstake/colstake/colstake"
	"github.com/colstake/colstake/staking"
)

func addr(b byte) colstake.Address {
	var a colstake.Address
	a[len(a)-1] = b
	return a
}

func newTestDB(t *testing.T) *EventDB {
	t.Helper()
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostAndQuery(t *testing.T) {
	db := newTestDB(t)

	alice, bob := addr(0x01), addr(0x02)
	collection := addr(0x10)

	require.NoError(t, db.Post([]staking.Event{
		&staking.Harvested{Height: 50, Account: alice, Paid: big.NewInt(0)},
		&staking.Staked{Height: 50, Account: alice, Collection: collection, ItemID: big.NewInt(7)},
	}))
	require.NoError(t, db.Post([]staking.Event{
		&staking.Harvested{Height: 60, Account: bob, Paid: big.NewInt(200)},
		&staking.InsufficientRewardPool{Height: 60, Account: bob, Requested: big.NewInt(1000), Paid: big.NewInt(200)},
	}))
	require.NoError(t, db.Post([]staking.Event{
		&staking.Withdrawn{Height: 70, Account: alice, Collection: collection, ItemID: big.NewInt(7)},
	}))
	require.NoError(t, db.Post([]staking.Event{
		&staking.Liquidated{Height: 80, Account: bob, Collection: collection, ItemID: big.NewInt(9), Liquidator: alice},
	}))

	// everything, oldest first
	all, err := db.Query(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, "Harvested", all[0].Name)
	assert.Equal(t, "Staked", all[1].Name)
	assert.Equal(t, "Liquidated", all[5].Name)
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i].Seq, all[i-1].Seq)
	}

	// staked row carries collection and item
	staked := all[1]
	require.NotNil(t, staked.Collection)
	assert.Equal(t, collection, *staked.Collection)
	require.NotNil(t, staked.ItemID)
	assert.Equal(t, "7", *staked.ItemID)
	assert.Nil(t, staked.Paid)

	// underfunded row carries both amounts
	short := all[3]
	assert.Equal(t, "InsufficientRewardPool", short.Name)
	require.NotNil(t, short.Requested)
	assert.Equal(t, "1000", *short.Requested)
	require.NotNil(t, short.Paid)
	assert.Equal(t, "200", *short.Paid)

	// liquidated row carries the liquidator
	liq := all[5]
	require.NotNil(t, liq.Liquidator)
	assert.Equal(t, alice, *liq.Liquidator)
}

func TestQueryFilters(t *testing.T) {
	db := newTestDB(t)

	alice, bob := addr(0x01), addr(0x02)
	for i := uint32(0); i < 5; i++ {
		account := alice
		if i%2 == 1 {
			account = bob
		}
		require.NoError(t, db.Post([]staking.Event{
			&staking.Harvested{Height: 50 + i, Account: account, Paid: big.NewInt(int64(i))},
		}))
	}

	byAccount, err := db.Query(context.Background(), &Filter{Account: &alice})
	require.NoError(t, err)
	require.Len(t, byAccount, 3)
	for _, rec := range byAccount {
		assert.Equal(t, alice, rec.Account)
	}

	byName, err := db.Query(context.Background(), &Filter{Name: "Harvested"})
	require.NoError(t, err)
	assert.Len(t, byName, 5)

	byName, err = db.Query(context.Background(), &Filter{Name: "Staked"})
	require.NoError(t, err)
	assert.Empty(t, byName)

	limited, err := db.Query(context.Background(), &Filter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, uint32(50), limited[0].Height)
	assert.Equal(t, uint32(51), limited[1].Height)
}
