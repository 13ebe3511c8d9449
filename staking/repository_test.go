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

	"github.com/colstake/colstake/colstake"
	"github.com/colstake/colstake/lvldb"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewRepository(store)
}

func TestRepository_Schedule(t *testing.T) {
	repo := newTestRepo(t)

	initialized, err := repo.Initialized()
	require.NoError(t, err)
	assert.False(t, initialized)
	_, err = repo.Schedule()
	assert.ErrorContains(t, err, "not initialized")

	sched, err := NewSchedule(50, 60, big.NewInt(100))
	require.NoError(t, err)
	require.NoError(t, repo.SaveSchedule(repo.store, sched))

	initialized, err = repo.Initialized()
	require.NoError(t, err)
	assert.True(t, initialized)

	loaded, err := repo.Schedule()
	require.NoError(t, err)
	assert.Equal(t, sched.StartHeight, loaded.StartHeight)
	assert.Equal(t, sched.EndHeight, loaded.EndHeight)
	assert.Equal(t, 0, sched.RewardRate.Cmp(loaded.RewardRate))
}

func TestRepository_Owner(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Owner()
	assert.ErrorContains(t, err, "not initialized")

	require.NoError(t, repo.SaveOwner(repo.store, testOwner))
	owner, err := repo.Owner()
	require.NoError(t, err)
	assert.Equal(t, testOwner, owner)
}

func TestRepository_PriceDefaults(t *testing.T) {
	repo := newTestRepo(t)

	price, err := repo.Price()
	require.NoError(t, err)
	assert.Equal(t, 0, DefaultPrice.Cmp(price))

	require.NoError(t, repo.SavePrice(repo.store, big.NewInt(12345)))
	price, err = repo.Price()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(12345), price)
}

func TestRepository_Whitelist(t *testing.T) {
	repo := newTestRepo(t)

	a, b := addr(0x10), addr(0x11)

	listed, err := repo.IsWhitelisted(a)
	require.NoError(t, err)
	assert.False(t, listed)

	require.NoError(t, repo.AddWhitelisted(repo.store, a))
	require.NoError(t, repo.AddWhitelisted(repo.store, b))
	require.NoError(t, repo.AddWhitelisted(repo.store, a)) // idempotent

	listed, err = repo.IsWhitelisted(a)
	require.NoError(t, err)
	assert.True(t, listed)

	list, err := repo.Whitelisted()
	require.NoError(t, err)
	assert.Equal(t, []colstake.Address{a, b}, list)

	require.NoError(t, repo.RemoveWhitelisted(repo.store, a))
	require.NoError(t, repo.RemoveWhitelisted(repo.store, a)) // idempotent

	list, err = repo.Whitelisted()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b, list[0])
}

func TestRepository_AccountRoundtrip(t *testing.T) {
	repo := newTestRepo(t)
	owner := addr(0x02)

	// a missing entry reads as a fresh empty one
	acc, err := repo.Account(owner)
	require.NoError(t, err)
	assert.True(t, acc.IsEmpty())

	acc.AddPosition(&Position{
		Collection:   addr(0x10),
		ItemID:       big.NewInt(7),
		PriceAtStake: big.NewInt(100),
	})
	acc.UnsettledReward = big.NewInt(800)
	acc.LastSettledHeight = 55
	require.NoError(t, repo.UpdateAccount(owner, acc))

	loaded, err := repo.Account(owner)
	require.NoError(t, err)
	require.Len(t, loaded.Positions, 1)
	assert.Equal(t, addr(0x10), loaded.Positions[0].Collection)
	assert.Equal(t, big.NewInt(7), loaded.Positions[0].ItemID)
	assert.Equal(t, big.NewInt(100), loaded.Positions[0].PriceAtStake)
	assert.Equal(t, big.NewInt(800), loaded.UnsettledReward)
	assert.Equal(t, uint32(55), loaded.LastSettledHeight)

	// the returned copy is private: mutating it does not leak into the cache
	loaded.LastSettledHeight = 99
	again, err := repo.Account(owner)
	require.NoError(t, err)
	assert.Equal(t, uint32(55), again.LastSettledHeight)
}

func TestRepository_AccountPruning(t *testing.T) {
	repo := newTestRepo(t)
	owner := addr(0x02)

	acc, err := repo.Account(owner)
	require.NoError(t, err)
	acc.AddPosition(&Position{
		Collection:   addr(0x10),
		ItemID:       big.NewInt(1),
		PriceAtStake: big.NewInt(100),
	})
	require.NoError(t, repo.UpdateAccount(owner, acc))

	accounts, err := repo.Accounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, owner, accounts[0])

	// draining the account removes the persisted entry entirely
	acc.RemovePosition(addr(0x10))
	acc.UnsettledReward = new(big.Int)
	require.NoError(t, repo.UpdateAccount(owner, acc))

	accounts, err = repo.Accounts()
	require.NoError(t, err)
	assert.Empty(t, accounts)

	reloaded, err := repo.Account(owner)
	require.NoError(t, err)
	assert.True(t, reloaded.IsEmpty())
}

func TestRepository_AccountKeptWhileRewardOwed(t *testing.T) {
	repo := newTestRepo(t)
	owner := addr(0x02)

	// zero positions but a carried reward still persists
	acc, err := repo.Account(owner)
	require.NoError(t, err)
	acc.UnsettledReward = big.NewInt(800)
	acc.LastSettledHeight = 60
	require.NoError(t, repo.UpdateAccount(owner, acc))

	loaded, err := repo.Account(owner)
	require.NoError(t, err)
	assert.False(t, loaded.IsEmpty())
	assert.Equal(t, big.NewInt(800), loaded.UnsettledReward)
}
