// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/colstake/colstake/colstake"
	"github.com/colstake/colstake/lvldb"
)

var (
	testOwner     = addr(0x01)
	testCustodian = addr(0xff)
)

func addr(b byte) colstake.Address {
	var a colstake.Address
	a[len(a)-1] = b
	return a
}

// memRegistry is an in-memory item registry tracking custody, so tests can
// assert the position-custody mirror invariant.
type memRegistry struct {
	preauth  map[string]bool
	custody  map[string]colstake.Address
	failNext bool
}

func newMemRegistry() *memRegistry {
	return &memRegistry{
		preauth: make(map[string]bool),
		custody: make(map[string]colstake.Address),
	}
}

func itemKey(collection colstake.Address, itemID *big.Int) string {
	return collection.String() + "/" + itemID.String()
}

func (r *memRegistry) authorize(owner, collection colstake.Address) {
	r.preauth[owner.String()+"/"+collection.String()] = true
}

func (r *memRegistry) mint(collection colstake.Address, itemID *big.Int, owner colstake.Address) {
	r.custody[itemKey(collection, itemID)] = owner
}

func (r *memRegistry) holder(collection colstake.Address, itemID *big.Int) colstake.Address {
	return r.custody[itemKey(collection, itemID)]
}

func (r *memRegistry) IsCustodyPreauthorized(owner, collection colstake.Address) (bool, error) {
	return r.preauth[owner.String()+"/"+collection.String()], nil
}

func (r *memRegistry) Transfer(collection colstake.Address, itemID *big.Int, from, to colstake.Address) error {
	if r.failNext {
		r.failNext = false
		return errors.New("transfer rejected")
	}
	key := itemKey(collection, itemID)
	if holder, ok := r.custody[key]; !ok || holder != from {
		return fmt.Errorf("item %s not held by %s", key, from)
	}
	r.custody[key] = to
	return nil
}

// memVault is an in-memory reward vault that pays the lesser of the
// requested amount and its balance.
type memVault struct {
	balance *big.Int
	payouts map[colstake.Address]*big.Int
}

func newMemVault(balance int64) *memVault {
	return &memVault{
		balance: big.NewInt(balance),
		payouts: make(map[colstake.Address]*big.Int),
	}
}

func (v *memVault) Balance() (*big.Int, error) {
	return new(big.Int).Set(v.balance), nil
}

func (v *memVault) Payout(to colstake.Address, amount *big.Int) (*big.Int, error) {
	paid := new(big.Int).Set(amount)
	if v.balance.Cmp(paid) < 0 {
		paid.Set(v.balance)
	}
	v.balance.Sub(v.balance, paid)

	total, ok := v.payouts[to]
	if !ok {
		total = new(big.Int)
		v.payouts[to] = total
	}
	total.Add(total, paid)
	return paid, nil
}

func (v *memVault) Sweep(_ colstake.Address, amount *big.Int) error {
	if v.balance.Cmp(amount) < 0 {
		return errors.New("insufficient vault balance")
	}
	v.balance.Sub(v.balance, amount)
	return nil
}

func (v *memVault) paidTo(to colstake.Address) *big.Int {
	if total, ok := v.payouts[to]; ok {
		return new(big.Int).Set(total)
	}
	return new(big.Int)
}

// memSink collects posted events.
type memSink struct {
	events []Event
}

func (s *memSink) Post(events []Event) error {
	s.events = append(s.events, events...)
	return nil
}

func (s *memSink) byName(name string) []Event {
	var matched []Event
	for _, ev := range s.events {
		if ev.EventName() == name {
			matched = append(matched, ev)
		}
	}
	return matched
}

type testEnv struct {
	ledger   *Staking
	repo     *Repository
	registry *memRegistry
	vault    *memVault
	sink     *memSink
}

// newTestEnv builds a ledger over an in-memory store with the given
// schedule and vault balance.
func newTestEnv(t *testing.T, start, end uint32, rate, vaultBalance int64) *testEnv {
	t.Helper()

	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	repo := NewRepository(store)
	sched, err := NewSchedule(start, end, big.NewInt(rate))
	require.NoError(t, err)
	require.NoError(t, repo.SaveSchedule(store, sched))
	require.NoError(t, repo.SaveOwner(store, testOwner))
	require.NoError(t, repo.SavePrice(store, big.NewInt(100)))

	registry := newMemRegistry()
	vault := newMemVault(vaultBalance)
	sink := &memSink{}

	ledger := New(repo, registry, vault, NewFixedOracle(repo), testCustodian)
	ledger.SetEventSink(sink)

	return &testEnv{
		ledger:   ledger,
		repo:     repo,
		registry: registry,
		vault:    vault,
		sink:     sink,
	}
}

// prepare whitelists the collection, mints the item to the account and
// authorizes custody transfer.
func (env *testEnv) prepare(t *testing.T, account, collection colstake.Address, itemID *big.Int) {
	t.Helper()
	require.NoError(t, env.ledger.AddCollection(testOwner, collection))
	env.registry.mint(collection, itemID, account)
	env.registry.authorize(account, collection)
}
